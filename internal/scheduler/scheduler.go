package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"
)

// CaptureFunc is called when a scheduled capture fires.
type CaptureFunc func(ctx context.Context, name string)

// Scheduler fires named captures on cron schedules.
type Scheduler struct {
	mu        sync.Mutex
	cron      *cron.Cron
	jobs      map[string]cron.EntryID // schedule name → entry ID
	captureFn CaptureFunc
	ctx       context.Context
	logger    *slog.Logger
}

// New creates a new scheduler.
func New(captureFn CaptureFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:      cron.New(),
		jobs:      make(map[string]cron.EntryID),
		captureFn: captureFn,
		ctx:       context.Background(),
		logger:    logger,
	}
}

// Start begins the cron scheduler. Blocks until context is cancelled.
// Captures fired while running receive ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", s.JobCount())

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

// Add registers a capture schedule under name, replacing any existing one.
// The schedule is a standard 5-field cron expression or a descriptor like @every 1h.
func (s *Scheduler) Add(name, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(schedule, func() { s.fire(name) })
	if err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q: %w", schedule, err)
	}

	if old, ok := s.jobs[name]; ok {
		s.cron.Remove(old)
	}
	s.jobs[name] = id
	s.logger.Info("capture scheduled", "name", name, "schedule", schedule)
	return nil
}

func (s *Scheduler) fire(name string) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	s.logger.Info("cron fired", "name", name)
	s.captureFn(ctx, name)
}

// Remove drops the named schedule. Unknown names are ignored.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.jobs[name]; ok {
		s.cron.Remove(id)
		delete(s.jobs, name)
	}
}

// Names returns the registered schedule names in sorted order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobCount returns the number of scheduled captures.
func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
