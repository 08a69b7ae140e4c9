package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

// Recorder persists capture records. The journal store implements it.
type Recorder interface {
	Save(rec *protocol.CaptureRecord) error
}

// Options configure a Service.
type Options struct {
	Backend  Backend // required
	Namer    *Namer  // nil means temp dir, overwrite on collision
	Recorder Recorder
	Logger   *slog.Logger
	Tool     string // tool name stamped on records
	Clock    func() time.Time
}

// Service runs captures and turns every failure into an Outcome.
type Service struct {
	backend  Backend
	namer    *Namer
	recorder Recorder
	logger   *slog.Logger
	tool     string
	clock    func() time.Time
}

// NewService validates options and returns a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Backend == nil {
		return nil, errors.New("capture: backend is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	var namer Namer
	if opts.Namer != nil {
		namer = *opts.Namer
	}
	if namer.Now == nil {
		namer.Now = clock
	}
	return &Service{
		backend:  opts.Backend,
		namer:    &namer,
		recorder: opts.Recorder,
		logger:   logger,
		tool:     opts.Tool,
		clock:    clock,
	}, nil
}

// Backend returns the configured backend.
func (s *Service) Backend() Backend { return s.backend }

// Take captures the primary display once. It never panics and never returns
// an error; failures are carried in the Outcome.
func (s *Service) Take(ctx context.Context, trigger protocol.CaptureTrigger) (out Outcome) {
	start := s.clock()
	out = Outcome{
		ID:         uuid.NewString(),
		Tool:       s.tool,
		Backend:    s.backend.Name(),
		Platform:   backendPlatform(s.backend),
		Trigger:    trigger,
		CapturedAt: start,
	}

	defer func() {
		if r := recover(); r != nil {
			out.Path = ""
			out.Err = unexpected(fmt.Errorf("panic: %v", r))
		}
		out.Duration = s.clock().Sub(start)
		s.finish(out)
	}()

	path, err := s.namer.Next()
	if err != nil {
		out.Err = unexpected(err)
		return out
	}
	if err := s.backend.Capture(ctx, path); err != nil {
		out.Err = classify(err)
		return out
	}
	if _, err := os.Stat(path); err != nil {
		out.Err = externalFailure(fmt.Sprintf("%s capture reported success but no file was written", s.backend.Name()), err)
		return out
	}
	out.Path = path
	return out
}

func (s *Service) finish(out Outcome) {
	attrs := []any{
		"id", out.ID,
		"backend", out.Backend,
		"platform", out.Platform.String(),
		"trigger", string(out.Trigger),
		"duration_ms", out.Duration.Milliseconds(),
	}
	if out.OK() {
		s.logger.Info("capture finished", append(attrs, "path", out.Path)...)
	} else {
		s.logger.Warn("capture failed", append(attrs, "kind", string(out.Err.Kind), "error", out.Err.Message)...)
	}

	if s.recorder == nil {
		return
	}
	if err := s.recorder.Save(out.Record()); err != nil {
		s.logger.Error("failed to record capture", "id", out.ID, "error", err)
	}
}
