// Package logbuf keeps the most recent log records in memory so the admin
// API can serve them without reading log files.
package logbuf

import (
	"log/slog"
	"sync"
	"time"
)

// Entry is a single captured log record.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     slog.Level     `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects entries from a Buffer. The zero value matches every entry
// at Info level or above.
type Filter struct {
	Since     time.Time
	MinLevel  slog.Level
	Component string
	Limit     int // keep only the newest Limit matches; <= 0 keeps all
}

func (f Filter) match(e Entry) bool {
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	if e.Level < f.MinLevel {
		return false
	}
	return f.Component == "" || e.Component == f.Component
}

// Buffer is a fixed-size ring of entries, safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// New creates a buffer holding at most size entries.
func New(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{entries: make([]Entry, size)}
}

// Write stores e, evicting the oldest entry once the buffer is full.
func (b *Buffer) Write(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = e
	b.next++
	if b.next == len(b.entries) {
		b.next = 0
		b.full = true
	}
}

// Len returns the number of stored entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}

// Query returns matching entries, oldest first.
func (b *Buffer) Query(f Filter) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	ordered := b.entries[:b.next]
	if b.full {
		ordered = append(append([]Entry{}, b.entries[b.next:]...), b.entries[:b.next]...)
	}

	var out []Entry
	for _, e := range ordered {
		if f.match(e) {
			out = append(out, e)
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else yields fallback.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return fallback
	}
	return lvl
}
