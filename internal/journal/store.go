// Package journal keeps an append-only history of capture invocations.
package journal

import (
	"errors"
	"time"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

// ErrNotFound is returned by Get for an unknown record ID.
var ErrNotFound = errors.New("capture record not found")

// StatusFailed matches every record whose status is not ok.
const StatusFailed = "failed"

// Store is the persistence interface for capture records.
type Store interface {
	// Save appends a record. Saving an existing ID is an error.
	Save(rec *protocol.CaptureRecord) error
	// Get retrieves a record by ID.
	Get(id string) (*protocol.CaptureRecord, error)
	// List returns records matching the filter, newest first.
	List(filter Filter) ([]*protocol.CaptureRecord, error)
	// Count returns the number of records matching the filter.
	Count(filter Filter) (int, error)
	Close() error
}

// Filter constrains list queries.
type Filter struct {
	Status  string    // "ok", StatusFailed, or an exact failure kind
	Trigger string    // exact match
	Since   time.Time // captured_at >= Since
	Limit   int       // 0 = no limit
}
