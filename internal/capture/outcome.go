package capture

import (
	"time"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

// Outcome is the result of one capture. Exactly one of Path (success) or
// Err (failure) is meaningful.
type Outcome struct {
	ID         string
	Tool       string
	Backend    string
	Platform   Platform
	Path       string
	Trigger    protocol.CaptureTrigger
	CapturedAt time.Time
	Duration   time.Duration
	Err        *Error
}

// OK reports whether the screenshot was saved.
func (o Outcome) OK() bool { return o.Err == nil }

// Text renders the outcome for the tool caller.
func (o Outcome) Text() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return "Screenshot saved successfully to: " + o.Path
}

// Record converts the outcome to its journal form.
func (o Outcome) Record() *protocol.CaptureRecord {
	rec := &protocol.CaptureRecord{
		ID:         o.ID,
		Tool:       o.Tool,
		Backend:    o.Backend,
		Platform:   o.Platform.String(),
		Status:     protocol.CaptureOK,
		Message:    o.Text(),
		Trigger:    o.Trigger,
		CapturedAt: o.CapturedAt,
		DurationMS: o.Duration.Milliseconds(),
	}
	if o.Err != nil {
		rec.Status = o.Err.Status()
	} else {
		rec.Path = o.Path
	}
	return rec
}
