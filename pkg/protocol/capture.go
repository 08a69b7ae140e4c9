package protocol

import "time"

// CaptureStatus is "ok" for a saved screenshot, otherwise the failure kind.
type CaptureStatus string

const (
	CaptureOK                  CaptureStatus = "ok"
	CaptureUnsupportedPlatform CaptureStatus = "unsupported_platform"
	CaptureMissingDependency   CaptureStatus = "missing_dependency"
	CaptureExternalFailure     CaptureStatus = "external_failure"
	CaptureUnexpected          CaptureStatus = "unexpected"
)

// CaptureTrigger names what started a capture.
type CaptureTrigger string

const (
	TriggerMCP      CaptureTrigger = "mcp"
	TriggerAPI      CaptureTrigger = "api"
	TriggerSchedule CaptureTrigger = "schedule"
)

// CaptureRecord is one invocation of the screenshot tool, successful or not.
type CaptureRecord struct {
	ID         string         `json:"id"`
	Tool       string         `json:"tool"`
	Backend    string         `json:"backend"`
	Platform   string         `json:"platform"`
	Path       string         `json:"path,omitempty"`
	Status     CaptureStatus  `json:"status"`
	Message    string         `json:"message"`
	Trigger    CaptureTrigger `json:"trigger"`
	CapturedAt time.Time      `json:"captured_at"`
	DurationMS int64          `json:"duration_ms"`
}

// OK reports whether the record describes a saved screenshot.
func (r *CaptureRecord) OK() bool {
	return r.Status == CaptureOK
}
