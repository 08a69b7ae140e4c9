package capture

import (
	"errors"
	"fmt"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

// Kind classifies a capture failure.
type Kind string

const (
	KindUnsupportedPlatform Kind = "unsupported_platform"
	KindMissingDependency   Kind = "missing_dependency"
	KindExternalFailure     Kind = "external_failure"
	KindUnexpected          Kind = "unexpected"
)

// Error is a classified capture failure. Error() returns the text shown to
// the tool caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedPlatform, KindMissingDependency:
		return "Error: " + e.Message
	case KindExternalFailure:
		return "Error taking screenshot: " + e.Message
	default:
		return "Unexpected error: " + e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind onto the journal status.
func (e *Error) Status() protocol.CaptureStatus {
	return protocol.CaptureStatus(e.Kind)
}

func unsupportedPlatform(p Platform) *Error {
	return &Error{
		Kind:    KindUnsupportedPlatform,
		Message: fmt.Sprintf("Unsupported operating system: %s", p),
	}
}

func missingDependency(message string) *Error {
	return &Error{Kind: KindMissingDependency, Message: message}
}

func externalFailure(message string, err error) *Error {
	return &Error{Kind: KindExternalFailure, Message: message, Err: err}
}

func unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: err.Error(), Err: err}
}

// classify returns err as an *Error, wrapping unclassified errors as unexpected.
func classify(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return unexpected(err)
}
