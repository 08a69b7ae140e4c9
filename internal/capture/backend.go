package capture

import (
	"context"
	"fmt"
)

const (
	BackendNative  = "native"
	BackendLibrary = "library"
)

// Backend writes a PNG of the primary display to path.
// Failures are returned as *Error where the backend can classify them.
type Backend interface {
	Name() string
	Capture(ctx context.Context, path string) error
}

// NewBackend returns the backend registered under name. Empty selects native.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", BackendNative:
		return NewNativeBackend(), nil
	case BackendLibrary:
		return NewLibraryBackend(nil), nil
	default:
		return nil, fmt.Errorf("capture: unknown backend %q", name)
	}
}

// backendPlatform reports the platform a backend targets.
func backendPlatform(b Backend) Platform {
	if p, ok := b.(interface{ Platform() Platform }); ok {
		return p.Platform()
	}
	return CurrentPlatform()
}
