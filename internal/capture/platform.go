package capture

import (
	"runtime"
	"strings"
)

// Platform is an operating system identifier as reported by runtime.GOOS.
type Platform string

const (
	PlatformDarwin  Platform = "darwin"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
)

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	return ParsePlatform(runtime.GOOS)
}

// ParsePlatform normalizes an identifier. Unknown values are kept verbatim
// so they can be reported back to the caller.
func ParsePlatform(s string) Platform {
	return Platform(strings.ToLower(strings.TrimSpace(s)))
}

// Supported reports whether the native backend has a capture strategy for p.
func (p Platform) Supported() bool {
	switch p {
	case PlatformDarwin, PlatformLinux, PlatformWindows:
		return true
	}
	return false
}

func (p Platform) String() string { return string(p) }
