package capture

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CapturePathEnv carries the destination path into the PowerShell child
// process so the path is never part of the script text.
const CapturePathEnv = "SCREENSHOTTER_CAPTURE_PATH"

const scrotInstallHint = "scrot command not found. Please install scrot: sudo apt-get install scrot"

const windowsCaptureScript = `
Add-Type -AssemblyName System.Windows.Forms
Add-Type -AssemblyName System.Drawing

$bounds = [System.Windows.Forms.Screen]::PrimaryScreen.Bounds
$bitmap = New-Object System.Drawing.Bitmap $bounds.Width, $bounds.Height
$graphics = [System.Drawing.Graphics]::FromImage($bitmap)
$graphics.CopyFromScreen($bounds.Location, [System.Drawing.Point]::Empty, $bounds.Size)
$bitmap.Save($env:SCREENSHOTTER_CAPTURE_PATH, [System.Drawing.Imaging.ImageFormat]::Png)
$graphics.Dispose()
$bitmap.Dispose()
`

// NativeBackend captures with the platform's own screenshot utility.
// The strategy is fixed at construction from the platform.
type NativeBackend struct {
	platform Platform
	strategy strategy
	runner   Runner
	lookPath func(string) (string, error)
}

// NativeOption configures a NativeBackend.
type NativeOption func(*NativeBackend)

// WithPlatform overrides the detected platform.
func WithPlatform(p Platform) NativeOption {
	return func(b *NativeBackend) { b.platform = p }
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) NativeOption {
	return func(b *NativeBackend) { b.runner = r }
}

// WithLookPath replaces the PATH lookup used by the Linux pre-check.
func WithLookPath(fn func(string) (string, error)) NativeOption {
	return func(b *NativeBackend) { b.lookPath = fn }
}

// NewNativeBackend creates a backend for the current platform.
func NewNativeBackend(opts ...NativeOption) *NativeBackend {
	b := &NativeBackend{
		platform: CurrentPlatform(),
		runner:   ExecRunner{},
		lookPath: exec.LookPath,
	}
	for _, o := range opts {
		o(b)
	}
	b.strategy = strategyFor(b.platform)
	return b
}

func (b *NativeBackend) Name() string { return BackendNative }

// Platform returns the platform the strategy was selected for.
func (b *NativeBackend) Platform() Platform { return b.platform }

func (b *NativeBackend) Capture(ctx context.Context, path string) error {
	return b.strategy.capture(ctx, b, path)
}

// run executes cmd and folds a failed exit into an external failure.
func (b *NativeBackend) run(ctx context.Context, cmd Command) error {
	stdout, stderr, err := b.runner.Run(ctx, cmd)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return unexpected(fmt.Errorf("%s interrupted: %w", cmd.Name, ctx.Err()))
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return externalFailure(diagnostic(cmd.Name, exitErr.ExitCode(), stdout, stderr), err)
	}
	return unexpected(err)
}

// diagnostic prefers stderr, then stdout, then the exit status.
func diagnostic(name string, code int, stdout, stderr []byte) string {
	if s := strings.TrimSpace(string(stderr)); s != "" {
		return s
	}
	if s := strings.TrimSpace(string(stdout)); s != "" {
		return s
	}
	return fmt.Sprintf("%s exited with status %d", name, code)
}

type strategy interface {
	capture(ctx context.Context, b *NativeBackend, path string) error
}

func strategyFor(p Platform) strategy {
	switch p {
	case PlatformDarwin:
		return macCapture{}
	case PlatformLinux:
		return linuxCapture{}
	case PlatformWindows:
		return windowsCapture{}
	default:
		return unsupportedCapture{platform: p}
	}
}

type macCapture struct{}

func (macCapture) capture(ctx context.Context, b *NativeBackend, path string) error {
	return b.run(ctx, Command{Name: "screencapture", Args: []string{path}})
}

type linuxCapture struct{}

func (linuxCapture) capture(ctx context.Context, b *NativeBackend, path string) error {
	if _, err := b.lookPath("scrot"); err != nil {
		return missingDependency(scrotInstallHint)
	}
	return b.run(ctx, Command{Name: "scrot", Args: []string{path}})
}

type windowsCapture struct{}

func (windowsCapture) capture(ctx context.Context, b *NativeBackend, path string) error {
	return b.run(ctx, Command{
		Name: "powershell",
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", windowsCaptureScript},
		Env:  []string{CapturePathEnv + "=" + path},
	})
}

type unsupportedCapture struct {
	platform Platform
}

func (u unsupportedCapture) capture(context.Context, *NativeBackend, string) error {
	return unsupportedPlatform(u.platform)
}
