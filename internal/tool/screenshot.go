package tool

import (
	"context"

	"github.com/h1v3-io/screenshotter/internal/capture"
	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

const (
	NativeToolName  = "take_a_screenshot"
	LibraryToolName = "take_a_screenshot_modern"
)

const (
	nativeDescription = "Take a screenshot and return the path to the saved file.\n\n" +
		"This function supports macOS, Linux, and Windows platforms.\n" +
		"Uses native screenshot tools for better performance and reliability."
	libraryDescription = "Take a screenshot using an in-process capture library for cross-platform compatibility."
)

// Taker runs a single capture. *capture.Service implements it.
type Taker interface {
	Take(ctx context.Context, trigger protocol.CaptureTrigger) capture.Outcome
}

// ToolNameFor returns the MCP tool name exposed for a capture backend.
func ToolNameFor(backend string) string {
	if backend == capture.BackendLibrary {
		return LibraryToolName
	}
	return NativeToolName
}

// ScreenshotTool captures the primary display. It takes no arguments.
type ScreenshotTool struct {
	name        string
	description string
	taker       Taker
}

// NewScreenshotTool builds the screenshot tool for the given backend name.
func NewScreenshotTool(backend string, taker Taker) *ScreenshotTool {
	t := &ScreenshotTool{name: ToolNameFor(backend), description: nativeDescription, taker: taker}
	if t.name == LibraryToolName {
		t.description = libraryDescription
	}
	return t
}

func (t *ScreenshotTool) Name() string        { return t.name }
func (t *ScreenshotTool) Description() string { return t.description }
func (t *ScreenshotTool) Parameters() map[string]any {
	return protocol.EmptyObjectSchema()
}

// Execute ignores params. On failure the returned error's message is the
// exact text shown to the caller.
func (t *ScreenshotTool) Execute(ctx context.Context, _ map[string]any) (string, error) {
	out := t.taker.Take(ctx, protocol.TriggerMCP)
	if !out.OK() {
		return "", out.Err
	}
	return out.Text(), nil
}
