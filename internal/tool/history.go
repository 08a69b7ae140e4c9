package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/h1v3-io/screenshotter/internal/journal"
	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

const (
	ListScreenshotsToolName = "list_screenshots"
	defaultListLimit        = 10
)

// Lister is the read side of the capture journal.
type Lister interface {
	List(filter journal.Filter) ([]*protocol.CaptureRecord, error)
}

// ListScreenshotsTool reports recent captures from the journal.
type ListScreenshotsTool struct {
	Journal Lister
}

func (t *ListScreenshotsTool) Name() string { return ListScreenshotsToolName }
func (t *ListScreenshotsTool) Description() string {
	return "List recent screenshot captures, newest first, with their saved path or failure message"
}
func (t *ListScreenshotsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit":  map[string]any{"type": "integer", "description": "Maximum number of captures to return (default 10)"},
			"status": map[string]any{"type": "string", "description": "Filter by status: ok or failed"},
		},
	}
}

func (t *ListScreenshotsTool) Execute(_ context.Context, params map[string]any) (string, error) {
	limit := getInt(params, "limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	recs, err := t.Journal.List(journal.Filter{Status: getString(params, "status"), Limit: limit})
	if err != nil {
		return "", fmt.Errorf("list_screenshots: %w", err)
	}
	if len(recs) == 0 {
		return "No screenshots recorded yet.", nil
	}

	var sb strings.Builder
	for _, rec := range recs {
		fmt.Fprintf(&sb, "%s  %-8s  %s\n", rec.CapturedAt.Local().Format(time.DateTime), rec.Status, summary(rec))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func summary(rec *protocol.CaptureRecord) string {
	if rec.OK() {
		return rec.Path
	}
	return rec.Message
}
