package tool

import (
	"context"
	"errors"
	"testing"
)

// stubTool is a minimal Tool for testing.
type stubTool struct {
	name   string
	result string
	params map[string]any
}

func (s *stubTool) Name() string               { return s.name }
func (s *stubTool) Description() string        { return "stub " + s.name }
func (s *stubTool) Parameters() map[string]any { return nil }
func (s *stubTool) Execute(_ context.Context, params map[string]any) (string, error) {
	s.params = params
	return s.result, nil
}

func TestRegistry_RegisterAndExecute(t *testing.T) {
	reg := NewRegistry()
	echo := &stubTool{name: "echo", result: "hello"}
	if err := reg.Register(echo); err != nil {
		t.Fatal(err)
	}

	result, err := reg.Execute(context.Background(), "echo", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "hello" {
		t.Errorf("expected 'hello', got %q", result)
	}
	if echo.params == nil {
		t.Error("expected nil arguments to arrive as an empty map")
	}
}

func TestRegistry_RejectsDuplicateAndEmptyNames(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&stubTool{name: "take_a_screenshot"}); err != nil {
		t.Fatal(err)
	}
	err := reg.Register(&stubTool{name: "take_a_screenshot"})
	if !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("expected ErrDuplicateTool, got %v", err)
	}
	if err := reg.Register(&stubTool{}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestRegistry_ExecuteUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), "nope", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestRegistry_Definitions(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "take_a_screenshot"})
	reg.Register(&stubTool{name: "list_screenshots"})

	defs := reg.Definitions()
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "list_screenshots" || defs[1].Name != "take_a_screenshot" {
		t.Errorf("definitions not sorted: %s, %s", defs[0].Name, defs[1].Name)
	}
	if defs[1].Description != "stub take_a_screenshot" {
		t.Errorf("description = %q", defs[1].Description)
	}
	// nil parameters fall back to an empty object schema
	if defs[0].InputSchema["type"] != "object" {
		t.Errorf("schema = %v", defs[0].InputSchema)
	}
}
