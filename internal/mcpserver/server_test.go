package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/h1v3-io/screenshotter/internal/tool"
)

type fakeTool struct {
	name string
	out  string
	err  error
	args map[string]any
}

func (f *fakeTool) Name() string               { return f.name }
func (f *fakeTool) Description() string        { return "fake " + f.name }
func (f *fakeTool) Parameters() map[string]any { return map[string]any{"type": "object", "properties": map[string]any{}} }
func (f *fakeTool) Execute(_ context.Context, args map[string]any) (string, error) {
	f.args = args
	return f.out, f.err
}

func newTestServer(t *testing.T, tools ...tool.Tool) *Server {
	t.Helper()
	reg := tool.NewRegistry()
	for _, tl := range tools {
		if err := reg.Register(tl); err != nil {
			t.Fatal(err)
		}
	}
	s, err := New(reg, Info{Name: "screenshotter", Version: "test"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	initialize(t, s)
	return s
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	resp := call(t, s, `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	if resp["error"] != nil {
		t.Fatalf("initialize failed: %v", resp["error"])
	}
}

func call(t *testing.T, s *Server, raw string) map[string]any {
	t.Helper()
	msg := s.MCP().HandleMessage(context.Background(), json.RawMessage(raw))
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return out
}

func resultOf(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in %v", resp)
	}
	return result
}

func TestToolsList(t *testing.T) {
	s := newTestServer(t, &fakeTool{name: "take_a_screenshot"})

	result := resultOf(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	tools, _ := result["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %v", result["tools"])
	}
	tl := tools[0].(map[string]any)
	if tl["name"] != "take_a_screenshot" {
		t.Errorf("name = %v", tl["name"])
	}
	schema, _ := tl["inputSchema"].(map[string]any)
	if schema["type"] != "object" {
		t.Errorf("inputSchema = %v", tl["inputSchema"])
	}
}

func TestToolsList_AdvertisesRegistryDefinitions(t *testing.T) {
	s := newTestServer(t, &fakeTool{name: "take_a_screenshot"}, &fakeTool{name: "list_screenshots"})

	result := resultOf(t, call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	tools, _ := result["tools"].([]any)
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %v", result["tools"])
	}
	byName := map[string]map[string]any{}
	for _, raw := range tools {
		tl := raw.(map[string]any)
		byName[tl["name"].(string)] = tl
	}
	for _, name := range []string{"take_a_screenshot", "list_screenshots"} {
		tl, ok := byName[name]
		if !ok {
			t.Fatalf("missing %s in %v", name, byName)
		}
		if tl["description"] != "fake "+name {
			t.Errorf("%s description = %v", name, tl["description"])
		}
	}
}

func TestToolsCall_Success(t *testing.T) {
	ft := &fakeTool{name: "take_a_screenshot", out: "Screenshot saved successfully to: /tmp/x.png"}
	s := newTestServer(t, ft)

	result := resultOf(t, call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"take_a_screenshot","arguments":{}}}`))
	if isErr, _ := result["isError"].(bool); isErr {
		t.Fatalf("unexpected error result: %v", result)
	}
	content := result["content"].([]any)
	first := content[0].(map[string]any)
	if first["type"] != "text" || first["text"] != "Screenshot saved successfully to: /tmp/x.png" {
		t.Errorf("content = %v", first)
	}
}

func TestToolsCall_FailureIsErrorResult(t *testing.T) {
	ft := &fakeTool{name: "take_a_screenshot", err: errors.New("Error: Unsupported operating system: plan9")}
	s := newTestServer(t, ft)

	resp := call(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"take_a_screenshot","arguments":{}}}`)
	if resp["error"] != nil {
		t.Fatalf("tool failure should not be a protocol error: %v", resp["error"])
	}
	result := resultOf(t, resp)
	if isErr, _ := result["isError"].(bool); !isErr {
		t.Fatalf("expected isError, got %v", result)
	}
	first := result["content"].([]any)[0].(map[string]any)
	if first["text"] != "Error: Unsupported operating system: plan9" {
		t.Errorf("text = %v", first["text"])
	}
}

func TestToolsCall_PassesArguments(t *testing.T) {
	ft := &fakeTool{name: "list_screenshots", out: "ok"}
	s := newTestServer(t, ft)

	call(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"list_screenshots","arguments":{"limit":3}}}`)
	if ft.args["limit"] != float64(3) {
		t.Errorf("args = %v", ft.args)
	}
}

func TestServe_UnknownTransport(t *testing.T) {
	s := newTestServer(t)
	if err := s.Serve(context.Background(), "carrier-pigeon", "", nil, nil); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestServe_NetworkRequiresAddr(t *testing.T) {
	s := newTestServer(t)
	if err := s.Serve(context.Background(), TransportSSE, "", nil, nil); err == nil {
		t.Fatal("expected error for missing addr")
	}
}
