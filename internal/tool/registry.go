package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

var (
	ErrUnknownTool   = errors.New("unknown tool")
	ErrDuplicateTool = errors.New("tool already registered")
)

// Registry is the set of tools a server advertises. Names are unique because
// MCP clients address tools by name alone.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds t. It fails on an empty or already registered name.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if name == "" {
		return errors.New("tool: empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool: %s: %w", name, ErrDuplicateTool)
	}
	r.tools[name] = t
	return nil
}

// Definitions describes every registered tool, ordered by name.
func (r *Registry) Definitions() []protocol.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]protocol.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, protocol.NewToolDefinition(t.Name(), t.Description(), t.Parameters()))
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Execute dispatches a call to the named tool.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (string, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("tool: %s: %w", name, ErrUnknownTool)
	}
	if params == nil {
		params = map[string]any{}
	}
	return t.Execute(ctx, params)
}
