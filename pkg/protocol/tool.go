package protocol

// ToolDefinition describes a tool as advertised by an MCP tools/list response.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// NewToolDefinition creates a ToolDefinition. A nil schema becomes an empty object schema.
func NewToolDefinition(name, description string, schema map[string]any) ToolDefinition {
	if schema == nil {
		schema = EmptyObjectSchema()
	}
	return ToolDefinition{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}
}

// EmptyObjectSchema is the JSON Schema of a tool that takes no arguments.
func EmptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
