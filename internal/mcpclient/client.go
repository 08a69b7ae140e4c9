// Package mcpclient is a minimal MCP client used by screenshotctl to call a
// running screenshot server.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
)

const protocolVersion = "2024-11-05"

// --- JSON-RPC 2.0 types ---

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      *int64 `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- MCP protocol types ---

// ToolInfo describes a tool advertised by the server.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type toolsListResult struct {
	Tools []ToolInfo `json:"tools"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type callToolResult struct {
	Content []content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToolError is returned by CallTool when the server reports isError.
type ToolError struct {
	Tool string
	Text string
}

func (e *ToolError) Error() string { return e.Text }

// Client manages a connection to an MCP server.
type Client struct {
	transport Transport
	nextID    atomic.Int64
	server    string
	tools     []ToolInfo
}

// NewClient performs the initialize handshake and discovers tools.
func NewClient(ctx context.Context, transport Transport) (*Client, error) {
	c := &Client{transport: transport}

	if err := c.initialize(ctx); err != nil {
		return nil, err
	}
	if err := c.discoverTools(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := c.nextID.Add(1)
	data, err := json.Marshal(jsonRPCRequest{JSONRPC: "2.0", ID: &id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("mcp: marshal request: %w", err)
	}

	respData, err := c.transport.Send(ctx, id, data)
	if err != nil {
		return nil, err
	}

	var resp jsonRPCResponse
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("mcp: unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("mcp: rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return resp.Result, nil
}

func (c *Client) initialize(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]string{
			"name":    "screenshotctl",
			"version": "0.1.0",
		},
	}

	result, err := c.call(ctx, "initialize", params)
	if err != nil {
		return fmt.Errorf("mcp: initialize: %w", err)
	}
	var init struct {
		ServerInfo struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(result, &init); err == nil {
		c.server = init.ServerInfo.Name
	}

	data, _ := json.Marshal(jsonRPCRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	if err := c.transport.Notify(ctx, data); err != nil {
		return fmt.Errorf("mcp: initialized notification: %w", err)
	}
	return nil
}

func (c *Client) discoverTools(ctx context.Context) error {
	result, err := c.call(ctx, "tools/list", nil)
	if err != nil {
		return fmt.Errorf("mcp: tools/list: %w", err)
	}

	var list toolsListResult
	if err := json.Unmarshal(result, &list); err != nil {
		return fmt.Errorf("mcp: parse tools list: %w", err)
	}
	c.tools = list.Tools
	return nil
}

// CallTool invokes a tool and returns its joined text content. A result
// flagged isError is returned as *ToolError carrying the same text.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (string, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	result, err := c.call(ctx, "tools/call", callToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return "", err
	}

	var callResult callToolResult
	if err := json.Unmarshal(result, &callResult); err != nil {
		return "", fmt.Errorf("mcp: parse tool result: %w", err)
	}

	var parts []string
	for _, item := range callResult.Content {
		if item.Type == "text" && item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	output := strings.Join(parts, "\n")

	if callResult.IsError {
		return "", &ToolError{Tool: name, Text: output}
	}
	return output, nil
}

// ServerName returns the name the server reported during initialize.
func (c *Client) ServerName() string { return c.server }

// Tools returns the discovered tools.
func (c *Client) Tools() []ToolInfo { return c.tools }

// Close shuts down the transport.
func (c *Client) Close() error { return c.transport.Close() }
