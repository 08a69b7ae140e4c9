// Package mcpserver exposes a tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/h1v3-io/screenshotter/internal/tool"
)

const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

const shutdownTimeout = 5 * time.Second

// Info identifies the server during the MCP handshake.
type Info struct {
	Name    string
	Version string
}

// Server wraps an MCP server whose tools come from a Registry.
type Server struct {
	mcp    *server.MCPServer
	tools  *tool.Registry
	logger *slog.Logger
}

// New registers every tool in reg with a fresh MCP server.
func New(reg *tool.Registry, info Info, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcp: server.NewMCPServer(
			info.Name,
			info.Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		tools:  reg,
		logger: logger.With("component", "mcp"),
	}

	for _, def := range reg.Definitions() {
		schema, err := json.Marshal(def.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("mcpserver: schema for %s: %w", def.Name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(def.Name, def.Description, schema), s.handler(def.Name))
	}
	return s, nil
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// handler dispatches calls for name through the registry. Tool errors become
// error results whose text is the error message; they are never protocol errors.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.logger.Debug("tool call", "tool", name)
		result, err := s.tools.Execute(ctx, name, req.GetArguments())
		if err != nil {
			s.logger.Debug("tool call failed", "tool", name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// Serve runs the chosen transport until ctx is cancelled. in and out are
// used by the stdio transport only; addr by the network transports.
func (s *Server) Serve(ctx context.Context, transport, addr string, in io.Reader, out io.Writer) error {
	switch transport {
	case "", TransportStdio:
		stdio := server.NewStdioServer(s.mcp)
		stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
		err := stdio.Listen(ctx, in, out)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return fmt.Errorf("mcpserver: stdio: %w", err)
		}
		return nil
	case TransportSSE:
		return s.serveNetwork(ctx, server.NewSSEServer(s.mcp), addr)
	case TransportHTTP:
		return s.serveNetwork(ctx, server.NewStreamableHTTPServer(s.mcp), addr)
	default:
		return fmt.Errorf("mcpserver: unknown transport %q", transport)
	}
}

type networkServer interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

func (s *Server) serveNetwork(ctx context.Context, ns networkServer, addr string) error {
	if addr == "" {
		return errors.New("mcpserver: address is required for network transports")
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mcp listening", "addr", addr)
		errCh <- ns.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mcpserver: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := ns.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("mcpserver: shutdown: %w", err)
		}
		return nil
	}
}
