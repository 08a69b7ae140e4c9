package mcpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Transport abstracts stdio vs HTTP communication.
type Transport interface {
	// Send delivers a request and returns the matching response.
	Send(ctx context.Context, id int64, msg json.RawMessage) (json.RawMessage, error)
	// Notify delivers a message that has no response.
	Notify(ctx context.Context, msg json.RawMessage) error
	Close() error
}

// --- Stdio Transport ---

// StdioTransport talks to an MCP server over the stdin/stdout of a spawned process.
type StdioTransport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
}

// NewStdioTransport spawns command and returns a transport. The child's
// stderr is forwarded to stderr when non-nil.
func NewStdioTransport(ctx context.Context, command string, args []string, stderr io.Writer) (*StdioTransport, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("mcp stdio: stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("mcp stdio: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("mcp stdio: start %q: %w", command, err)
	}

	return newStdioTransport(cmd, stdin, stdout), nil
}

func newStdioTransport(cmd *exec.Cmd, stdin io.WriteCloser, stdout io.Reader) *StdioTransport {
	return &StdioTransport{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}
}

func (t *StdioTransport) Send(_ context.Context, id int64, msg json.RawMessage) (json.RawMessage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.stdin.Write(append(msg, '\n')); err != nil {
		return nil, fmt.Errorf("mcp stdio: write: %w", err)
	}

	// Skip server notifications and stray lines until our response arrives.
	for {
		line, err := t.stdout.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mcp stdio: read: %w", err)
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var probe struct {
			ID *int64 `json:"id"`
		}
		if json.Unmarshal(line, &probe) == nil && probe.ID != nil && *probe.ID == id {
			return json.RawMessage(line), nil
		}
	}
}

func (t *StdioTransport) Notify(_ context.Context, msg json.RawMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.stdin.Write(append(msg, '\n')); err != nil {
		return fmt.Errorf("mcp stdio: write: %w", err)
	}
	return nil
}

func (t *StdioTransport) Close() error {
	t.stdin.Close()
	if t.cmd == nil {
		return nil
	}
	return t.cmd.Wait()
}

// --- HTTP Transport ---

const sessionHeader = "Mcp-Session-Id"

// HTTPTransport POSTs JSON-RPC to a streamable HTTP MCP endpoint.
type HTTPTransport struct {
	url     string
	client  *http.Client
	mu      sync.Mutex
	session string
}

// NewHTTPTransport creates a transport for the given endpoint URL.
func NewHTTPTransport(url string) *HTTPTransport {
	return &HTTPTransport{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (t *HTTPTransport) Send(ctx context.Context, _ int64, msg json.RawMessage) (json.RawMessage, error) {
	resp, err := t.post(ctx, msg)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mcp http: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mcp http: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		return lastEventData(body)
	}
	return json.RawMessage(body), nil
}

func (t *HTTPTransport) Notify(ctx context.Context, msg json.RawMessage) error {
	resp, err := t.post(ctx, msg)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mcp http: notify status %d", resp.StatusCode)
	}
	return nil
}

func (t *HTTPTransport) post(ctx context.Context, msg json.RawMessage) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(msg))
	if err != nil {
		return nil, fmt.Errorf("mcp http: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	t.mu.Lock()
	if t.session != "" {
		req.Header.Set(sessionHeader, t.session)
	}
	t.mu.Unlock()

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mcp http: request: %w", err)
	}
	if id := resp.Header.Get(sessionHeader); id != "" {
		t.mu.Lock()
		t.session = id
		t.mu.Unlock()
	}
	return resp, nil
}

func (t *HTTPTransport) Close() error { return nil }

// lastEventData returns the payload of the last "data:" line in an SSE body.
func lastEventData(body []byte) (json.RawMessage, error) {
	var data []byte
	for _, line := range bytes.Split(body, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if rest, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			data = bytes.TrimSpace(rest)
		}
	}
	if data == nil {
		return nil, fmt.Errorf("mcp http: event stream carried no data")
	}
	return json.RawMessage(data), nil
}
