package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/h1v3-io/screenshotter/internal/mcpclient"
)

var callCmd = &cobra.Command{
	Use:   "call [tool]",
	Short: "Call an MCP tool on a screenshot server",
	Long: `Connect to a screenshot server over MCP and call one tool.

By default the server is spawned over stdio with --server-cmd. Pass --url to
talk to a server already running the streamable HTTP transport instead.
Without a tool name the server's screenshot tool is called.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().String("url", "", "Streamable HTTP endpoint, e.g. http://localhost:8088/mcp")
	callCmd.Flags().String("server-cmd", "screenshotterd", "Command that starts a stdio server")
	callCmd.Flags().StringToString("arg", nil, "Tool argument as key=value (repeatable)")
	callCmd.Flags().Bool("list", false, "List the server's tools instead of calling one")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	transport, err := dialTransport(ctx, cmd)
	if err != nil {
		return err
	}
	client, err := mcpclient.NewClient(ctx, transport)
	if err != nil {
		transport.Close()
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	if list, _ := cmd.Flags().GetBool("list"); list {
		for _, t := range client.Tools() {
			fmt.Fprintf(out, "%-28s %s\n", t.Name, firstLine(t.Description))
		}
		return nil
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else if name = screenshotTool(client.Tools()); name == "" {
		return fmt.Errorf("server %q exposes no screenshot tool", client.ServerName())
	}

	raw, _ := cmd.Flags().GetStringToString("arg")
	arguments := make(map[string]any, len(raw))
	for k, v := range raw {
		arguments[k] = v
	}

	text, err := client.CallTool(ctx, name, arguments)
	var toolErr *mcpclient.ToolError
	if errors.As(err, &toolErr) {
		fmt.Fprintln(out, toolErr.Text)
		return fmt.Errorf("tool %s reported an error", name)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}

func dialTransport(ctx context.Context, cmd *cobra.Command) (mcpclient.Transport, error) {
	if u, _ := cmd.Flags().GetString("url"); u != "" {
		return mcpclient.NewHTTPTransport(u), nil
	}
	serverCmd, _ := cmd.Flags().GetString("server-cmd")
	parts := strings.Fields(serverCmd)
	if len(parts) == 0 {
		return nil, errors.New("--server-cmd is empty")
	}
	return mcpclient.NewStdioTransport(ctx, parts[0], parts[1:], os.Stderr)
}

// screenshotTool picks the server's capture tool by name prefix.
func screenshotTool(tools []mcpclient.ToolInfo) string {
	for _, t := range tools {
		if strings.HasPrefix(t.Name, "take_a_screenshot") {
			return t.Name
		}
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
