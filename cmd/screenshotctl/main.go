package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screenshotctl",
	Short: "Manage a screenshotter MCP server",
	Long: `screenshotctl talks to a running screenshotterd through its admin API,
or directly over MCP with the call command.

Environment:
  SCREENSHOTTER_API_URL  Admin API URL (default: ` + defaultAPIURL + `)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
