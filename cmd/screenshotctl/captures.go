package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/h1v3-io/screenshotter/pkg/protocol"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daemon health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := newAPIClient().get("/api/health")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), prettyJSON(body))
		return nil
	},
}

var capturesCmd = &cobra.Command{
	Use:   "captures",
	Short: "Inspect the capture journal",
}

var capturesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent captures, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCapturesList,
}

var capturesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one capture record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := newAPIClient().get("/api/captures/" + url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), prettyJSON(body))
		return nil
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Take a screenshot through the daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := newAPIClient().post("/api/captures")
		if err != nil {
			return err
		}
		var rec protocol.CaptureRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return fmt.Errorf("decode capture record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), rec.Message)
		if !rec.OK() {
			return fmt.Errorf("capture %s failed (%s)", rec.ID, rec.Status)
		}
		return nil
	},
}

func init() {
	capturesListCmd.Flags().String("status", "", "Filter by status: ok, failed, or a failure kind")
	capturesListCmd.Flags().String("trigger", "", "Filter by trigger: mcp, api or schedule")
	capturesListCmd.Flags().Int("limit", 20, "Maximum number of captures")

	capturesCmd.AddCommand(capturesListCmd, capturesShowCmd)
	rootCmd.AddCommand(healthCmd, capturesCmd, captureCmd)
}

func runCapturesList(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		q.Set("status", status)
	}
	if trigger, _ := cmd.Flags().GetString("trigger"); trigger != "" {
		q.Set("trigger", trigger)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/captures"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	body, err := newAPIClient().get(path)
	if err != nil {
		return err
	}

	var recs []protocol.CaptureRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		return fmt.Errorf("decode captures: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No captures recorded")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCaptures(recs))
	return nil
}

func renderCaptures(recs []protocol.CaptureRecord) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Captured", "Trigger", "Backend", "Status", "Path / Message", "ms"})

	for _, rec := range recs {
		detail := rec.Path
		if !rec.OK() {
			detail = rec.Message
		}
		t.AppendRow(table.Row{
			rec.ID,
			rec.CapturedAt.Local().Format(time.DateTime),
			rec.Trigger,
			rec.Backend,
			rec.Status,
			detail,
			rec.DurationMS,
		})
	}
	return t.Render()
}
