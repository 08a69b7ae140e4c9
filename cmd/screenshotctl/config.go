package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/h1v3-io/screenshotter/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with screenshotterd config files",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(args[0]); err != nil {
			return fmt.Errorf("invalid: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config is valid")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
