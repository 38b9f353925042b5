package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/gateway/pkg/cli"
)

var checkFlags struct {
	format string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and print the effective values",
	Long: `Load the configuration the same way run does (file, defaults, then
GATEWAY_* environment variables), validate it, and print the result.

Examples:
  # Check the default config.yaml
  gateway check

  # Check a specific file and print it as JSON
  gateway check --config /etc/gateway/config.yaml --format json`,
	RunE: checkConfig,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.format, "format", "f", string(cli.FormatYAML), "output format: yaml, json")
}

func checkConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(checkFlags.format)
	if err == nil && format == cli.FormatText {
		err = fmt.Errorf("unsupported output format %q (expected yaml or json)", checkFlags.format)
	}
	if err != nil {
		return cli.NewCommandError("check", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cfg)
}
