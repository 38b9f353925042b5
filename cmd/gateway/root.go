package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/gateway/pkg/cli"
	"mercator-hq/gateway/pkg/config"
)

const defaultConfigFile = "config.yaml"

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Streaming vLLM gateway with time-to-first-token and token rate metrics",
	Long: `Gateway is a streaming passthrough for an OpenAI-compatible vLLM server.

Every chat-completion request is forwarded with streaming enabled and the
backend's event stream is relayed byte for byte. While the stream passes the
gateway records:
  - time to first token
  - tokens per second
  - requests in flight

Metrics are exposed in the Prometheus text format on /metrics.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the
// returned error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
}

// loadConfig loads the configuration file with environment overrides. The
// default config file may be absent, in which case defaults and environment
// apply; an explicitly named file must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	allowMissing := !cmd.Flags().Changed("config")

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile, allowMissing)
	if err != nil {
		return nil, cli.NewConfigError("", err)
	}
	return cfg, nil
}
