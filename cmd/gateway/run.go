package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/gateway/pkg/backend"
	"mercator-hq/gateway/pkg/cli"
	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/inflight"
	"mercator-hq/gateway/pkg/server"
	"mercator-hq/gateway/pkg/telemetry/logging"
	"mercator-hq/gateway/pkg/telemetry/metrics"
	"mercator-hq/gateway/pkg/telemetry/tracing"
)

// tracerShutdownTimeout bounds the final span flush on exit.
const tracerShutdownTimeout = 5 * time.Second

var runFlags struct {
	listenAddress string
	backendURL    string
	logLevel      string
	watch         bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

Configuration is read from the config file, then GATEWAY_* environment
variables, then the flags below, each overriding the previous.

Examples:
  # Start with defaults
  gateway run

  # Start with custom config
  gateway run --config /etc/gateway/config.yaml

  # Point at a different backend and listen on all interfaces
  gateway run --backend http://10.0.0.5:9000 --listen 0.0.0.0:8000

  # Reload the log level when the config file changes
  gateway run --config config.yaml --watch

  # Validate config without starting server
  gateway run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.backendURL, "backend", "", "override backend base URL")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "watch the config file and apply log level changes")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

// applyRunOverrides applies the run flags on top of cfg and re-validates it.
func applyRunOverrides(cfg *config.Config) error {
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.backendURL != "" {
		cfg.Backend.BaseURL = runFlags.backendURL
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err)
	}
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyRunOverrides(cfg); err != nil {
		return err
	}

	logger, err := logging.New(logging.ConfigFrom(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err)
	}
	slog.SetDefault(logger.Logger)

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	client := backend.New(backend.ConfigFrom(cfg.Backend))
	defer client.Close()

	srv := server.NewServer(server.Deps{
		Config:    cfg,
		Backend:   client,
		Collector: collector,
		Counter:   inflight.New(collector.QueueDepth()),
		Tracer:    tracer,
	})
	if err := srv.Listen(); err != nil {
		return cli.NewCommandError("run", err)
	}

	if runFlags.watch {
		if err := startWatcher(ctx, logger); err != nil {
			return cli.NewCommandError("run", err)
		}
	}

	printBanner(out, cfg, srv.Addr(), tracer.Enabled())

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// startWatcher reloads the config file in the background and applies the
// new log level. A --log-level flag pins the level and disables this.
func startWatcher(ctx context.Context, logger *logging.Logger) error {
	watcher, err := config.NewWatcher(cfgFile, true, config.DefaultDebounceInterval, logger.Logger)
	if err != nil {
		return err
	}

	go func() {
		err := watcher.Watch(ctx, func(cfg *config.Config) {
			if runFlags.logLevel != "" {
				return
			}
			level := cfg.Telemetry.Logging.Level
			if err := logger.SetLevel(level); err != nil {
				slog.Warn("ignoring reloaded log level", "level", level, "error", err)
				return
			}
			slog.Info("log level updated, other configuration changes apply on restart", "level", level)
		})
		if err != nil {
			slog.Error("config watcher exited", "error", err)
		}
	}()
	return nil
}

func printBanner(w io.Writer, cfg *config.Config, addr string, tracingEnabled bool) {
	fmt.Fprintf(w, "Gateway %s\n", Version)
	fmt.Fprintf(w, "✓ Backend: %s\n", cfg.Backend.ChatURL())
	for _, route := range cfg.Relay.Routes {
		fmt.Fprintf(w, "✓ Relay endpoint: http://%s%s\n", addr, route)
	}
	fmt.Fprintf(w, "✓ Health endpoint: http://%s/health\n", addr)
	if cfg.Telemetry.Metrics.IsEnabled() {
		fmt.Fprintf(w, "✓ Metrics endpoint: http://%s%s\n", addr, cfg.Telemetry.Metrics.Path)
	}
	if tracingEnabled {
		fmt.Fprintf(w, "✓ Tracing to %s\n", cfg.Telemetry.Tracing.Endpoint)
	}
	fmt.Fprintln(w, "\nPress Ctrl+C to stop")
}
