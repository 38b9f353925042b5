package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"mercator-hq/gateway/internal/backendtest"
	"mercator-hq/gateway/pkg/cli"
	"mercator-hq/gateway/pkg/config"
)

func TestRun_DryRun(t *testing.T) {
	path := writeConfig(t, "telemetry:\n  logging:\n    level: error\n")

	out, err := executeCommand(t, context.Background(), "run", "--config", path, "--dry-run")
	if err != nil {
		t.Fatalf("run --dry-run returned error: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRun_FlagOverridesAreValidated(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad backend", []string{"--backend", "unix:///tmp/sock"}},
		{"bad log level", []string{"--log-level", "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "--config", writeConfig(t, ""), "--dry-run"}, tt.args...)
			_, err := executeCommand(t, context.Background(), args...)
			if got := cli.ExitCode(err); got != cli.ExitConfigError {
				t.Errorf("ExitCode() = %d, want %d (err: %v)", got, cli.ExitConfigError, err)
			}
		})
	}
}

func TestApplyRunOverrides(t *testing.T) {
	cfg := config.NewDefaultConfig()

	runFlags.listenAddress = "0.0.0.0:9999"
	runFlags.backendURL = "https://vllm.internal"
	runFlags.logLevel = "debug"
	defer func() { runFlags.listenAddress, runFlags.backendURL, runFlags.logLevel = "", "", "" }()

	if err := applyRunOverrides(cfg); err != nil {
		t.Fatalf("applyRunOverrides() error = %v", err)
	}
	if cfg.Proxy.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("ListenAddress = %q", cfg.Proxy.ListenAddress)
	}
	if cfg.Backend.BaseURL != "https://vllm.internal" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Telemetry.Logging.Level)
	}
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	mock := backendtest.NewServer()
	defer mock.Close()

	path := writeConfig(t, `
proxy:
  shutdown_timeout: 2s
telemetry:
  logging:
    level: error
`)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := executeCommand(t, ctx, "run",
			"--config", path,
			"--listen", "127.0.0.1:0",
			"--backend", mock.URL(),
			"--watch",
		)
		done <- result{out, err}
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("run returned error: %v", r.err)
		}
		if !strings.Contains(r.out, "Server stopped") {
			t.Errorf("unexpected output:\n%s", r.out)
		}
		if !strings.Contains(r.out, "Relay endpoint: http://127.0.0.1:") {
			t.Errorf("banner missing bound address:\n%s", r.out)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}
