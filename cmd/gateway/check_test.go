package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mercator-hq/gateway/pkg/cli"
	"mercator-hq/gateway/pkg/config"
)

func TestCheckConfig_YAML(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: http://10.0.0.5:9000
relay:
  default_model: my-model
`)

	out, err := executeCommand(t, context.Background(), "check", "--config", path)
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}

	for _, want := range []string{
		"base_url: http://10.0.0.5:9000",
		"default_model: my-model",
		"listen_address: 127.0.0.1:8000",
		"shutdown_timeout: 30s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckConfig_JSON(t *testing.T) {
	path := writeConfig(t, "backend:\n  base_url: http://10.0.0.5:9000\n")

	out, err := executeCommand(t, context.Background(), "check", "--config", path, "--format", "json")
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}

	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if cfg.Backend.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
}

func TestCheckConfig_EnvOverride(t *testing.T) {
	t.Setenv("GATEWAY_RELAY_DEFAULT_PROMPT", "Say goodbye")
	path := writeConfig(t, "relay:\n  default_prompt: Say hello\n")

	out, err := executeCommand(t, context.Background(), "check", "--config", path)
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	if !strings.Contains(out, "default_prompt: Say goodbye") {
		t.Errorf("environment override not applied:\n%s", out)
	}
}

func TestCheckConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     func(t *testing.T) []string
		wantExit int
	}{
		{
			name: "invalid config",
			args: func(t *testing.T) []string {
				return []string{"check", "--config", writeConfig(t, "backend:\n  base_url: ftp://backend\n")}
			},
			wantExit: cli.ExitConfigError,
		},
		{
			name: "missing explicit file",
			args: func(t *testing.T) []string {
				return []string{"check", "--config", "/nonexistent/gateway.yaml"}
			},
			wantExit: cli.ExitConfigError,
		},
		{
			name: "text format rejected",
			args: func(t *testing.T) []string {
				return []string{"check", "--config", writeConfig(t, ""), "--format", "text"}
			},
			wantExit: cli.ExitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, context.Background(), tt.args(t)...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := cli.ExitCode(err); got != tt.wantExit {
				t.Errorf("ExitCode() = %d, want %d (err: %v)", got, tt.wantExit, err)
			}

			var cmdErr *cli.CommandError
			var cfgErr *cli.ConfigError
			if !errors.As(err, &cmdErr) && !errors.As(err, &cfgErr) {
				t.Errorf("unexpected error type %T", err)
			}
		})
	}
}
