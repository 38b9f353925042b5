package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfig(t, `
proxy:
  listen_address: "0.0.0.0:8000"
  read_timeout: "60s"

backend:
  base_url: "http://vllm.internal:9000"
  read_buffer_size: 4096

relay:
  routes: ["/chat"]
  default_model: "meta-llama/Llama-3-8B"

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Proxy.ListenAddress != "0.0.0.0:8000" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:8000", cfg.Proxy.ListenAddress)
	}
	if cfg.Proxy.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout %v, got %v", 60*time.Second, cfg.Proxy.ReadTimeout)
	}
	if got := cfg.Backend.ChatURL(); got != "http://vllm.internal:9000/v1/chat/completions" {
		t.Errorf("unexpected chat URL %q", got)
	}
	if cfg.Backend.ReadBufferSize != 4096 {
		t.Errorf("expected read buffer size 4096, got %d", cfg.Backend.ReadBufferSize)
	}
	if len(cfg.Relay.Routes) != 1 || cfg.Relay.Routes[0] != "/chat" {
		t.Errorf("unexpected routes %v", cfg.Relay.Routes)
	}
	if cfg.Relay.DefaultModel != "meta-llama/Llama-3-8B" {
		t.Errorf("unexpected default model %q", cfg.Relay.DefaultModel)
	}
	if cfg.Relay.TokenMarker != `"delta"` {
		t.Errorf("expected default token marker, got %q", cfg.Relay.TokenMarker)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.IsEnabled() {
		t.Error("expected metrics to be disabled")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"listen address", cfg.Proxy.ListenAddress, DefaultListenAddress},
		{"write timeout", cfg.Proxy.WriteTimeout, time.Duration(0)},
		{"max body bytes", cfg.Proxy.MaxBodyBytes, int64(DefaultMaxBodyBytes)},
		{"base url", cfg.Backend.BaseURL, DefaultBackendBaseURL},
		{"chat path", cfg.Backend.ChatPath, DefaultBackendChatPath},
		{"dial timeout", cfg.Backend.DialTimeout, time.Duration(0)},
		{"read buffer", cfg.Backend.ReadBufferSize, 32768},
		{"model", cfg.Relay.DefaultModel, "TinyLlama/TinyLlama-1.1B-Chat-v1.0"},
		{"prompt", cfg.Relay.DefaultPrompt, "Say hello"},
		{"namespace", cfg.Telemetry.Metrics.Namespace, "gateway"},
		{"metrics enabled", cfg.Telemetry.Metrics.IsEnabled(), true},
		{"token rate buckets", len(cfg.Telemetry.Metrics.TokenRateBuckets), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/gateway.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "proxy:\n  listen_address: [unterminated\n"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
backend:
  base_url: "ftp://vllm:9000"
telemetry:
  logging:
    level: "verbose"
`))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
proxy:
  listen_address: "127.0.0.1:8000"
backend:
  base_url: "http://127.0.0.1:9000"
`)

	t.Setenv("GATEWAY_PROXY_LISTEN_ADDRESS", "0.0.0.0:9999")
	t.Setenv("GATEWAY_BACKEND_BASE_URL", "http://gpu-node:8001")
	t.Setenv("GATEWAY_BACKEND_RESPONSE_HEADER_TIMEOUT", "2m")
	t.Setenv("GATEWAY_RELAY_ROUTES", "/chat, /v2/chat ,")
	t.Setenv("GATEWAY_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("GATEWAY_TELEMETRY_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("GATEWAY_BACKEND_READ_BUFFER_SIZE", "not-a-number")

	cfg, err := LoadConfigWithEnvOverrides(configPath, false)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Proxy.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("expected env listen address, got %q", cfg.Proxy.ListenAddress)
	}
	if cfg.Backend.BaseURL != "http://gpu-node:8001" {
		t.Errorf("expected env base URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.ResponseHeaderTimeout != 2*time.Minute {
		t.Errorf("expected 2m header timeout, got %v", cfg.Backend.ResponseHeaderTimeout)
	}
	if len(cfg.Relay.Routes) != 2 || cfg.Relay.Routes[1] != "/v2/chat" {
		t.Errorf("unexpected routes %v", cfg.Relay.Routes)
	}
	if cfg.Telemetry.Metrics.IsEnabled() {
		t.Error("expected metrics disabled by env")
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.25 {
		t.Errorf("expected sample ratio 0.25, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
	if cfg.Backend.ReadBufferSize != DefaultBackendReadBufferSize {
		t.Errorf("unparseable env value should be ignored, got %d", cfg.Backend.ReadBufferSize)
	}
}

func TestLoadConfigWithEnvOverrides_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	t.Setenv("GATEWAY_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(missing, true)
	if err != nil {
		t.Fatalf("expected defaults when file is missing, got %v", err)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected env level to apply, got %q", cfg.Telemetry.Logging.Level)
	}

	if _, err := LoadConfigWithEnvOverrides(missing, false); err == nil {
		t.Error("expected error when missing file is not allowed")
	}
}

func TestLoadConfigWithEnvOverrides_EnvFixesFile(t *testing.T) {
	configPath := writeConfig(t, `
telemetry:
  logging:
    level: "trace"
`)
	t.Setenv("GATEWAY_TELEMETRY_LOGGING_LEVEL", "debug")

	if _, err := LoadConfigWithEnvOverrides(configPath, false); err != nil {
		t.Fatalf("env override should be validated, not the raw file: %v", err)
	}
}
