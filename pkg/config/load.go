package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "GATEWAY_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention GATEWAY_SECTION_FIELD (e.g., GATEWAY_BACKEND_BASE_URL).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
//
// When allowMissing is true a nonexistent file is treated as an empty one, so
// the gateway can run on defaults and environment alone.
func LoadConfigWithEnvOverrides(path string, allowMissing bool) (*Config, error) {
	cfg, err := parseFile(path)
	if err != nil {
		if !allowMissing || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// parseFile reads and decodes path without applying defaults.
func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Proxy overrides
	envString("PROXY_LISTEN_ADDRESS", &cfg.Proxy.ListenAddress)
	envDuration("PROXY_READ_TIMEOUT", &cfg.Proxy.ReadTimeout)
	envDuration("PROXY_WRITE_TIMEOUT", &cfg.Proxy.WriteTimeout)
	envDuration("PROXY_IDLE_TIMEOUT", &cfg.Proxy.IdleTimeout)
	envDuration("PROXY_SHUTDOWN_TIMEOUT", &cfg.Proxy.ShutdownTimeout)
	envInt("PROXY_MAX_HEADER_BYTES", &cfg.Proxy.MaxHeaderBytes)
	if val := os.Getenv(EnvPrefix + "PROXY_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Proxy.MaxBodyBytes = i
		}
	}

	// Backend overrides
	envString("BACKEND_BASE_URL", &cfg.Backend.BaseURL)
	envString("BACKEND_CHAT_PATH", &cfg.Backend.ChatPath)
	envString("BACKEND_HEALTH_PATH", &cfg.Backend.HealthPath)
	envDuration("BACKEND_DIAL_TIMEOUT", &cfg.Backend.DialTimeout)
	envDuration("BACKEND_RESPONSE_HEADER_TIMEOUT", &cfg.Backend.ResponseHeaderTimeout)
	envInt("BACKEND_READ_BUFFER_SIZE", &cfg.Backend.ReadBufferSize)
	envInt("BACKEND_MAX_IDLE_CONNS", &cfg.Backend.MaxIdleConns)

	// Relay overrides
	if val := os.Getenv(EnvPrefix + "RELAY_ROUTES"); val != "" {
		var routes []string
		for _, r := range strings.Split(val, ",") {
			if r = strings.TrimSpace(r); r != "" {
				routes = append(routes, r)
			}
		}
		if len(routes) > 0 {
			cfg.Relay.Routes = routes
		}
	}
	envString("RELAY_DEFAULT_MODEL", &cfg.Relay.DefaultModel)
	envString("RELAY_DEFAULT_PROMPT", &cfg.Relay.DefaultPrompt)
	envString("RELAY_TOKEN_MARKER", &cfg.Relay.TokenMarker)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envString("TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	envBool("TELEMETRY_METRICS_INCLUDE_RUNTIME", &cfg.Telemetry.Metrics.IncludeRuntime)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	envFloat("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envBool("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	envString("TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)
	envDuration("TELEMETRY_HEALTH_CHECK_TIMEOUT", &cfg.Telemetry.Health.CheckTimeout)
	envFloat("TELEMETRY_HEALTH_READY_RATE_LIMIT", &cfg.Telemetry.Health.ReadyRateLimit)
}

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float64) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
