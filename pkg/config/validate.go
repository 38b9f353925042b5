package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "proxy.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProxy(&cfg.Proxy)...)
	errs = append(errs, validateBackend(&cfg.Backend)...)
	errs = append(errs, validateRelay(&cfg.Relay, &cfg.Telemetry.Metrics)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateProxy validates the HTTP listener configuration.
func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: "listen address is required",
		})
	}

	// Zero means unbounded for every timeout
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.read_timeout",
			Message: "read timeout must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.write_timeout",
			Message: "write timeout must not be negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.idle_timeout",
			Message: "idle timeout must not be negative",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.shutdown_timeout",
			Message: "shutdown timeout must not be negative",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	return errs
}

// validateBackend validates the backend location and transport settings.
func validateBackend(cfg *BackendConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "backend.base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(cfg.BaseURL); err != nil {
		errs = append(errs, FieldError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, FieldError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("unsupported scheme %q: must be 'http' or 'https'", u.Scheme),
		})
	} else if u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "backend.base_url",
			Message: "base URL must include a host",
		})
	}

	if !strings.HasPrefix(cfg.ChatPath, "/") {
		errs = append(errs, FieldError{
			Field:   "backend.chat_path",
			Message: "chat path must start with '/'",
		})
	}
	if !strings.HasPrefix(cfg.HealthPath, "/") {
		errs = append(errs, FieldError{
			Field:   "backend.health_path",
			Message: "health path must start with '/'",
		})
	}

	if cfg.DialTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "backend.dial_timeout",
			Message: "dial timeout must not be negative",
		})
	}
	if cfg.ResponseHeaderTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "backend.response_header_timeout",
			Message: "response header timeout must not be negative",
		})
	}
	if cfg.ReadBufferSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "backend.read_buffer_size",
			Message: "read buffer size must be positive",
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "backend.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}

	return errs
}

// validateRelay validates the relay routes and injected defaults. Routes
// must not collide with the metrics endpoint or the health probes.
func validateRelay(cfg *RelayConfig, metrics *MetricsConfig) []FieldError {
	var errs []FieldError

	reserved := map[string]bool{"/health": true, "/ready": true, metrics.Path: true}
	seen := make(map[string]bool, len(cfg.Routes))
	for i, route := range cfg.Routes {
		field := fmt.Sprintf("relay.routes[%d]", i)
		switch {
		case !strings.HasPrefix(route, "/"):
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("route %q must start with '/'", route)})
		case reserved[route]:
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("route %q is reserved", route)})
		case seen[route]:
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("route %q is listed twice", route)})
		}
		seen[route] = true
	}

	if cfg.DefaultModel == "" {
		errs = append(errs, FieldError{
			Field:   "relay.default_model",
			Message: "default model is required",
		})
	}
	if cfg.TokenMarker == "" {
		errs = append(errs, FieldError{
			Field:   "relay.token_marker",
			Message: "token marker is required",
		})
	}

	return errs
}

// validateTelemetry validates logging, metrics, tracing, and health settings.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.IsEnabled() && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/' when metrics are enabled",
		})
	}
	if cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "metrics namespace is required",
		})
	}
	errs = append(errs, validateBuckets("telemetry.metrics.ttft_buckets", cfg.Metrics.TTFTBuckets)...)
	errs = append(errs, validateBuckets("telemetry.metrics.token_rate_buckets", cfg.Metrics.TokenRateBuckets)...)

	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.Health.CheckTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.check_timeout",
			Message: "check timeout must be positive",
		})
	}

	return errs
}

// validateBuckets checks that histogram bounds are strictly increasing.
func validateBuckets(field string, buckets []float64) []FieldError {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return []FieldError{{
				Field:   field,
				Message: fmt.Sprintf("buckets must be strictly increasing (index %d)", i),
			}}
		}
	}
	return nil
}
