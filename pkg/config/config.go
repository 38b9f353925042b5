package config

import "time"

// Config is the root configuration structure for the gateway.
// It contains the listener settings, the inference backend location, relay
// behaviour, and telemetry settings.
type Config struct {
	// Proxy contains HTTP listener configuration including listen address,
	// timeouts, and request size limits.
	Proxy ProxyConfig `yaml:"proxy"`

	// Backend describes the chat-completion backend requests are relayed to.
	Backend BackendConfig `yaml:"backend"`

	// Relay controls the routes served by the relay handler and the defaults
	// injected into incoming payloads.
	Relay RelayConfig `yaml:"relay"`

	// Telemetry contains configuration for logging, metrics, tracing, and
	// health probes.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the HTTP listener.
type ProxyConfig struct {
	// ListenAddress is the address and port for the gateway to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8000", "0.0.0.0:8000").
	// Default: "127.0.0.1:8000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Token streams have no natural upper bound, so the default
	// leaves writes unbounded.
	// Default: 0 (no timeout)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight relays
	// to finish during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of an incoming chat payload.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// BackendConfig describes the inference backend.
type BackendConfig struct {
	// BaseURL is the scheme and authority of the backend.
	// Default: "http://127.0.0.1:9000"
	BaseURL string `yaml:"base_url"`

	// ChatPath is the path of the streaming chat-completion endpoint.
	// Default: "/v1/chat/completions"
	ChatPath string `yaml:"chat_path"`

	// HealthPath is probed by the readiness endpoint.
	// Default: "/health"
	HealthPath string `yaml:"health_path"`

	// DialTimeout bounds TCP connection establishment. Zero means no bound.
	// Default: 0
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// ResponseHeaderTimeout bounds the wait for the backend's response
	// headers. Zero means no bound, which is what long prefill phases need.
	// Default: 0
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout"`

	// ReadBufferSize is the size of each read from the backend body, and so
	// the upper bound of a relayed chunk.
	// Default: 32768
	ReadBufferSize int `yaml:"read_buffer_size"`

	// MaxIdleConns is the size of the keep-alive pool to the backend.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// ChatURL returns the full URL of the chat-completion endpoint.
func (b BackendConfig) ChatURL() string {
	return b.BaseURL + b.ChatPath
}

// HealthURL returns the full URL of the backend health endpoint.
func (b BackendConfig) HealthURL() string {
	return b.BaseURL + b.HealthPath
}

// RelayConfig controls the relay handler.
type RelayConfig struct {
	// Routes lists the paths served by the relay handler. Each path is
	// counted under its own route label.
	// Default: ["/chat", "/v1/chat/completions"]
	Routes []string `yaml:"routes"`

	// DefaultModel is injected when the payload has no model.
	// Default: "TinyLlama/TinyLlama-1.1B-Chat-v1.0"
	DefaultModel string `yaml:"default_model"`

	// DefaultPrompt is the content of the single user message injected when
	// the payload has no messages.
	// Default: "Say hello"
	DefaultPrompt string `yaml:"default_prompt"`

	// TokenMarker is the literal counted once per generated token in the
	// backend's event stream.
	// Default: "\"delta\""
	TokenMarker string `yaml:"token_marker"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is mounted. Instruments
	// are always updated.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "gateway"
	Namespace string `yaml:"namespace"`

	// TTFTBuckets defines histogram buckets for time to first token (seconds).
	// Default: prometheus.DefBuckets
	TTFTBuckets []float64 `yaml:"ttft_buckets"`

	// TokenRateBuckets defines histogram buckets for tokens per second.
	// Default: [1, 5, 10, 20, 30, 50, 75, 100, 150, 200, 300, 500]
	TokenRateBuckets []float64 `yaml:"token_rate_buckets"`

	// IncludeRuntime registers the Go runtime and process collectors.
	// Default: false
	IncludeRuntime bool `yaml:"include_runtime"`
}

// IsEnabled reports whether the metrics endpoint should be served.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "vllm-gateway"
	ServiceName string `yaml:"service_name"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// CheckTimeout bounds each readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`

	// ReadyRateLimit caps readiness probes per second, since each one
	// reaches the backend. A negative value disables the limit.
	// Default: 10
	ReadyRateLimit float64 `yaml:"ready_rate_limit"`
}
