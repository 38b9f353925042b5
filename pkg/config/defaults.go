package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress   = "127.0.0.1:8000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 0 // streams are unbounded
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576  // 1MB
	DefaultMaxBodyBytes    = 10485760 // 10MB

	// Backend defaults
	DefaultBackendBaseURL        = "http://127.0.0.1:9000"
	DefaultBackendChatPath       = "/v1/chat/completions"
	DefaultBackendHealthPath     = "/health"
	DefaultBackendReadBufferSize = 32 * 1024
	DefaultBackendMaxIdleConns   = 100

	// Relay defaults
	DefaultRelayModel       = "TinyLlama/TinyLlama-1.1B-Chat-v1.0"
	DefaultRelayPrompt      = "Say hello"
	DefaultRelayTokenMarker = `"delta"`

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "gateway"
	DefaultTracingSampler       = "ratio"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingServiceName   = "vllm-gateway"
	DefaultHealthCheckTimeout   = 5 * time.Second
	DefaultHealthReadyRateLimit = 10.0
)

// DefaultRelayRoutes returns the paths served by the relay handler when none
// are configured.
func DefaultRelayRoutes() []string {
	return []string{"/chat", "/v1/chat/completions"}
}

// DefaultTTFTBuckets returns the histogram layout for time to first token.
// It matches prometheus.DefBuckets.
func DefaultTTFTBuckets() []float64 {
	return []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
}

// DefaultTokenRateBuckets returns the histogram layout for tokens per second.
func DefaultTokenRateBuckets() []float64 {
	return []float64{1, 5, 10, 20, 30, 50, 75, 100, 150, 200, 300, 500}
}

// ApplyDefaults fills zero-valued fields of cfg with their defaults.
// Fields whose default is the zero value (write timeout, backend timeouts)
// are left untouched.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// Backend defaults
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBackendBaseURL
	}
	if cfg.Backend.ChatPath == "" {
		cfg.Backend.ChatPath = DefaultBackendChatPath
	}
	if cfg.Backend.HealthPath == "" {
		cfg.Backend.HealthPath = DefaultBackendHealthPath
	}
	if cfg.Backend.ReadBufferSize == 0 {
		cfg.Backend.ReadBufferSize = DefaultBackendReadBufferSize
	}
	if cfg.Backend.MaxIdleConns == 0 {
		cfg.Backend.MaxIdleConns = DefaultBackendMaxIdleConns
	}

	// Relay defaults
	if len(cfg.Relay.Routes) == 0 {
		cfg.Relay.Routes = DefaultRelayRoutes()
	}
	if cfg.Relay.DefaultModel == "" {
		cfg.Relay.DefaultModel = DefaultRelayModel
	}
	if cfg.Relay.DefaultPrompt == "" {
		cfg.Relay.DefaultPrompt = DefaultRelayPrompt
	}
	if cfg.Relay.TokenMarker == "" {
		cfg.Relay.TokenMarker = DefaultRelayTokenMarker
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.TTFTBuckets) == 0 {
		cfg.Telemetry.Metrics.TTFTBuckets = DefaultTTFTBuckets()
	}
	if len(cfg.Telemetry.Metrics.TokenRateBuckets) == 0 {
		cfg.Telemetry.Metrics.TokenRateBuckets = DefaultTokenRateBuckets()
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
	if cfg.Telemetry.Health.ReadyRateLimit == 0 {
		cfg.Telemetry.Health.ReadyRateLimit = DefaultHealthReadyRateLimit
	}
}

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
