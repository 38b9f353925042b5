package metrics

import (
	"strconv"
	"sync"
	"time"

	"mercator-hq/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns every Prometheus instrument of the gateway and the private
// registry they are registered with. It is created once at startup and
// shared by all requests; each instrument is safe for concurrent use.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Relay metrics
	relayMetrics *RelayMetrics

	// Stream metrics
	streamMetrics *StreamMetrics

	// Cardinality tracking for backend status codes
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector with the specified configuration and
// Prometheus registry. If registry is nil, a new private registry is used.
// Empty namespace and bucket settings fall back to the configuration
// defaults.
//
// Example:
//
//	cfg := config.NewDefaultConfig()
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.TTFTBuckets) == 0 {
		cfg.TTFTBuckets = prometheus.DefBuckets
	}
	if len(cfg.TokenRateBuckets) == 0 {
		cfg.TokenRateBuckets = config.DefaultTokenRateBuckets()
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(64),
	}

	c.relayMetrics = NewRelayMetrics(cfg, registry)
	c.streamMetrics = NewStreamMetrics(cfg, registry)

	if cfg.IncludeRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// QueueDepth returns the in-flight gauge. It is the sink of the in-flight
// counter and must not be set by anything else.
func (c *Collector) QueueDepth() prometheus.Gauge {
	return c.relayMetrics.queueDepth
}

// RecordRequest counts an incoming relay request on route. It ticks both the
// per-route counter and the unlabelled rate counter.
func (c *Collector) RecordRequest(route string) {
	c.relayMetrics.RecordRequest(route)
}

// RecordOutcome counts a finished relay by how it ended.
func (c *Collector) RecordOutcome(outcome string) {
	c.relayMetrics.RecordOutcome(outcome)
}

// RecordBackendStatus counts the HTTP status the backend answered with.
// Past the cardinality limit, unseen codes are counted as "other".
func (c *Collector) RecordBackendStatus(code int) {
	label := strconv.Itoa(code)
	if !c.cardinalityLimiter.Allow(label) {
		label = "other"
	}
	c.relayMetrics.RecordBackendStatus(label)
}

// ObserveTTFT records a time to first token.
func (c *Collector) ObserveTTFT(d time.Duration) {
	c.streamMetrics.ObserveTTFT(d)
}

// ObserveTokenRate records the tokens per second of a completed stream.
func (c *Collector) ObserveTokenRate(rate float64) {
	c.streamMetrics.ObserveTokenRate(rate)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter bounds the number of distinct values a label may take.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value may be used as a label. Values already seen
// are always allowed; new ones only while under the limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
