package metrics

import (
	"time"

	"mercator-hq/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StreamMetrics tracks the latency and throughput of relayed token streams.
//
// Metrics:
//   - gateway_time_to_first_token_seconds: Delay until the first chunk
//   - gateway_tokens_per_second: Generation rate of completed streams
type StreamMetrics struct {
	ttft      prometheus.Histogram
	tokenRate prometheus.Histogram
}

// NewStreamMetrics creates and registers stream metrics with the provided registry.
func NewStreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StreamMetrics {
	sm := &StreamMetrics{
		ttft: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "time_to_first_token_seconds",
				Help:      "TTFT",
				Buckets:   cfg.TTFTBuckets,
			},
		),

		tokenRate: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_per_second",
				Help:      "Generation speed",
				Buckets:   cfg.TokenRateBuckets,
			},
		),
	}

	registry.MustRegister(sm.ttft, sm.tokenRate)

	return sm
}

// ObserveTTFT records a time to first token in seconds.
func (sm *StreamMetrics) ObserveTTFT(d time.Duration) {
	sm.ttft.Observe(d.Seconds())
}

// ObserveTokenRate records a tokens-per-second sample.
func (sm *StreamMetrics) ObserveTokenRate(rate float64) {
	sm.tokenRate.Observe(rate)
}
