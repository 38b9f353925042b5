package metrics

import (
	"mercator-hq/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RelayMetrics tracks request admission and relay completion.
//
// Metrics:
//   - gateway_queue_depth: Relays currently in progress
//   - gateway_requests_total: Incoming requests by route
//   - gateway_rps_total: Incoming requests, for rate() queries
//   - gateway_relay_outcomes_total: Finished relays by outcome
//   - gateway_backend_status_total: Backend responses by status code
type RelayMetrics struct {
	queueDepth    prometheus.Gauge
	requestsTotal *prometheus.CounterVec
	rpsTotal      prometheus.Counter
	outcomesTotal *prometheus.CounterVec
	backendStatus *prometheus.CounterVec
}

// NewRelayMetrics creates and registers relay metrics with the provided registry.
func NewRelayMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RelayMetrics {
	rm := &RelayMetrics{
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "queue_depth",
				Help:      "In-flight requests",
			},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Requests",
			},
			[]string{"route"},
		),

		rpsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rps_total",
				Help:      "RPS counter",
			},
		),

		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "relay_outcomes_total",
				Help:      "Finished relays by outcome",
			},
			[]string{"outcome"},
		),

		backendStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "backend_status_total",
				Help:      "Backend responses by HTTP status code",
			},
			[]string{"code"},
		),
	}

	registry.MustRegister(
		rm.queueDepth,
		rm.requestsTotal,
		rm.rpsTotal,
		rm.outcomesTotal,
		rm.backendStatus,
	)

	return rm
}

// RecordRequest increments the per-route and rate counters.
func (rm *RelayMetrics) RecordRequest(route string) {
	rm.requestsTotal.WithLabelValues(route).Inc()
	rm.rpsTotal.Inc()
}

// RecordOutcome increments the outcome counter.
func (rm *RelayMetrics) RecordOutcome(outcome string) {
	rm.outcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordBackendStatus increments the backend status counter.
func (rm *RelayMetrics) RecordBackendStatus(code string) {
	rm.backendStatus.WithLabelValues(code).Inc()
}
