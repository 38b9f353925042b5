// Package metrics provides Prometheus metrics collection for the gateway.
//
// # Overview
//
// A single Collector holds every instrument on a private registry. It is
// created at startup and injected wherever measurements are taken; there is
// no package-level state.
//
// # Metrics
//
//   - gateway_queue_depth (gauge): relays in progress, fed by the in-flight counter
//   - gateway_requests_total{route} (counter): incoming requests per route
//   - gateway_rps_total (counter): incoming requests, for rate() queries
//   - gateway_time_to_first_token_seconds (histogram): delay until the first chunk
//   - gateway_tokens_per_second (histogram): generation rate of completed streams
//   - gateway_relay_outcomes_total{outcome} (counter): finished relays by outcome
//   - gateway_backend_status_total{code} (counter): backend responses by status
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	counter := inflight.New(collector.QueueDepth())
//	collector.RecordRequest("/chat")
//	mux.Handle("/metrics", collector.Handler())
//
// Collector satisfies the stream package's Observer interface, so it can be
// handed directly to stream.Instrument.
//
// # Custom Histogram Buckets
//
//	TTFT: prometheus.DefBuckets (5ms to 10s)
//	Token rate: 1, 5, 10, 20, 30, 50, 75, 100, 150, 200, 300, 500 tokens/s
package metrics
