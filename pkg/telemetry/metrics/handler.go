package metrics

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// The handler serves the collector's private registry, so only gateway
// metrics (plus runtime collectors when enabled) are exposed.
//
// Example:
//
//	mux.Handle("/metrics", collector.Handler())
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			// Timeout for collecting metrics
			Timeout: 0, // No timeout (use server's timeout)

			// Maximum number of requests that can be served concurrently
			MaxRequestsInFlight: 0, // Unlimited

			// Error handling
			ErrorHandling: promhttp.ContinueOnError,
		},
	)
}

// HandlerWithOptions returns an HTTP handler with custom options.
func (c *Collector) HandlerWithOptions(opts promhttp.HandlerOpts) http.Handler {
	return promhttp.HandlerFor(c.registry, opts)
}

// WriteText renders every registered metric in the Prometheus text
// exposition format. It only gathers and never mutates an instrument.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode metric family %q: %w", mf.GetName(), err)
		}
	}
	return nil
}
