// Package inflight tracks how many relays are currently in progress.
//
// The count is never read directly. Every change is published to a Gauge,
// which is the only projection of the value.
package inflight

import (
	"log/slog"
	"sync"
)

// Gauge receives every new value of a Counter. prometheus.Gauge satisfies it.
type Gauge interface {
	Set(float64)
}

// Counter is a non-negative in-flight request count.
type Counter struct {
	mu    sync.Mutex
	n     int64
	gauge Gauge
}

// New returns a zero Counter publishing to g and sets g to 0.
func New(g Gauge) *Counter {
	c := &Counter{gauge: g}
	g.Set(0)
	return c
}

// Increment adds one and returns the new count.
func (c *Counter) Increment() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.n++
	c.gauge.Set(float64(c.n))
	return c.n
}

// Decrement subtracts one and returns the new count. The count never goes
// below zero; a decrement at zero is logged because it means a relay was
// released twice.
func (c *Counter) Decrement() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.n == 0 {
		slog.Warn("in-flight counter decremented at zero")
	} else {
		c.n--
	}
	c.gauge.Set(float64(c.n))
	return c.n
}
