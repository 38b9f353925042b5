package inflight

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// recordingGauge remembers every value it was set to.
type recordingGauge struct {
	mu     sync.Mutex
	values []float64
}

func (g *recordingGauge) Set(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values = append(g.values, v)
}

func (g *recordingGauge) snapshot() []float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]float64(nil), g.values...)
}

func TestCounter_IncrementDecrement(t *testing.T) {
	g := &recordingGauge{}
	c := New(g)

	if got := c.Increment(); got != 1 {
		t.Errorf("Increment() = %d, want 1", got)
	}
	if got := c.Increment(); got != 2 {
		t.Errorf("Increment() = %d, want 2", got)
	}
	if got := c.Decrement(); got != 1 {
		t.Errorf("Decrement() = %d, want 1", got)
	}
	if got := c.Decrement(); got != 0 {
		t.Errorf("Decrement() = %d, want 0", got)
	}

	want := []float64{0, 1, 2, 1, 0}
	got := g.snapshot()
	if len(got) != len(want) {
		t.Fatalf("gauge values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gauge value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCounter_DecrementClampsAtZero(t *testing.T) {
	g := &recordingGauge{}
	c := New(g)

	if got := c.Decrement(); got != 0 {
		t.Errorf("Decrement() at zero = %d, want 0", got)
	}
	for _, v := range g.snapshot() {
		if v < 0 {
			t.Fatalf("gauge went negative: %v", v)
		}
	}

	// A clamped decrement must not swallow the next increment.
	if got := c.Increment(); got != 1 {
		t.Errorf("Increment() after clamp = %d, want 1", got)
	}
}

func TestCounter_ConcurrentPairs(t *testing.T) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_in_flight"})
	c := New(gauge)

	const n = 500
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if v := c.Increment(); v < 1 || v > n {
				t.Errorf("Increment() = %d out of range", v)
			}
			if v := c.Decrement(); v < 0 {
				t.Errorf("Decrement() = %d, below zero", v)
			}
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(gauge); got != 0 {
		t.Errorf("gauge after %d pairs = %v, want 0", n, got)
	}
}
