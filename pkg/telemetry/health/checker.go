package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// CheckFunc performs a health check for a component.
// It returns nil if the component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// Status values reported by checks and by the readiness aggregate.
const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
	StatusReady     = "ready"
	StatusDegraded  = "degraded"
)

// CheckResult represents the result of a single health check.
type CheckResult struct {
	// Status is "ok" or "unhealthy".
	Status string `json:"status"`

	// Message describes the failure of an unhealthy check.
	Message string `json:"message,omitempty"`

	// DurationMs is how long the check took in milliseconds.
	DurationMs float64 `json:"duration_ms"`
}

// Liveness is the body served by the liveness endpoint.
type Liveness struct {
	OK bool `json:"ok"`
}

// Readiness is the aggregated result of all registered checks.
type Readiness struct {
	// Status is "ready" when every check passed, "degraded" otherwise.
	Status string `json:"status"`

	Checks map[string]CheckResult `json:"checks"`

	Timestamp time.Time `json:"timestamp"`
}

// Ready reports whether every check passed.
func (r Readiness) Ready() bool {
	return r.Status == StatusReady
}

// ErrCheckTimeout is reported when a check does not return within the
// checker's timeout.
var ErrCheckTimeout = errors.New("health check timeout")

// Checker runs named readiness checks.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	checkTimeout time.Duration
}

// New creates a checker. A zero timeout defaults to 5 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout <= 0 {
		checkTimeout = 5 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers a check for a named component, replacing any
// check already registered under that name.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// ListChecks returns the sorted names of all registered checks.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckLiveness reports that the process is able to serve requests.
// It never touches the backend.
func (c *Checker) CheckLiveness(ctx context.Context) Liveness {
	return Liveness{OK: true}
}

// CheckReadiness runs every registered check concurrently and aggregates
// the results. With no checks registered the gateway is ready.
func (c *Checker) CheckReadiness(ctx context.Context) Readiness {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var resultMu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := c.runCheck(ctx, check)

			resultMu.Lock()
			results[name] = result
			resultMu.Unlock()
		}(name, check)
	}
	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			status = StatusDegraded
		}
	}

	return Readiness{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now().UTC(),
	}
}

// runCheck executes a single check bounded by the checker's timeout.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	var err error
	select {
	case err = <-errChan:
	case <-checkCtx.Done():
		err = ErrCheckTimeout
	}

	result := CheckResult{
		Status:     StatusOK,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}
