package health

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"
)

// Paths served by Register.
const (
	LivenessPath  = "/health"
	ReadinessPath = "/ready"
)

// LivenessHandler returns an HTTP handler for the liveness endpoint.
//
// Example response:
//
//	{"ok": true}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler returns an HTTP handler for the readiness endpoint.
//
// Returns:
//   - 200 OK: every registered check passed
//   - 503 Service Unavailable: at least one check failed or timed out
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "backend": {"status": "unhealthy", "message": "backend health returned status 503", "duration_ms": 1.2}
//	    },
//	    "timestamp": "2026-01-10T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// RateLimitedHandler wraps a handler with a token bucket allowing
// requestsPerSecond sustained requests. Requests over the limit get 429.
// A non-positive rate returns handler unchanged.
//
// Usage:
//
//	handler := RateLimitedHandler(checker.ReadinessHandler(), 10) // 10 req/s
//	mux.Handle("/ready", handler)
func RateLimitedHandler(handler http.HandlerFunc, requestsPerSecond float64) http.HandlerFunc {
	if requestsPerSecond <= 0 {
		return handler
	}

	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		handler(w, r)
	}
}

// Register adds the liveness and readiness endpoints to mux. The readiness
// endpoint is rate limited to readyRateLimit requests per second because
// each call probes the backend.
//
// Usage:
//
//	mux := http.NewServeMux()
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("backend", client.Probe)
//	health.Register(mux, checker, 10)
func Register(mux *http.ServeMux, checker *Checker, readyRateLimit float64) {
	mux.HandleFunc(LivenessPath, checker.LivenessHandler())
	mux.HandleFunc(ReadinessPath, RateLimitedHandler(checker.ReadinessHandler(), readyRateLimit))
}
