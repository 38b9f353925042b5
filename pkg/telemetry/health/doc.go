// Package health provides the gateway's liveness and readiness endpoints.
//
// # Endpoints
//
//   - /health: Liveness probe. Always {"ok": true} while the process serves
//     HTTP. It never contacts the backend.
//   - /ready: Readiness probe. Runs every registered check, typically a probe
//     of the inference backend's health endpoint, and answers 200 or 503.
//
// Readiness checks reach the backend, so the endpoint is rate limited with a
// token bucket (golang.org/x/time/rate). Callers over the limit get 429.
//
// # Usage
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("backend", client.Probe)
//	health.Register(mux, checker, cfg.Telemetry.Health.ReadyRateLimit)
//
// # Example Response
//
// Readiness response (/ready):
//
//	{
//	    "status": "ready",
//	    "checks": {
//	        "backend": {"status": "ok", "duration_ms": 0.8}
//	    },
//	    "timestamp": "2026-01-10T10:30:00Z"
//	}
package health
