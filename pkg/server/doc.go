// Package server provides the gateway's HTTP server.
//
// The server ties the gateway's components together: it routes the relay
// endpoints to handlers.RelayHandler, mounts the health and metrics
// endpoints, wraps everything in the standard middleware chain, and manages
// the listener lifecycle including graceful shutdown.
//
// # Routes
//
//	POST /chat                  relay (route label "/chat")
//	POST /v1/chat/completions   relay (route label "/v1/chat/completions")
//	GET  /health                liveness, {"ok": true}
//	GET  /ready                 readiness, probes the backend
//	GET  /metrics               Prometheus exposition (when enabled)
//
// Relay routes and the metrics path come from configuration.
//
// # Basic Usage
//
//	cfg, err := config.LoadConfig("config.yaml")
//	if err != nil {
//	    return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	srv := server.NewServer(server.Deps{
//	    Config:    cfg,
//	    Backend:   backend.New(backend.ConfigFrom(cfg.Backend)),
//	    Collector: collector,
//	    Counter:   inflight.New(collector.QueueDepth()),
//	})
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return srv.Start(ctx)
//
// # Graceful Shutdown
//
// When the Start context is cancelled the server stops accepting new
// connections and waits up to proxy.shutdown_timeout for in-flight relays to
// drain. Streams still open after the timeout are cut.
package server
