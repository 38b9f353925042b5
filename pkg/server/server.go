package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/gateway/pkg/backend"
	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/inflight"
	"mercator-hq/gateway/pkg/proxy/handlers"
	"mercator-hq/gateway/pkg/proxy/middleware"
	"mercator-hq/gateway/pkg/telemetry/health"
	"mercator-hq/gateway/pkg/telemetry/metrics"
)

// Deps are the long-lived collaborators the server routes requests to. They
// are built once at startup and shared by every request.
type Deps struct {
	Config    *config.Config
	Backend   *backend.Client
	Collector *metrics.Collector
	Counter   *inflight.Counter

	// Tracer is optional.
	Tracer handlers.Tracer
}

// Server is the gateway's HTTP server.
type Server struct {
	config       *config.ProxyConfig
	deps         Deps
	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server. A missing Backend, Collector or Counter is
// built from the configuration, with metrics on a private registry.
func NewServer(deps Deps) *Server {
	if deps.Backend == nil {
		deps.Backend = backend.New(backend.ConfigFrom(deps.Config.Backend))
	}
	if deps.Collector == nil {
		deps.Collector = metrics.NewCollector(&deps.Config.Telemetry.Metrics, nil)
	}
	if deps.Counter == nil {
		deps.Counter = inflight.New(deps.Collector.QueueDepth())
	}

	return &Server{
		config: &deps.Config.Proxy,
		deps:   deps,
	}
}

// Listen binds the listen address. Start calls it when it has not been
// called yet; calling it first lets callers learn the bound address of
// "host:0".
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.ListenAddress
}

// Start serves until ctx is cancelled or the listener fails, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	httpServer, ln := s.httpServer, s.listener
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", ln.Addr().String(),
			"backend", s.deps.Config.Backend.ChatURL(),
			"routes", s.deps.Config.Relay.Routes,
		)

		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown stops accepting connections and waits for in-flight relays to
// finish, up to the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		httpServer := s.httpServer
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.routes())
}

// routes registers every endpoint on a new mux.
func (s *Server) routes() *http.ServeMux {
	cfg := s.deps.Config
	mux := http.NewServeMux()

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("backend", s.deps.Backend.Probe)
	health.Register(mux, checker, cfg.Telemetry.Health.ReadyRateLimit)

	if cfg.Telemetry.Metrics.IsEnabled() {
		mux.Handle(cfg.Telemetry.Metrics.Path, s.deps.Collector.Handler())
	}

	relayDeps := handlers.RelayDeps{
		Backend:      s.deps.Backend,
		Counter:      s.deps.Counter,
		Recorder:     s.deps.Collector,
		Tracer:       s.deps.Tracer,
		Config:       cfg.Relay,
		MaxBodyBytes: cfg.Proxy.MaxBodyBytes,
	}
	for _, route := range cfg.Relay.Routes {
		mux.Handle(route, handlers.NewRelayHandler(route, relayDeps))
	}

	return mux
}
