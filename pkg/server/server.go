package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/kotoba/pkg/config"
	"mercator-hq/kotoba/pkg/proxy/handlers"
	"mercator-hq/kotoba/pkg/proxy/middleware"
	"mercator-hq/kotoba/pkg/telemetry/health"
	"mercator-hq/kotoba/pkg/telemetry/metrics"
	"mercator-hq/kotoba/pkg/telemetry/tracing"
	"mercator-hq/kotoba/pkg/ui"
)

// Dependencies are the components the server routes requests to.
// Relay is required; the others are optional.
type Dependencies struct {
	Relay    handlers.Relayer
	Upstream handlers.ProviderHealthSource
	Checker  *health.Checker
	Metrics  *metrics.Collector
	Version  health.VersionInfo
	Logger   *slog.Logger
}

// Server is the HTTP server for the relay and its chat page.
type Server struct {
	config       *config.Config
	deps         Dependencies
	logger       *slog.Logger
	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server. It does not listen until Start is called.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: cfg,
		deps:   deps,
		logger: logger,
	}
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting relay server",
			"address", ln.Addr().String(),
			"ui_enabled", s.config.UI.Enabled,
			"metrics_enabled", s.deps.Metrics.Enabled(),
		)

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by the configured shutdown timeout. Only the first call has
// any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running, srv := s.isRunning, s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("relay server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()

	handler = middleware.CORSMiddleware(s.config.Server.CORS)(handler)
	handler = tracing.HTTPMiddleware(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}

// routes builds the mux. "/{$}" matches only the root path, so unknown
// paths are 404 and other methods on "/" are 405.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("POST /{$}", handlers.NewRelayHandler(s.deps.Relay, s.config.Server.MaxBodyBytes, s.logger))

	if s.config.UI.Enabled {
		mux.Handle("GET /{$}", ui.NewHandler())
	}

	if s.deps.Checker != nil {
		s.deps.Checker.Register(mux, s.deps.Version)
	}

	if s.deps.Upstream != nil {
		mux.Handle("GET /health/upstream", handlers.NewUpstreamHealthHandler(s.deps.Upstream))
	}

	if s.deps.Metrics.Enabled() {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.deps.Metrics.Handler())
	}

	return mux
}
