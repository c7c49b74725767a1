// Package server provides the HTTP server for the keyword translation relay.
//
// It joins the relay handler, the embedded chat page and the telemetry
// endpoints on one mux, wraps them in the middleware chain and manages
// graceful shutdown.
//
// # Basic Usage
//
//	srv := server.NewServer(cfg, server.Dependencies{
//	    Relay:    relayService,
//	    Upstream: client,
//	    Checker:  checker,
//	    Metrics:  collector,
//	    Logger:   logger,
//	})
//
//	ctx, stop := cli.SetupSignalHandler(context.Background())
//	defer stop()
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled and then shuts down, waiting up to
// server.shutdown_timeout for in-flight requests.
//
// # Routes
//
//   - POST / - relay: JSON {"message": "..."} in, plain text out, always 200
//   - GET / - embedded chat page (when ui.enabled)
//   - GET /health - liveness
//   - GET /ready - readiness, 503 without an API key
//   - GET /health/upstream - passive upstream health
//   - GET /version - build information
//   - GET /metrics - Prometheus exposition (when telemetry.metrics.enabled)
//
// GET routes also answer HEAD. Other methods on "/" get 405 with an Allow
// header.
//
// # Middleware Chain
//
// Outermost first: Recovery, RequestID, Logging, Tracing, CORS.
package server
