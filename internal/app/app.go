// Package app assembles the relay and its telemetry from a loaded
// configuration. Both the HTTP server binary and the Lambda entry point
// build their components here.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/kotoba/pkg/config"
	"mercator-hq/kotoba/pkg/providers"
	"mercator-hq/kotoba/pkg/providers/openai"
	"mercator-hq/kotoba/pkg/relay"
	"mercator-hq/kotoba/pkg/server"
	"mercator-hq/kotoba/pkg/telemetry/health"
	"mercator-hq/kotoba/pkg/telemetry/logging"
	"mercator-hq/kotoba/pkg/telemetry/metrics"
	"mercator-hq/kotoba/pkg/telemetry/tracing"
)

// Options tune how the components are built.
type Options struct {
	// LogWriter receives log output. Defaults to os.Stderr.
	LogWriter io.Writer

	// Registry receives the relay metrics. Nil creates a fresh registry with
	// the Go and process collectors.
	Registry *prometheus.Registry

	// Version is reported by /version and as the tracing service version.
	Version health.VersionInfo
}

// App holds the wired components. Close releases them.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Client  *openai.Client
	Relay   *relay.Service
	Checker *health.Checker
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Version health.VersionInfo
}

// New builds every component from cfg. The logger is also installed as the
// slog default.
func New(cfg *config.Config, opts Options) (*App, error) {
	logger, err := logging.Setup(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Redact:    cfg.Telemetry.Logging.Redact,
		Writer:    opts.LogWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if opts.Version.Version != "" {
		tracing.ServiceVersion = opts.Version.Version
	}
	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, opts.Registry)

	client, err := openai.NewClient(providers.ProviderConfig{
		Name:     openai.ProviderName,
		Endpoint: cfg.Upstream.Endpoint,
		APIKey:   cfg.Upstream.APIKey,
		Timeout:  cfg.Upstream.Timeout,
	})
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	service := relay.New(relay.Config{
		Model:       cfg.Upstream.Model,
		Temperature: cfg.Upstream.Temperature,
	}, client, relay.Options{
		Logger:   logger,
		Recorder: collector,
		Tracer:   tracer,
	})

	checker := health.New(0)
	checker.RegisterCheck("credential", health.CredentialCheck(client.HasCredential))
	checker.RegisterCheck(client.GetName(), health.ProviderCheck(client))

	if !client.HasCredential() {
		logger.Warn("upstream API key is not configured; requests will be answered with the missing-credential message",
			"env", config.EnvAPIKey,
		)
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Relay:   service,
		Checker: checker,
		Metrics: collector,
		Tracer:  tracer,
		Version: opts.Version,
	}, nil
}

// Server returns an HTTP server routing to the app's components.
func (a *App) Server() *server.Server {
	return server.NewServer(a.Config, server.Dependencies{
		Relay:    a.Relay,
		Upstream: a.Client,
		Checker:  a.Checker,
		Metrics:  a.Metrics,
		Version:  a.Version,
		Logger:   a.Logger,
	})
}

// Close flushes pending spans and closes idle upstream connections.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.Tracer.Shutdown(ctx),
		a.Client.Close(),
	)
}
