package tracing

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/kotoba/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

// InstrumentationName is the name spans are created under.
const InstrumentationName = "mercator-hq/kotoba"

// ServiceVersion is reported as service.version on every exported span.
// Release builds override it with -ldflags.
var ServiceVersion = "dev"

// Tracer wraps the OpenTelemetry tracer used by the relay.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// New creates a Tracer from cfg.
//
// When tracing is disabled the returned Tracer hands out noop spans and
// nothing is exported. Otherwise spans are batched to an OTLP gRPC collector
// and the W3C trace context propagator is installed globally.
//
// The tracer must be shut down when no longer needed:
//
//	defer tracer.Shutdown(context.Background())
func New(cfg *config.TracingConfig) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}

	if !cfg.Enabled {
		return Noop(), nil
	}

	sampler, err := newSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = config.DefaultServiceName
	}
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(Propagator())

	return &Tracer{
		tracer:   provider.Tracer(InstrumentationName),
		provider: provider,
		enabled:  true,
	}, nil
}

// Noop returns a Tracer that records nothing.
func Noop() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}
}

// newTracerWithProvider builds a Tracer around an existing provider.
// Tests use it with an in-memory span recorder.
func newTracerWithProvider(provider *sdktrace.TracerProvider) *Tracer {
	return &Tracer{
		tracer:   provider.Tracer(InstrumentationName),
		provider: provider,
		enabled:  true,
	}
}

// Start creates a span as a child of any span already in ctx.
//
//	ctx, span := tracer.Start(ctx, "relay.handle")
//	defer span.End()
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if t == nil || t.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes pending spans and stops the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Enabled reports whether spans are exported.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// newExporter creates the OTLP gRPC exporter. The connection is made
// lazily, so an unreachable collector does not block startup.
func newExporter(cfg *config.TracingConfig) (sdktrace.SpanExporter, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("tracing endpoint is required")
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	exporter, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	return exporter, nil
}

// SpanFromContext returns the current span from the context.
// If no span exists, a noop span is returned.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// TraceID returns the trace ID from the context as a string.
// Returns empty string if no trace context exists.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanID returns the span ID from the context as a string.
func SpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

// SetError records err on the span and marks it failed.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.Bool("error", true))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
