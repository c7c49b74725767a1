package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/kotoba/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return newTracerWithProvider(provider), recorder
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name:   "disabled tracing",
			config: &config.TracingConfig{Enabled: false},
		},
		{
			name: "enabled with always sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Endpoint:    "localhost:4317",
				Insecure:    true,
				ServiceName: "test-service",
			},
			wantEnabled: true,
		},
		{
			name: "enabled with ratio sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerRatio,
				SampleRatio: 0.5,
				Endpoint:    "localhost:4317",
				Insecure:    true,
			},
			wantEnabled: true,
		},
		{
			name: "invalid sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  "sometimes",
				Endpoint: "localhost:4317",
			},
			wantErr: true,
		},
		{
			name: "ratio out of range",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerRatio,
				SampleRatio: 1.5,
				Endpoint:    "localhost:4317",
			},
			wantErr: true,
		},
		{
			name: "missing endpoint",
			config: &config.TracingConfig{
				Enabled: true,
				Sampler: SamplerAlways,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.25, false},
		{"RATIO", 1, false},
		{"", 1, false},
		{SamplerRatio, -0.1, true},
		{"random", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			sampler, err := newSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && sampler == nil {
				t.Error("expected sampler")
			}
		})
	}
}

func TestNoop(t *testing.T) {
	tracer := Noop()
	if tracer.Enabled() {
		t.Error("noop tracer should not be enabled")
	}

	ctx, span := tracer.Start(context.Background(), "relay.handle")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("noop span should have an invalid span context")
	}
	if TraceID(ctx) != "" {
		t.Errorf("expected empty trace ID, got %q", TraceID(ctx))
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestNilTracer(t *testing.T) {
	var tracer *Tracer
	ctx, span := tracer.Start(context.Background(), "x")
	span.End()
	if ctx == nil {
		t.Fatal("expected context")
	}
	if tracer.Enabled() {
		t.Error("nil tracer should not be enabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestTracer_StartRecordsSpan(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "relay.handle")
	SetProviderAttributes(span, "openai", "gpt-5-mini")
	SetMessageAttributes(span, "req-1", 42)
	SetUpstreamStatus(span, http.StatusOK)
	SetTokenAttributes(span, 10, 20)
	SetOutcomeAttribute(span, "ok")

	if TraceID(ctx) == "" || SpanID(ctx) == "" {
		t.Error("expected trace and span IDs in context")
	}
	if SpanFromContext(ctx) != span {
		t.Error("SpanFromContext should return the started span")
	}
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Name() != "relay.handle" {
		t.Errorf("span name = %q", ended[0].Name())
	}

	attrs := attrMap(ended[0].Attributes())
	checks := map[attribute.Key]attribute.Value{
		AttrProvider:       attribute.StringValue("openai"),
		AttrModel:          attribute.StringValue("gpt-5-mini"),
		AttrRequestID:      attribute.StringValue("req-1"),
		AttrMessageBytes:   attribute.IntValue(42),
		AttrUpstreamStatus: attribute.IntValue(200),
		AttrTokensTotal:    attribute.IntValue(30),
		AttrOutcome:        attribute.StringValue("ok"),
	}
	for key, want := range checks {
		if got, ok := attrs[key]; !ok || got != want {
			t.Errorf("attribute %s = %v, want %v", key, got.Emit(), want.Emit())
		}
	}
}

func TestSetMessageAttributes_OmitsEmptyRequestID(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "relay.handle")
	SetMessageAttributes(span, "", 7)
	span.End()

	attrs := attrMap(recorder.Ended()[0].Attributes())
	if _, ok := attrs[AttrRequestID]; ok {
		t.Error("request ID should be omitted when empty")
	}
}

func TestSetErrorAttributes(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "relay.handle")
	SetErrorAttributes(span, nil, "transport")
	SetErrorAttributes(span, errors.New("connection refused"), "transport")
	span.End()

	ended := recorder.Ended()[0]
	if ended.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", ended.Status().Code)
	}
	if ended.Status().Description != "connection refused" {
		t.Errorf("status description = %q", ended.Status().Description)
	}
	if got := attrMap(ended.Attributes())[AttrErrorType]; got.AsString() != "transport" {
		t.Errorf("error type = %q", got.AsString())
	}
	if len(ended.Events()) != 1 {
		t.Errorf("expected 1 recorded error event, got %d", len(ended.Events()))
	}
}

func TestSetError(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "op")
	SetError(span, errors.New("boom"))
	span.End()

	if recorder.Ended()[0].Status().Code != codes.Error {
		t.Error("expected error status")
	}
}

func TestHTTPMiddleware(t *testing.T) {
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	tests := []struct {
		name        string
		traceparent string
		wantTraceID string
	}{
		{"with traceparent", traceparent, "4bf92f3577b34da6a3ce929d0e0e4736"},
		{"without traceparent", "", ""},
		{"malformed traceparent", "00-zz-00-01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = TraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.traceparent != "" {
				req.Header.Set("traceparent", tt.traceparent)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if seen != tt.wantTraceID {
				t.Errorf("trace ID in handler = %q, want %q", seen, tt.wantTraceID)
			}
			if got := rec.Header().Get("X-Trace-ID"); got != tt.wantTraceID {
				t.Errorf("X-Trace-ID = %q, want %q", got, tt.wantTraceID)
			}
		})
	}
}

func TestExtractFromMap(t *testing.T) {
	ctx := ExtractFromMap(context.Background(), map[string]string{
		"traceparent": "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	})
	if got := TraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("TraceID() = %q", got)
	}

	tracer, recorder := newRecordingTracer(t)
	_, span := tracer.Start(ctx, "child")
	span.End()

	child := recorder.Ended()[0]
	if child.Parent().SpanID().String() != "00f067aa0ba902b7" {
		t.Errorf("parent span ID = %s", child.Parent().SpanID())
	}
}
