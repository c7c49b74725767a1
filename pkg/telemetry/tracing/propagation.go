package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
)

// W3C Trace Context Propagation
//
// A caller that already traces its requests can send a traceparent header
// with its POST and the relay span joins that trace:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// Requests without the header start a new root span.

var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Propagator returns the W3C Trace Context and Baggage propagator.
func Propagator() propagation.TextMapPropagator {
	return propagator
}

// Extract returns ctx carrying the trace context found in headers.
// If no trace context is present the original context is returned.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return propagator.Extract(ctx, propagation.HeaderCarrier(headers))
}

// ExtractFromMap extracts trace context from a string map, such as the
// header map of an API Gateway event.
func ExtractFromMap(ctx context.Context, carrier map[string]string) context.Context {
	return propagator.Extract(ctx, propagation.MapCarrier(carrier))
}

// HTTPMiddleware extracts trace context from incoming requests and echoes
// the trace ID back in the X-Trace-ID response header.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := Extract(r.Context(), r.Header)

		if id := TraceID(ctx); id != "" {
			w.Header().Set("X-Trace-ID", id)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
