// Package telemetry groups the relay's observability packages.
//
//   - logging: structured slog logging with request IDs and secret redaction
//   - metrics: Prometheus counters and histograms for relay outcomes
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness and readiness endpoints
//
// None of them ever record the user's message text.
package telemetry
