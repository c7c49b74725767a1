// Package tracing provides OpenTelemetry tracing for the relay.
//
// Each relay request gets one span covering input parsing, the upstream
// call and reply classification. Spans carry the outcome, the upstream
// status and the message size. The message text itself is never attached.
//
// # Export
//
// When enabled, spans are batched to an OTLP gRPC collector:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//	    endpoint: localhost:4317
//	    insecure: true
//
// When disabled, New returns a Tracer whose spans are noops.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "relay.handle")
//	defer span.End()
//
// # Propagation
//
// HTTPMiddleware reads W3C traceparent headers so the relay span joins a
// caller's trace. ExtractFromMap does the same for Lambda event headers.
package tracing
