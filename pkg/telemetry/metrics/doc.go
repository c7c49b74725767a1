// Package metrics provides Prometheus metrics for the relay.
//
// # Metrics
//
//	kotoba_relay_requests_total{outcome}
//	kotoba_relay_request_duration_seconds{outcome}
//	kotoba_relay_message_size_bytes
//	kotoba_relay_upstream_duration_seconds{status}
//	kotoba_relay_upstream_errors_total{kind}
//	kotoba_relay_provider_health{provider}
//
// Namespace and subsystem come from config.MetricsConfig.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	collector.RecordRelay("ok", time.Since(start), len(message))
//	collector.RecordUpstream("200", upstreamLatency)
//
// The upstream status label is capped by a CardinalityLimiter; values past
// the limit are reported as "other".
package metrics
