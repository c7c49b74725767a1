package metrics

import (
	"mercator-hq/kotoba/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks the upstream chat completion API.
//
// Metrics:
//   - kotoba_relay_upstream_duration_seconds: Round-trip latency by HTTP status
//   - kotoba_relay_upstream_errors_total: Failed calls by kind
//   - kotoba_relay_provider_health: 1=healthy, 0=unhealthy
//   - kotoba_relay_upstream_tokens_total: Tokens reported by the upstream, by type
type ProviderMetrics struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
	health  *prometheus.GaugeVec
	tokens  *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_duration_seconds",
				Help:      "Upstream API round-trip latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"status"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_errors_total",
				Help:      "Total number of failed upstream calls by kind",
			},
			[]string{"kind"},
		),

		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_tokens_total",
				Help:      "Total number of tokens reported in upstream usage by type",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(
		pm.latency,
		pm.errors,
		pm.health,
		pm.tokens,
	)

	return pm
}

// RecordLatency records the latency of one upstream call.
func (pm *ProviderMetrics) RecordLatency(status string, latencySeconds float64) {
	pm.latency.WithLabelValues(status).Observe(latencySeconds)
}

// RecordError records a failed upstream call.
//
// Kinds:
//   - "transport": no response (refused, reset, TLS)
//   - "timeout": deadline exceeded before a response
//   - "parse": response body was not a JSON object
func (pm *ProviderMetrics) RecordError(kind string) {
	pm.errors.WithLabelValues(kind).Inc()
}

// UpdateHealth updates the health status of a provider.
func (pm *ProviderMetrics) UpdateHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.health.WithLabelValues(provider).Set(value)
}

// RecordTokens adds the usage of one completion.
func (pm *ProviderMetrics) RecordTokens(promptTokens, completionTokens int) {
	if promptTokens > 0 {
		pm.tokens.WithLabelValues("prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		pm.tokens.WithLabelValues("completion").Add(float64(completionTokens))
	}
}
