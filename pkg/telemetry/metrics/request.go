package metrics

import (
	"time"

	"mercator-hq/kotoba/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RelayMetrics tracks relay request handling.
//
// Metrics:
//   - kotoba_relay_requests_total: Handled requests by outcome
//   - kotoba_relay_request_duration_seconds: Handling duration by outcome
//   - kotoba_relay_message_size_bytes: Size of the submitted message
type RelayMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	messageSize     prometheus.Histogram
}

// NewRelayMetrics creates and registers relay metrics with the provided registry.
func NewRelayMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RelayMetrics {
	rm := &RelayMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of relay requests by outcome",
			},
			[]string{"outcome"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of relay requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"outcome"},
		),

		messageSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "message_size_bytes",
				Help:      "Size of submitted messages in bytes",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 7), // 16B to 64KB
			},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.messageSize,
	)

	return rm
}

// RecordRequest records one relay request.
func (rm *RelayMetrics) RecordRequest(outcome string, duration time.Duration, messageBytes int) {
	rm.requestsTotal.WithLabelValues(outcome).Inc()
	rm.requestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	rm.messageSize.Observe(float64(messageBytes))
}
