package metrics

import (
	"sync"
	"time"

	"mercator-hq/kotoba/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// otherLabel replaces label values once a cardinality limit is reached.
const otherLabel = "other"

// Collector owns the Prometheus registry and every metric the relay exports.
// A disabled collector accepts all calls and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Relay metrics
	relayMetrics *RelayMetrics

	// Upstream provider metrics
	providerMetrics *ProviderMetrics

	// Cardinality tracking for the upstream status label
	statusLimiter *CardinalityLimiter
}

// NewCollector creates a collector for cfg. If registry is nil a fresh one
// is created with the Go runtime and process collectors registered.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "kotoba",
//		Subsystem: "relay",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// Work on a copy so defaults never leak back into the caller's config.
	local := *cfg
	if local.Namespace == "" {
		local.Namespace = config.DefaultMetricsNS
	}
	if local.Subsystem == "" {
		local.Subsystem = config.DefaultMetricsSub
	}
	if len(local.RequestDurationBuckets) == 0 {
		local.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	}

	c := &Collector{
		config:        &local,
		registry:      registry,
		statusLimiter: NewCardinalityLimiter(32),
	}

	c.relayMetrics = NewRelayMetrics(&local, registry)
	c.providerMetrics = NewProviderMetrics(&local, registry)

	return c
}

// RecordRelay records one handled relay request.
//
// Parameters:
//   - outcome: relay outcome label (e.g., "ok", "empty_input", "transport")
//   - duration: time spent in the relay, including the upstream call
//   - messageBytes: size of the user's message in bytes
func (c *Collector) RecordRelay(outcome string, duration time.Duration, messageBytes int) {
	if !c.config.Enabled {
		return
	}

	c.relayMetrics.RecordRequest(outcome, duration, messageBytes)
}

// RecordUpstream records one upstream round trip.
//
// Parameters:
//   - status: HTTP status code as text, or "error" when no response arrived
//   - duration: round-trip latency
func (c *Collector) RecordUpstream(status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	if !c.statusLimiter.Allow(status) {
		status = otherLabel
	}
	c.providerMetrics.RecordLatency(status, duration.Seconds())
}

// RecordUpstreamError records a failed upstream call by kind
// ("transport", "timeout", "parse").
func (c *Collector) RecordUpstreamError(kind string) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordError(kind)
}

// RecordTokens records the token usage reported with a completion.
func (c *Collector) RecordTokens(promptTokens, completionTokens int) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.RecordTokens(promptTokens, completionTokens)
}

// UpdateProviderHealth updates the health gauge of a provider.
// The gauge is 1 when healthy and 0 otherwise.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.config.Enabled {
		return
	}

	c.providerMetrics.UpdateHealth(provider, healthy)
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique values a label may take.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if we haven't reached the cardinality limit yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
