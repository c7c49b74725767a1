package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Connection pool defaults used when ProviderConfig leaves them unset.
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// maxResponseBytes caps how much of a provider body is read into memory.
const maxResponseBytes = 4 << 20

// HTTPProvider is the base implementation for HTTP-based provider clients.
// It owns a pooled *http.Client, performs exactly one attempt per call and
// keeps a passive health record.
//
// Any HTTP response, whatever its status, counts as a successful round trip:
// upstream error bodies are the caller's business, not a transport failure.
type HTTPProvider struct {
	// config contains the provider configuration
	config ProviderConfig

	// client is the HTTP client with connection pooling
	client *http.Client

	// health tracks the provider's health status
	health ProviderHealth

	// healthMu protects concurrent access to health status
	healthMu sync.RWMutex
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = defaultMaxIdleConns
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = defaultIdleConnTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		health: ProviderHealth{
			IsHealthy:             true, // Start optimistic
			LastSuccessfulRequest: time.Now(),
		},
	}
}

// GetName returns the provider's configured name.
func (p *HTTPProvider) GetName() string {
	return p.config.Name
}

// GetConfig returns the provider's configuration.
func (p *HTTPProvider) GetConfig() ProviderConfig {
	return p.config
}

// IsHealthy returns the current health status.
func (p *HTTPProvider) IsHealthy() bool {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.health.IsHealthy
}

// GetHealth returns detailed health information.
func (p *HTTPProvider) GetHealth() ProviderHealth {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.health
}

// updateHealth records the outcome of one round trip.
func (p *HTTPProvider) updateHealth(err error) {
	p.healthMu.Lock()
	defer p.healthMu.Unlock()

	p.health.TotalRequests++

	if err == nil {
		p.health.IsHealthy = true
		p.health.ConsecutiveFailures = 0
		p.health.LastError = nil
		p.health.LastSuccessfulRequest = time.Now()
		return
	}

	p.health.FailedRequests++
	p.health.ConsecutiveFailures++
	p.health.LastError = err

	if p.health.ConsecutiveFailures >= UnhealthyThreshold && p.health.IsHealthy {
		p.health.IsHealthy = false
		slog.Warn("provider marked unhealthy",
			"provider", p.config.Name,
			"consecutive_failures", p.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

// Post sends body to the configured endpoint and returns the raw response.
// It makes a single attempt. The only error it returns is *TransportError;
// non-2xx statuses are returned as ordinary responses.
func (p *HTTPProvider) Post(ctx context.Context, body []byte, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		terr := &TransportError{Provider: p.config.Name, Cause: fmt.Errorf("failed to create request: %w", err)}
		p.updateHealth(terr)
		return nil, terr
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.DebugContext(ctx, "sending request to provider",
		"provider", p.config.Name,
		"url", p.config.Endpoint,
		"body_bytes", len(body),
	)

	resp, err := p.client.Do(req)
	if err != nil {
		terr := &TransportError{Provider: p.config.Name, Cause: err}
		p.updateHealth(terr)
		return nil, terr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		// The connection broke mid-body; treat it like no response at all.
		terr := &TransportError{Provider: p.config.Name, Cause: fmt.Errorf("failed to read response: %w", err)}
		p.updateHealth(terr)
		return nil, terr
	}

	p.updateHealth(nil)
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// Close releases idle pooled connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	slog.Debug("provider closed", "provider", p.config.Name)
	return nil
}
