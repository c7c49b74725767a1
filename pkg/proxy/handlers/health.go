package handlers

import (
	"net/http"
	"time"

	"mercator-hq/kotoba/pkg/proxy"
)

// upstreamHealth is the JSON body of the upstream health endpoint.
type upstreamHealth struct {
	Provider            string `json:"provider"`
	Healthy             bool   `json:"healthy"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	TotalRequests       int64  `json:"total_requests"`
	FailedRequests      int64  `json:"failed_requests"`
	LastError           string `json:"last_error,omitempty"`
	LastSuccess         string `json:"last_success,omitempty"`
}

// UpstreamHealthHandler reports what the relay has observed about the
// upstream API. It never calls the upstream itself.
type UpstreamHealthHandler struct {
	source ProviderHealthSource
}

// NewUpstreamHealthHandler creates an upstream health handler.
func NewUpstreamHealthHandler(source ProviderHealthSource) *UpstreamHealthHandler {
	return &UpstreamHealthHandler{source: source}
}

// ServeHTTP implements http.Handler.
//
// Example response:
//
//	{
//	    "provider": "openai",
//	    "healthy": true,
//	    "consecutive_failures": 0,
//	    "total_requests": 42,
//	    "failed_requests": 1,
//	    "last_success": "2026-10-15T10:30:00Z"
//	}
func (h *UpstreamHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.source.GetHealth()

	resp := upstreamHealth{
		Provider:            h.source.GetName(),
		Healthy:             health.IsHealthy,
		ConsecutiveFailures: health.ConsecutiveFailures,
		TotalRequests:       health.TotalRequests,
		FailedRequests:      health.FailedRequests,
	}
	if health.LastError != nil {
		resp.LastError = health.LastError.Error()
	}
	if !health.LastSuccessfulRequest.IsZero() {
		resp.LastSuccess = health.LastSuccessfulRequest.UTC().Format(time.RFC3339)
	}

	status := http.StatusOK
	if !health.IsHealthy {
		status = http.StatusServiceUnavailable
	}
	_ = proxy.WriteJSONResponse(w, status, resp)
}
