package providers

import "time"

// ProviderConfig contains the settings shared by HTTP-based provider clients.
type ProviderConfig struct {
	// Name is the provider identifier used in logs and errors (e.g., "openai")
	Name string

	// Endpoint is the full URL requests are posted to
	Endpoint string

	// APIKey is the authentication key
	APIKey string

	// Timeout bounds a whole request, from dial to the last body byte
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UnhealthyThreshold is the number of consecutive transport failures after
// which a provider reports itself unhealthy.
const UnhealthyThreshold = 3

// ProviderHealth is a passive view of how recent requests to a provider went.
// It is updated by real traffic only; there is no background probing.
type ProviderHealth struct {
	// IsHealthy is false after UnhealthyThreshold consecutive transport failures
	IsHealthy bool

	// ConsecutiveFailures counts transport failures since the last response
	ConsecutiveFailures int

	// LastError is the most recent transport error, if any
	LastError error

	// LastSuccessfulRequest is when a response was last received
	LastSuccessfulRequest time.Time

	// TotalRequests is the number of requests attempted
	TotalRequests int64

	// FailedRequests is the number of requests that got no response
	FailedRequests int64
}

// Response is a raw provider reply: the HTTP status and the full body.
type Response struct {
	StatusCode int
	Body       []byte
}
