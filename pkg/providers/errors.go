package providers

import (
	"context"
	"errors"
	"fmt"
)

// TransportError represents a failure to obtain any HTTP response from the
// provider: DNS, dial, TLS, a timeout or a cancelled context. It never
// carries a status code because no response was received.
type TransportError struct {
	// Provider is the name of the provider that could not be reached
	Provider string

	// Cause is the underlying network error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("provider %q transport error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Description returns the bare cause text, without the provider prefix.
func (e *TransportError) Description() string {
	if e.Cause == nil {
		return "unknown transport error"
	}
	return e.Cause.Error()
}

// Timeout reports whether the transport failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Cause, &te) && te.Timeout()
}

// ParseError represents a response parsing failure.
// This occurs when the provider returns a body that is not a JSON object.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// StatusCode is the HTTP status of the malformed response
	StatusCode int

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error (status %d): %v", e.Provider, e.StatusCode, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ConfigError represents a provider configuration error.
// This occurs when the provider configuration is invalid.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
