package proxy

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodyBytes is used when no body limit is configured (64KB).
const DefaultMaxBodyBytes = 64 * 1024

// RequestError describes a request body that could not be read.
type RequestError struct {
	// Message is a human-readable description
	Message string

	// TooLarge is set when the body exceeded the configured limit
	TooLarge bool

	// Cause is the underlying read error
	Cause error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ReadBody reads the request body, refusing bodies larger than maxBytes.
// On error the partial body is discarded.
//
// Example usage:
//
//	body, err := ReadBody(w, r, cfg.Server.MaxBodyBytes)
//	if err != nil {
//	    body = nil
//	}
func ReadBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &RequestError{
				Message:  fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
				TooLarge: true,
				Cause:    err,
			}
		}
		return nil, &RequestError{
			Message: "failed to read request body",
			Cause:   err,
		}
	}

	return body, nil
}
