package middleware

import (
	"context"
	"net/http"

	"mercator-hq/kotoba/pkg/telemetry/logging"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"

	// maxRequestIDLength caps client supplied request IDs.
	maxRequestIDLength = 128
)

// RequestIDMiddleware assigns every request an ID, stores it in the context
// for logging and echoes it in the X-Request-ID response header. A
// well-formed X-Request-ID sent by the client is reused.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}

// validRequestID accepts non-empty printable ASCII IDs of bounded length, so
// a client cannot inject control characters into logs or headers.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
