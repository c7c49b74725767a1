package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
	written    bool
}

// newResponseWriter creates a new response writer wrapper.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called if not already done.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// LoggingMiddleware logs one line per request with method, path, status,
// latency and response size. Request and response bodies are never logged.
// The request ID is added by the logger's context handler.
//
// Log format (JSON):
//
//	{
//	  "time": "2026-10-15T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "POST",
//	  "path": "/",
//	  "status": 200,
//	  "latency_ms": 812,
//	  "response_bytes": 17,
//	  "request_id": "550e8400-e29b-41d4-a716-446655440000"
//	}
//
// Example usage:
//
//	handler = LoggingMiddleware(logger)(handler)
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ctx := context.WithValue(r.Context(), StartTimeKey, startTime)

			rw := newResponseWriter(w)

			logger.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			next.ServeHTTP(rw, r.WithContext(ctx))

			logLevel := slog.LevelInfo
			if rw.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if rw.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			logger.Log(ctx, logLevel, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", time.Since(startTime).Milliseconds(),
				"response_bytes", rw.bytes,
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// GetStartTime extracts the request start time from the context.
// Returns zero time if not found.
func GetStartTime(ctx context.Context) time.Time {
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}
