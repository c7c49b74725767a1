package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/kotoba/pkg/relay"
)

// RecoveryMiddleware recovers from panics in HTTP handlers. The client gets
// a 500 with the generic unexpected-error text as plain text, so the chat
// page can still display something. The panic and stack trace are logged.
//
// Example usage:
//
//	handler = RecoveryMiddleware(logger)(handler)
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("X-Content-Type-Options", "nosniff")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(relay.MsgUnexpected))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
