// Package middleware provides the HTTP middleware wrapped around the relay.
//
// # Middleware Chain
//
// The server applies the middleware in this order, outermost first:
//
//	handler = Recovery(RequestID(Logging(Tracing(CORS(mux)))))
//
//   - RecoveryMiddleware turns a handler panic into a 500 with the generic
//     unexpected-error text as plain text
//   - RequestIDMiddleware assigns a UUID request ID, or keeps a well-formed
//     X-Request-ID from the client
//   - LoggingMiddleware writes one structured log line per request
//   - CORSMiddleware answers preflight requests when CORS is enabled
//
// Tracing context extraction lives in the tracing package.
//
// # Request ID
//
// The request ID is stored with logging.WithRequestID, so every log line
// written with the request context carries it:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// # Privacy
//
// No middleware reads or logs request bodies. The user's message only ever
// reaches the relay handler.
package middleware
