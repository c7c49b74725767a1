// Package handlers provides the HTTP handlers for the relay endpoint.
//
//   - RelayHandler: POST / with {"message": "..."}, answers plain text
//   - UpstreamHealthHandler: upstream health as observed from relay traffic
//
// Liveness and readiness live in the telemetry/health package, and the chat
// page is served by the ui package.
//
// # Request Flow
//
//  1. Read the body up to the configured limit
//  2. Pass the raw body to the relay service
//  3. Write the reply text with status 200
//
// A body that cannot be read, or is too large, is passed on as empty and
// yields the empty input reply.
package handlers
