// Package providers contains the HTTP plumbing shared by upstream model
// clients: a pooled single-attempt HTTP provider with passive health
// tracking, and the typed errors callers use to tell a network failure
// apart from an unreadable reply.
//
// # Error Types
//
//   - TransportError: no HTTP response was obtained (dial, TLS, timeout, cancellation)
//   - ParseError: a response arrived but its body is not a JSON object
//   - ConfigError: the client was constructed with invalid settings
//
// Use errors.As to branch on them:
//
//	var terr *providers.TransportError
//	if errors.As(err, &terr) {
//	    log.Printf("upstream unreachable: %s", terr.Description())
//	}
//
// Requests are never retried. A provider is reported unhealthy after
// UnhealthyThreshold consecutive transport failures and healthy again after
// the next response of any status.
package providers
