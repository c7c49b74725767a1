// Package proxy holds the HTTP plumbing shared by the relay handlers.
//
// ReadBody enforces the request body limit. WriteText writes the plain text
// replies the chat page consumes, and WriteJSONResponse serves the
// operational endpoints.
//
// The handlers subpackage contains the relay and upstream health handlers,
// and middleware contains request ID, logging, CORS and panic recovery.
package proxy
