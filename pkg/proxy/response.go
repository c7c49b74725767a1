package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ContentTypeText is the content type of every relay reply.
const ContentTypeText = "text/plain; charset=utf-8"

// WriteText writes a plain text response. Responses are never cached,
// since every reply is the result of a fresh upstream call.
func WriteText(w http.ResponseWriter, statusCode int, text string) error {
	w.Header().Set("Content-Type", ContentTypeText)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	if _, err := w.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write text response: %w", err)
	}
	return nil
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}
