package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"mercator-hq/kotoba/pkg/proxy"
)

// RelayHandler serves POST / for the chat page. Every reply is plain text
// with status 200, including error messages.
type RelayHandler struct {
	relay        Relayer
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewRelayHandler creates a relay handler. Bodies larger than maxBodyBytes
// are treated like malformed JSON and answered with the empty input reply.
func NewRelayHandler(r Relayer, maxBodyBytes int64, logger *slog.Logger) *RelayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelayHandler{relay: r, maxBodyBytes: maxBodyBytes, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := proxy.ReadBody(w, r, h.maxBodyBytes)
	if err != nil {
		var reqErr *proxy.RequestError
		if errors.As(err, &reqErr) && reqErr.TooLarge {
			h.logger.WarnContext(r.Context(), "request body too large", "limit_bytes", h.maxBodyBytes)
		} else {
			h.logger.WarnContext(r.Context(), "failed to read request body", "error", err)
		}
		body = nil
	}

	reply := h.relay.Handle(r.Context(), body)

	if err := proxy.WriteText(w, http.StatusOK, reply.Text); err != nil {
		h.logger.DebugContext(r.Context(), "failed to write reply", "error", err)
	}
}
