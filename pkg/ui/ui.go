package ui

import (
	"bytes"
	"embed"
	"net/http"
	"time"
)

//go:embed static/index.html
var static embed.FS

// IndexPath is the embedded path of the chat page.
const IndexPath = "static/index.html"

// Handler serves the chat page.
type Handler struct {
	page    []byte
	modTime time.Time
}

// NewHandler returns a handler serving the embedded chat page.
func NewHandler() *Handler {
	page, err := static.ReadFile(IndexPath)
	if err != nil {
		// The page is compiled into the binary.
		panic("ui: embedded page missing: " + err.Error())
	}
	return &Handler{page: page, modTime: time.Now()}
}

// Page returns the raw chat page.
func (h *Handler) Page() []byte {
	return h.page
}

// ServeHTTP serves the page for GET and HEAD. Conditional requests are
// answered from the process start time.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "no-referrer")
	http.ServeContent(w, r, "index.html", h.modTime, bytes.NewReader(h.page))
}
