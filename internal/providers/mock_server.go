package providers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// ChatCompletionsPath is the path MockServer serves chat completions on.
const ChatCompletionsPath = "/v1/chat/completions"

// MockServer is a mock HTTP server for testing upstream clients.
// It records every request it receives and answers with a configured
// response per path.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
	Headers    map[string]string
}

// RecordedRequest is a copy of a request the mock received.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}

	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))

	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Endpoint returns the full chat completions URL.
func (ms *MockServer) Endpoint() string {
	return ms.server.URL + ChatCompletionsPath
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetResponse sets a mock response for a specific endpoint.
func (ms *MockServer) SetResponse(path string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[path] = response
}

// SetChatResponse sets the response for ChatCompletionsPath.
func (ms *MockServer) SetChatResponse(response MockResponse) {
	ms.SetResponse(ChatCompletionsPath, response)
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// LastRequest returns the most recent request, or false if none arrived.
func (ms *MockServer) LastRequest() (RecordedRequest, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if len(ms.requests) == 0 {
		return RecordedRequest{}, false
	}
	return ms.requests[len(ms.requests)-1], true
}

// ResetRequestCount forgets all recorded requests.
func (ms *MockServer) ResetRequestCount() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requests = nil
}

// handler handles incoming HTTP requests.
func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	response, ok := ms.responses[r.URL.Path]
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(response.StatusCode)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}
