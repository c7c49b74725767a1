package providers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPProvider_PostReturnsAnyStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"200 ok", http.StatusOK, `{"choices":[]}`},
		{"401 unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"429 rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`},
		{"500 server error", http.StatusInternalServerError, `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewHTTPProvider(ProviderConfig{
				Name:     "test-provider",
				Endpoint: server.URL,
				Timeout:  5 * time.Second,
			})
			defer provider.Close()

			resp, err := provider.Post(context.Background(), []byte(`{}`), nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, resp.StatusCode)
			}
			if string(resp.Body) != tt.body {
				t.Errorf("expected body %q, got %q", tt.body, resp.Body)
			}

			// Single attempt, no retries.
			if got := atomic.LoadInt32(&attempts); got != 1 {
				t.Errorf("expected 1 attempt, got %d", got)
			}
			if !provider.IsHealthy() {
				t.Error("a received response must keep the provider healthy")
			}
		})
	}
}

func TestHTTPProvider_Headers(t *testing.T) {
	var gotAuth, gotType, gotMethod string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test", Endpoint: server.URL, Timeout: time.Second})
	_, err := provider.Post(context.Background(), []byte(`{"a":1}`), map[string]string{
		"Authorization": "Bearer sk-test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Errorf("expected default JSON content type, got %q", gotType)
	}
	if string(gotBody) != `{"a":1}` {
		t.Errorf("expected body to be forwarded, got %q", gotBody)
	}
}

func TestHTTPProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{
		Name:     "test-provider",
		Endpoint: server.URL,
		Timeout:  100 * time.Millisecond,
	})

	start := time.Now()
	_, err := provider.Post(context.Background(), []byte(`{}`), nil)
	elapsed := time.Since(start)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if !terr.Timeout() {
		t.Errorf("expected a timeout, got %v", terr.Cause)
	}
	if elapsed > time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestHTTPProvider_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test", Endpoint: server.URL, Timeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := provider.Post(ctx, []byte(`{}`), nil)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestHTTPProvider_HealthTracking(t *testing.T) {
	// Nothing listens on a closed server's address.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test", Endpoint: url, Timeout: time.Second})

	for i := 1; i <= UnhealthyThreshold; i++ {
		if _, err := provider.Post(context.Background(), []byte(`{}`), nil); err == nil {
			t.Fatal("expected transport error")
		}
		wantHealthy := i < UnhealthyThreshold
		if provider.IsHealthy() != wantHealthy {
			t.Errorf("after %d failures: healthy = %v, want %v", i, provider.IsHealthy(), wantHealthy)
		}
	}

	health := provider.GetHealth()
	if health.ConsecutiveFailures != UnhealthyThreshold {
		t.Errorf("expected %d consecutive failures, got %d", UnhealthyThreshold, health.ConsecutiveFailures)
	}
	if health.FailedRequests != int64(UnhealthyThreshold) || health.TotalRequests != int64(UnhealthyThreshold) {
		t.Errorf("unexpected counters: %+v", health)
	}
	if health.LastError == nil {
		t.Error("expected last error to be recorded")
	}
}

func TestHTTPProvider_RecoversAfterResponse(t *testing.T) {
	provider := NewHTTPProvider(ProviderConfig{Name: "test", Timeout: time.Second})
	for i := 0; i < UnhealthyThreshold; i++ {
		provider.updateHealth(errors.New("boom"))
	}
	if provider.IsHealthy() {
		t.Fatal("expected unhealthy provider")
	}

	provider.updateHealth(nil)
	if !provider.IsHealthy() {
		t.Error("expected provider to recover after a response")
	}
	if provider.GetHealth().ConsecutiveFailures != 0 {
		t.Error("expected failure streak to reset")
	}
}

func TestHTTPProvider_ConnectionReuse(t *testing.T) {
	var connections int32
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			atomic.AddInt32(&connections, 1)
		}
	}
	server.Start()
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "test", Endpoint: server.URL, Timeout: time.Second})
	for i := 0; i < 5; i++ {
		if _, err := provider.Post(context.Background(), []byte(`{}`), nil); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}

	if got := atomic.LoadInt32(&connections); got != 1 {
		t.Errorf("expected sequential requests to share 1 connection, got %d", got)
	}
}
