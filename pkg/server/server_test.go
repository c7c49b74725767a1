package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/kotoba/pkg/config"
	"mercator-hq/kotoba/pkg/providers"
	"mercator-hq/kotoba/pkg/relay"
	"mercator-hq/kotoba/pkg/telemetry/health"
	"mercator-hq/kotoba/pkg/telemetry/metrics"
)

type stubRelayer struct {
	mu     sync.Mutex
	bodies []string
	reply  relay.Reply
}

func (s *stubRelayer) Handle(_ context.Context, rawBody []byte) relay.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, string(rawBody))
	return s.reply
}

type stubUpstream struct {
	health providers.ProviderHealth
}

func (s stubUpstream) GetName() string                     { return "openai" }
func (s stubUpstream) GetHealth() providers.ProviderHealth { return s.health }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, rel *stubRelayer) *httptest.Server {
	t.Helper()

	checker := health.New(time.Second)
	checker.RegisterCheck("credential", health.CredentialCheck(func() bool { return true }))

	srv := NewServer(cfg, Dependencies{
		Relay:    rel,
		Upstream: stubUpstream{health: providers.ProviderHealth{IsHealthy: true}},
		Checker:  checker,
		Metrics:  metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		Version:  health.NewVersionInfo("1.2.3", "abc123", "2026-10-15"),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_RelayRoute(t *testing.T) {
	rel := &stubRelayer{reply: relay.Reply{Text: "新幹線 - Shinkansen", Outcome: relay.OutcomeOK}}
	ts := newTestServer(t, testConfig(), rel)

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"message":"明日は新幹線で東京に行きます"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "新幹線 - Shinkansen", string(body))
	require.Len(t, rel.bodies, 1)
	assert.Equal(t, `{"message":"明日は新幹線で東京に行きます"}`, rel.bodies[0])
}

func TestServer_Routes(t *testing.T) {
	ts := newTestServer(t, testConfig(), &stubRelayer{})

	tests := []struct {
		name        string
		method      string
		path        string
		wantStatus  int
		contentType string
	}{
		{"chat page", http.MethodGet, "/", http.StatusOK, "text/html; charset=utf-8"},
		{"chat page head", http.MethodHead, "/", http.StatusOK, "text/html; charset=utf-8"},
		{"liveness", http.MethodGet, "/health", http.StatusOK, "application/json"},
		{"readiness", http.MethodGet, "/ready", http.StatusOK, "application/json"},
		{"upstream health", http.MethodGet, "/health/upstream", http.StatusOK, "application/json"},
		{"version", http.MethodGet, "/version", http.StatusOK, "application/json"},
		{"unknown path", http.MethodGet, "/v1/chat/completions", http.StatusNotFound, ""},
		{"wrong method", http.MethodPut, "/", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestServer_MetricsRoute(t *testing.T) {
	ts := newTestServer(t, testConfig(), &stubRelayer{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_DisabledRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.UI.Enabled = false
	cfg.Telemetry.Metrics.Enabled = false
	ts := newTestServer(t, cfg, &stubRelayer{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_StartAndShutdown(t *testing.T) {
	rel := &stubRelayer{reply: relay.Reply{Text: relay.MsgEmptyInput, Outcome: relay.OutcomeEmptyInput}}
	srv := NewServer(testConfig(), Dependencies{Relay: rel})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, srv.IsRunning())

	resp, err := http.Post("http://"+srv.Addr().String()+"/", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, relay.MsgEmptyInput, string(body))

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, srv.IsRunning())

	// A second shutdown is a no-op.
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestServer_StartTwice(t *testing.T) {
	srv := NewServer(testConfig(), Dependencies{Relay: &stubRelayer{}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Start(ctx) }()

	require.Eventually(t, srv.IsRunning, 2*time.Second, 10*time.Millisecond)
	assert.Error(t, srv.Start(ctx))
}

func TestServer_ListenError(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ListenAddress = "256.0.0.1:99999"

	err := NewServer(cfg, Dependencies{Relay: &stubRelayer{}}).Start(context.Background())
	assert.Error(t, err)
}
