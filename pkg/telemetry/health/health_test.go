package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

type fakeProvider struct {
	name    string
	healthy bool
}

func (f fakeProvider) GetName() string { return f.name }
func (f fakeProvider) IsHealthy() bool { return f.healthy }

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{"default timeout", 0, 2 * time.Second},
		{"negative timeout", -time.Second, 2 * time.Second},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.ListChecks()) != 0 {
				t.Errorf("expected no checks, got %v", checker.ListChecks())
			}
		})
	}
}

func TestRegisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("openai", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("credential", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("openai", func(ctx context.Context) error { return errors.New("replaced") })

	if got, want := checker.ListChecks(), []string{"credential", "openai"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListChecks() = %v, want %v", got, want)
	}

	status := checker.CheckReadiness(context.Background())
	if status.Checks["openai"].Message != "replaced" {
		t.Errorf("expected replaced check to run, got %+v", status.Checks["openai"])
	}
}

func TestCheckLiveness(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("failing", func(ctx context.Context) error { return errors.New("down") })

	status := checker.CheckLiveness(context.Background())
	if status.Status != StatusOK {
		t.Errorf("expected ok, got %s", status.Status)
	}
	if status.Checks != nil {
		t.Error("liveness should not run checks")
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"credential": CredentialCheck(func() bool { return true }),
				"openai":     ProviderCheck(fakeProvider{"openai", true}),
			},
			wantStatus: StatusReady,
		},
		{
			name: "missing credential",
			checks: map[string]CheckFunc{
				"credential": CredentialCheck(func() bool { return false }),
				"openai":     ProviderCheck(fakeProvider{"openai", true}),
			},
			wantStatus: StatusDegraded,
		},
		{
			name: "unhealthy provider",
			checks: map[string]CheckFunc{
				"openai": ProviderCheck(fakeProvider{"openai", false}),
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("expected %s, got %s (%+v)", tt.wantStatus, status.Status, status.Checks)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("expected %d results, got %d", len(tt.checks), len(status.Checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	})

	start := time.Now()
	status := checker.CheckReadiness(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("readiness waited %v for a timed out check", elapsed)
	}

	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("expected timeout result, got %+v", result)
	}
}

func TestProviderCheckMessage(t *testing.T) {
	err := ProviderCheck(fakeProvider{"openai", false})(context.Background())
	if err == nil || err.Error() != "openai is failing consecutive requests" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)

	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %s", ct)
	}

	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Status != StatusOK {
		t.Errorf("expected ok, got %s", status.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name          string
		hasCredential bool
		wantCode      int
	}{
		{"ready", true, http.StatusOK},
		{"missing key", false, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			checker.RegisterCheck("credential", CredentialCheck(func() bool { return tt.hasCredential }))

			rec := httptest.NewRecorder()
			checker.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	checker := New(time.Second)
	mux := http.NewServeMux()
	checker.Register(mux, NewVersionInfo("1.2.3", "abc123", "2026-10-15"))

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody bool
	}{
		{http.MethodGet, "/health", http.StatusOK, true},
		{http.MethodHead, "/health", http.StatusOK, false},
		{http.MethodGet, "/ready", http.StatusOK, true},
		{http.MethodGet, "/version", http.StatusOK, true},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if (rec.Body.Len() > 0) != tt.wantBody {
				t.Errorf("body present = %v, want %v", rec.Body.Len() > 0, tt.wantBody)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler(NewVersionInfo("1.2.3", "abc123", "2026-10-15"))(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("unexpected version info: %+v", info)
	}
}
