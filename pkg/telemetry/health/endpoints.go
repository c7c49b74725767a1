package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// NewVersionInfo fills GoVersion from the running binary.
func NewVersionInfo(version, commit, buildTime string) VersionInfo {
	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// LivenessHandler returns the /health handler. It answers 200 whenever the
// process can serve HTTP.
//
// Example response:
//
//	{"status": "ok", "timestamp": "2026-10-15T10:30:00Z"}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler returns the /ready handler.
//
// Returns:
//   - 200 OK: every check passed
//   - 503 Service Unavailable: at least one check failed
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "credential": {"status": "unhealthy", "message": "upstream API key is not configured"},
//	        "openai": {"status": "ok"}
//	    },
//	    "timestamp": "2026-10-15T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler returns the /version handler.
func VersionHandler(info VersionInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, info)
	}
}

// Register mounts /health, /ready and /version on mux for GET and HEAD.
func (c *Checker) Register(mux *http.ServeMux, info VersionInfo) {
	mux.HandleFunc("GET /health", c.LivenessHandler())
	mux.HandleFunc("GET /ready", c.ReadinessHandler())
	mux.HandleFunc("GET /version", VersionHandler(info))
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)

	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}
