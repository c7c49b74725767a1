// Command kotoba-lambda runs the keyword translation relay on AWS Lambda
// behind an API Gateway HTTP API or a function URL.
//
// It serves the same contract as "kotoba run": POST / relays the message and
// answers with plain text, GET / returns the chat page. Scheduled events with
// {"source": "warmup"} keep instances warm.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"mercator-hq/kotoba/internal/app"
	"mercator-hq/kotoba/pkg/config"
	"mercator-hq/kotoba/pkg/proxy"
	"mercator-hq/kotoba/pkg/proxy/handlers"
	"mercator-hq/kotoba/pkg/telemetry/health"
	"mercator-hq/kotoba/pkg/telemetry/logging"
	"mercator-hq/kotoba/pkg/telemetry/tracing"
	"mercator-hq/kotoba/pkg/ui"
)

// envConfigPath names an optional YAML file bundled with the function.
const envConfigPath = "KOTOBA_CONFIG"

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

func main() {
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath:     os.Getenv(envConfigPath),
		ConfigOptional: true,
		DotEnvPath:     config.DefaultDotEnvPath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	a, err := app.New(cfg, app.Options{
		Version: health.NewVersionInfo(Version, GitCommit, BuildDate),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	h := &handler{
		relay:        a.Relay,
		page:         pageFor(cfg),
		maxBodyBytes: cfg.Server.MaxBodyBytes,
		logger:       a.Logger,
		warmer:       newSelfInvoker(),
	}

	lambda.StartWithOptions(h.handle, lambda.WithEnableSIGTERM(func() {
		_ = a.Close(context.Background())
	}))
}

func pageFor(cfg *config.Config) []byte {
	if !cfg.UI.Enabled {
		return nil
	}
	return ui.NewHandler().Page()
}

// handler answers Lambda invocations. It holds no per-request state.
type handler struct {
	relay        handlers.Relayer
	page         []byte
	maxBodyBytes int64
	logger       *slog.Logger
	warmer       warmer
}

// handle dispatches a raw invocation payload. Warmup events are checked
// first so they never reach the relay.
func (h *handler) handle(ctx context.Context, event json.RawMessage) (any, error) {
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup, h.warmer, h.logger)
	}

	var req events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("unsupported event: %w", err)
	}
	return h.serveHTTP(ctx, req), nil
}

func (h *handler) serveHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	ctx = tracing.ExtractFromMap(ctx, lowerKeys(req.Headers))
	if id := req.RequestContext.RequestID; id != "" {
		ctx = logging.WithRequestID(ctx, id)
	}

	method := strings.ToUpper(req.RequestContext.HTTP.Method)
	path := req.RawPath
	if path == "" {
		path = "/"
	}

	if path != "/" {
		return textResponse(http.StatusNotFound, "404 page not found")
	}

	switch method {
	case http.MethodPost:
		reply := h.relay.Handle(ctx, h.body(ctx, req))
		return textResponse(http.StatusOK, reply.Text)
	case http.MethodGet, http.MethodHead:
		if h.page == nil {
			return methodNotAllowed(http.MethodPost)
		}
		resp := events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers: map[string]string{
				"Content-Type":           "text/html; charset=utf-8",
				"X-Content-Type-Options": "nosniff",
			},
		}
		if method == http.MethodGet {
			resp.Body = string(h.page)
		}
		return resp
	default:
		if h.page == nil {
			return methodNotAllowed(http.MethodPost)
		}
		return methodNotAllowed("GET, HEAD, POST")
	}
}

// body returns the decoded request body, or nil when it cannot be used.
// Oversize and undecodable bodies are read as empty input, like the HTTP
// server does.
func (h *handler) body(ctx context.Context, req events.APIGatewayV2HTTPRequest) []byte {
	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			h.logger.WarnContext(ctx, "failed to decode request body", "error", err)
			return nil
		}
		raw = decoded
	}

	if h.maxBodyBytes > 0 && int64(len(raw)) > h.maxBodyBytes {
		h.logger.WarnContext(ctx, "request body too large", "limit_bytes", h.maxBodyBytes)
		return nil
	}
	return raw
}

func textResponse(status int, text string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":           proxy.ContentTypeText,
			"Cache-Control":          "no-store",
			"X-Content-Type-Options": "nosniff",
		},
		Body: text,
	}
}

func methodNotAllowed(allow string) events.APIGatewayV2HTTPResponse {
	resp := textResponse(http.StatusMethodNotAllowed, "Method not allowed")
	resp.Headers["Allow"] = allow
	return resp
}

// lowerKeys normalizes header names for the trace propagator, which looks
// up "traceparent" in lower case.
func lowerKeys(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[strings.ToLower(k)] = v
	}
	return out
}
