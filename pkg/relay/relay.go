package relay

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"mercator-hq/kotoba/pkg/providers"
	"mercator-hq/kotoba/pkg/providers/openai"
	"mercator-hq/kotoba/pkg/telemetry/logging"
	"mercator-hq/kotoba/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// Upstream error kinds recorded in metrics and spans.
const (
	ErrorKindTransport = "transport"
	ErrorKindTimeout   = "timeout"
	ErrorKindParse     = "parse"
	ErrorKindRequest   = "request"
)

// statusNoResponse labels upstream calls that never produced an HTTP status.
const statusNoResponse = "error"

// Completer sends one chat completion request upstream.
type Completer interface {
	Complete(ctx context.Context, req *openai.ChatRequest) (*openai.ChatResponse, error)
	HasCredential() bool
}

// healthReporter is implemented by completers that track upstream health.
type healthReporter interface {
	GetName() string
	IsHealthy() bool
}

// Recorder receives relay metrics. *metrics.Collector implements it.
type Recorder interface {
	RecordRelay(outcome string, duration time.Duration, messageBytes int)
	RecordUpstream(status string, duration time.Duration)
	RecordUpstreamError(kind string)
	RecordTokens(promptTokens, completionTokens int)
	UpdateProviderHealth(provider string, healthy bool)
}

// Config holds the per-request upstream parameters.
type Config struct {
	// Model is sent as the model of every chat request.
	Model string

	// Temperature is sent as the temperature of every chat request.
	Temperature float64
}

// Options carries optional collaborators. Zero values are replaced with
// no-op implementations.
type Options struct {
	Logger   *slog.Logger
	Recorder Recorder
	Tracer   *tracing.Tracer
}

// Reply is the plain text answer for one request and how it was reached.
type Reply struct {
	Text    string
	Outcome Outcome
}

// Service relays user messages to the upstream chat completion API.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	cfg      Config
	client   Completer
	logger   *slog.Logger
	recorder Recorder
	tracer   *tracing.Tracer
}

// New creates a relay Service.
func New(cfg Config, client Completer, opts Options) *Service {
	s := &Service{
		cfg:      cfg,
		client:   client,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		tracer:   opts.Tracer,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.recorder == nil {
		s.recorder = noopRecorder{}
	}
	if s.tracer == nil {
		s.tracer = tracing.Noop()
	}
	return s
}

// Handle answers one raw request body. It always returns a reply text; every
// failure is reported through Reply.Text and Reply.Outcome rather than an
// error. At most one upstream call is made.
func (s *Service) Handle(ctx context.Context, rawBody []byte) Reply {
	return s.Relay(ctx, ParseMessage(rawBody))
}

// Relay answers an already extracted message.
func (s *Service) Relay(ctx context.Context, message string) Reply {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "relay.handle")
	defer span.End()
	tracing.SetMessageAttributes(span, logging.GetRequestID(ctx), len(message))

	reply, upstreamStatus := s.relay(ctx, message)
	duration := time.Since(start)

	tracing.SetOutcomeAttribute(span, reply.Outcome.String())
	s.recorder.RecordRelay(reply.Outcome.String(), duration, len(message))

	attrs := []slog.Attr{
		slog.String("outcome", reply.Outcome.String()),
		slog.Int("message_bytes", len(message)),
		slog.Int64("duration_ms", duration.Milliseconds()),
	}
	if upstreamStatus != "" {
		attrs = append(attrs, slog.String("upstream_status", upstreamStatus))
	}
	if reply.Outcome == OutcomeTransport || reply.Outcome == OutcomeUpstreamError {
		attrs = append(attrs, slog.String("detail", reply.Text))
	}
	s.logger.LogAttrs(ctx, reply.Outcome.logLevel(), "relay request completed", attrs...)

	return reply
}

// relay runs the pipeline and returns the reply with the upstream status
// label, which is empty when no upstream call was made.
func (s *Service) relay(ctx context.Context, message string) (Reply, string) {
	if strings.TrimSpace(message) == "" {
		return Reply{Text: MsgEmptyInput, Outcome: OutcomeEmptyInput}, ""
	}

	if !s.client.HasCredential() {
		return Reply{Text: MsgMissingCredential, Outcome: OutcomeMissingCredential}, ""
	}

	span := tracing.SpanFromContext(ctx)
	tracing.SetProviderAttributes(span, openai.ProviderName, s.cfg.Model)

	upstreamStart := time.Now()
	resp, err := s.client.Complete(ctx, s.buildRequest(message))
	upstreamDuration := time.Since(upstreamStart)

	s.reportHealth()

	if err != nil {
		return s.classifyError(span, err, upstreamDuration)
	}

	status := strconv.Itoa(resp.StatusCode)
	s.recorder.RecordUpstream(status, upstreamDuration)
	tracing.SetUpstreamStatus(span, resp.StatusCode)
	if resp.Usage != nil {
		tracing.SetTokenAttributes(span, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		s.recorder.RecordTokens(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return classifyResponse(resp), status
}

// buildRequest creates the two-message chat request for message. The user
// message is forwarded verbatim.
func (s *Service) buildRequest(message string) *openai.ChatRequest {
	return &openai.ChatRequest{
		Model: s.cfg.Model,
		Messages: []openai.Message{
			{Role: providers.RoleSystem, Content: SystemPrompt},
			{Role: providers.RoleUser, Content: message},
		},
		Temperature: s.cfg.Temperature,
	}
}

// classifyError maps a failed upstream call to a reply. Transport failures
// are surfaced verbatim; anything else is an unexpected answer.
func (s *Service) classifyError(span trace.Span, err error, duration time.Duration) (Reply, string) {
	var terr *providers.TransportError
	if errors.As(err, &terr) {
		kind := ErrorKindTransport
		if terr.Timeout() {
			kind = ErrorKindTimeout
		}
		s.recorder.RecordUpstreamError(kind)
		s.recorder.RecordUpstream(statusNoResponse, duration)
		tracing.SetErrorAttributes(span, err, kind)
		return Reply{Text: PrefixTransportError + terr.Description(), Outcome: OutcomeTransport}, statusNoResponse
	}

	kind := ErrorKindRequest
	status := statusNoResponse
	var perr *providers.ParseError
	if errors.As(err, &perr) {
		kind = ErrorKindParse
		if perr.StatusCode > 0 {
			status = strconv.Itoa(perr.StatusCode)
			tracing.SetUpstreamStatus(span, perr.StatusCode)
		}
	}
	s.recorder.RecordUpstreamError(kind)
	s.recorder.RecordUpstream(status, duration)
	tracing.SetErrorAttributes(span, err, kind)

	return Reply{Text: MsgUnexpected, Outcome: OutcomeUnexpected}, status
}

// classifyResponse maps a decoded upstream body to a reply. An error
// object takes precedence over any choices.
func classifyResponse(resp *openai.ChatResponse) Reply {
	if resp.HasError() {
		return Reply{Text: PrefixUpstreamError + resp.ErrorMessage(), Outcome: OutcomeUpstreamError}
	}

	if content, ok := resp.FirstContent(); ok {
		return Reply{Text: strings.TrimSpace(content), Outcome: OutcomeOK}
	}

	return Reply{Text: MsgUnexpected, Outcome: OutcomeUnexpected}
}

func (s *Service) reportHealth() {
	if hr, ok := s.client.(healthReporter); ok {
		s.recorder.UpdateProviderHealth(hr.GetName(), hr.IsHealthy())
	}
}

type noopRecorder struct{}

func (noopRecorder) RecordRelay(string, time.Duration, int) {}
func (noopRecorder) RecordUpstream(string, time.Duration)   {}
func (noopRecorder) RecordUpstreamError(string)             {}
func (noopRecorder) RecordTokens(int, int)                  {}
func (noopRecorder) UpdateProviderHealth(string, bool)      {}
