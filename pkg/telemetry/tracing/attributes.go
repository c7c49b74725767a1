package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys. Relay attributes live under "kotoba.*". The message
// text is never recorded, only its size.
const (
	AttrProvider = "kotoba.provider"
	AttrModel    = "kotoba.model"

	AttrRequestID    = "kotoba.request_id"
	AttrMessageBytes = "kotoba.message.bytes"
	AttrOutcome      = "kotoba.outcome"

	AttrUpstreamStatus = "kotoba.upstream.status"

	AttrTokensPrompt     = "kotoba.tokens.prompt"
	AttrTokensCompletion = "kotoba.tokens.completion"
	AttrTokensTotal      = "kotoba.tokens.total"

	AttrErrorType = "kotoba.error.type"
)

// SetProviderAttributes sets provider-related attributes on a span.
//
// Example:
//
//	SetProviderAttributes(span, "openai", "gpt-5-mini")
func SetProviderAttributes(span trace.Span, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetMessageAttributes records the request ID and the size of the
// user message in bytes.
func SetMessageAttributes(span trace.Span, requestID string, messageBytes int) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrMessageBytes, messageBytes),
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)
}

// SetOutcomeAttribute records how the relay classified the request.
func SetOutcomeAttribute(span trace.Span, outcome string) {
	span.SetAttributes(attribute.String(AttrOutcome, outcome))
}

// SetUpstreamStatus records the HTTP status returned by the upstream API.
func SetUpstreamStatus(span trace.Span, status int) {
	span.SetAttributes(attribute.Int(AttrUpstreamStatus, status))
}

// SetTokenAttributes sets token count attributes on a span.
//
// Example:
//
//	SetTokenAttributes(span, 1500, 500)
func SetTokenAttributes(span trace.Span, promptTokens, completionTokens int) {
	span.SetAttributes(
		attribute.Int(AttrTokensPrompt, promptTokens),
		attribute.Int(AttrTokensCompletion, completionTokens),
		attribute.Int(AttrTokensTotal, promptTokens+completionTokens),
	)
}

// SetErrorAttributes records err with a classification and marks the span
// failed.
//
// Example:
//
//	SetErrorAttributes(span, err, "transport")
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
