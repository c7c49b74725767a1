package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log values.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			// Bearer first, so the token inside is not half-masked by the key pattern.
			{
				name:        PatternBearerToken,
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				name:        PatternAPIKey,
				regex:       regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{8,}`),
				replacement: "sk-***",
			},
			{
				name:        PatternPassword,
				regex:       regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s]+`),
				replacement: "$1: ***",
			},
		},
	}
}

// RedactString redacts credentials from a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// RedactAttr returns a with sensitive content masked. Groups are walked
// recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, redactValue(v.String()))
		}
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, "***")
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// isSensitiveKey checks if a key name indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "secret", "token",
		"api_key", "apikey", "authorization",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// redactValue redacts a sensitive value completely, keeping a short prefix
// for identification.
func redactValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:3] + "***"
}

// RedactingHandler is a slog.Handler that passes every attribute through a
// Redactor before the next handler sees it.
type RedactingHandler struct {
	next     slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps next.
func NewRedactingHandler(next slog.Handler, redactor *Redactor) *RedactingHandler {
	return &RedactingHandler{next: next, redactor: redactor}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.redactor.RedactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactor.RedactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactor.RedactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name), redactor: h.redactor}
}
