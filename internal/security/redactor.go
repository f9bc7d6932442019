// Package security keeps credentials and oversized CLI transcripts out of logs.
package security

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// RedactedPlaceholder replaces sensitive data.
const RedactedPlaceholder = "[REDACTED]"

// DefaultMaxValueLength is the longest string attribute logged before truncation.
const DefaultMaxValueLength = 8 << 10

// sensitivePatterns contains regex patterns for credentials an agent CLI or
// its environment can leak into stderr or debug output.
var sensitivePatterns = []*regexp.Regexp{
	// Provider env assignments: ANTHROPIC_API_KEY=..., OPENAI_API_KEY=...
	regexp.MustCompile(`(?i)\b(ANTHROPIC|OPENAI|GEMINI|GOOGLE|CODEX)_(API_KEY|AUTH_TOKEN)\s*[=:]\s*\S+`),
	// Anthropic keys: sk-ant-...
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{20,}`),
	// OpenAI keys: sk-... and sk-proj-...
	regexp.MustCompile(`sk-(?:proj-)?[a-zA-Z0-9_-]{20,}`),
	// Google AI keys: AIza...
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),
	// OAuth access tokens cached by CLI logins: ya29....
	regexp.MustCompile(`ya29\.[a-zA-Z0-9_.-]{20,}`),
	// Generic Bearer tokens in strings
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_.-]{20,}`),
	// API keys in query params: key=...
	regexp.MustCompile(`key=[a-zA-Z0-9_-]{20,}`),
}

// Redact scans a string for sensitive patterns and replaces them.
func Redact(s string) string {
	result := s
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// Truncate shortens s to at most max bytes on a rune boundary and notes how
// much was dropped. max <= 0 disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...[truncated %d bytes]", s[:cut], len(s)-cut)
}

// HandlerOption configures a RedactedHandler.
type HandlerOption func(*RedactedHandler)

// WithMaxValueLength sets the truncation limit for string attributes.
// Zero disables truncation.
func WithMaxValueLength(n int) HandlerOption {
	return func(h *RedactedHandler) {
		h.maxValueLength = n
	}
}

// RedactedHandler wraps an slog.Handler, redacting credentials and
// truncating long string attributes such as raw CLI output.
type RedactedHandler struct {
	inner          slog.Handler
	maxValueLength int
}

// NewRedactedHandler creates a new handler that wraps an existing handler
// and redacts sensitive data from all log output.
func NewRedactedHandler(inner slog.Handler, opts ...HandlerOption) *RedactedHandler {
	h := &RedactedHandler{inner: inner, maxValueLength: DefaultMaxValueLength}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle processes a log record, redacting sensitive data.
func (h *RedactedHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, Redact(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *RedactedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactedHandler{inner: h.inner.WithAttrs(redacted), maxValueLength: h.maxValueLength}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactedHandler) WithGroup(name string) slog.Handler {
	return &RedactedHandler{inner: h.inner.WithGroup(name), maxValueLength: h.maxValueLength}
}

func (h *RedactedHandler) redactAttr(a slog.Attr) slog.Attr {
	if isSensitiveKey(strings.ToLower(a.Key)) {
		return slog.String(a.Key, RedactedPlaceholder)
	}

	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Truncate(Redact(a.Value.String()), h.maxValueLength))
	case slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, g := range group {
			redacted[i] = h.redactAttr(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindAny:
		if v, ok := a.Value.Any().([]string); ok {
			redacted := make([]string, len(v))
			for i, s := range v {
				redacted[i] = Truncate(Redact(s), h.maxValueLength)
			}
			return slog.Any(a.Key, redacted)
		}
	}

	return a
}

// isSensitiveKey checks if an attribute key is known to contain sensitive data.
func isSensitiveKey(key string) bool {
	sensitiveKeys := []string{
		"authorization",
		"api_key",
		"apikey",
		"api-key",
		"secret",
		"password",
		"bearer",
		"credential",
		"access_token",
		"auth_token",
	}

	for _, k := range sensitiveKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}
