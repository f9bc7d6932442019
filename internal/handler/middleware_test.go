package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpn/hpn-cli-bridge/internal/adapter"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCORSMiddleware(t *testing.T) {
	router := newTestRouter(&fakeAdapter{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/chat/completions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
	assert.Equal(t, RequestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := newTestRouter(&fakeAdapter{panicMsg: "adapter exploded"})

	w := doJSON(t, router, http.MethodPost, "/v1/chat/completions",
		`{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	detail := decodeError(t, w)
	assert.Equal(t, ErrTypeServer, detail.Type)
	assert.Equal(t, "internal_error", detail.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter(&fakeAdapter{available: true})

	w := doJSON(t, router, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := NewChatHandler(&fakeAdapter{text: "ok"}, WithLogger(logger))
	router := NewRouter(h, logger)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions",
		bytes.NewBufferString(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Authorization", "Bearer dummy-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	out := buf.String()
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"completion_id":"chatcmpl-`)
	assert.NotContains(t, out, "dummy-key")
	assert.NotContains(t, out, "error_code")
}

func TestLoggingMiddleware_ErrorLevelAndCode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	fa := &fakeAdapter{err: &adapter.TimeoutError{Adapter: "claude-code", Message: "Claude Code CLI timed out after 10ms"}}
	router := NewRouter(NewChatHandler(fa, WithLogger(logger)), logger)

	w := doJSON(t, router, http.MethodPost, "/v1/chat/completions",
		`{"messages":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusGatewayTimeout, w.Code)

	var line map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &rec))
		if rec["msg"] == "request completed" {
			line = rec
		}
	}
	require.NotNil(t, line)
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, CodeCLITimeout, line["error_code"])

	buf.Reset()
	w = doJSON(t, router, http.MethodPost, "/v1/chat/completions", `{"messages":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"error_code":"invalid_messages"`)
}
