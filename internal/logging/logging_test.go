package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpn/hpn-cli-bridge/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_Formats(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer

	New(&jsonBuf, slog.LevelInfo, "json").Info("hello", slog.String("adapter", "codex"))
	New(&textBuf, slog.LevelInfo, "text").Info("hello", slog.String("adapter", "codex"))

	assert.Contains(t, jsonBuf.String(), `"msg":"hello"`)
	assert.Contains(t, jsonBuf.String(), `"adapter":"codex"`)
	assert.Contains(t, textBuf.String(), "msg=hello")
	assert.Contains(t, textBuf.String(), "adapter=codex")
}

func TestNew_Redacts(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, "json").Warn("cli execution failed",
		slog.String("stderr", "OPENAI_API_KEY=sk-live-secret rejected"))

	assert.NotContains(t, buf.String(), "sk-live-secret")
	assert.Contains(t, buf.String(), "rejected")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, "json")

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetup_File(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "logs", "bridge.log")
	cfg := &config.Configuration{
		Logging: config.LoggingConfig{Level: "info", Format: "json", OutputPath: path, MaxSizeMB: 1},
	}

	logger, closeFn, err := Setup(cfg)
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestSetup_DebugAdapterForcesDebugLevel(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "bridge.log")
	cfg := &config.Configuration{
		Adapter: config.AdapterConfig{Debug: true},
		Logging: config.LoggingConfig{Level: "warn", OutputPath: path},
	}

	logger, closeFn, err := Setup(cfg)
	require.NoError(t, err)

	logger.Debug("cli prompt")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "cli prompt"))
}

func TestSetup_MaxValueBytes(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	transcript := strings.Repeat("x", 20<<10)
	tests := []struct {
		name      string
		limit     int
		truncated bool
	}{
		{"limited", 1024, true},
		{"unlimited", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bridge.log")
			cfg := &config.Configuration{
				Adapter: config.AdapterConfig{Debug: true},
				Logging: config.LoggingConfig{Format: "json", OutputPath: path, MaxValueBytes: tt.limit},
			}

			logger, closeFn, err := Setup(cfg)
			require.NoError(t, err)
			logger.Debug("cli output", slog.String("raw_output", transcript))
			require.NoError(t, closeFn())

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, !tt.truncated, strings.Contains(string(data), transcript))
			assert.Equal(t, tt.truncated, strings.Contains(string(data), "[truncated"))
		})
	}
}
