package adapter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.AdapterKind
		wantName string
	}{
		{"default kind", "", "claude-code"},
		{"claude code", domain.AdapterClaudeCode, "claude-code"},
		{"gemini cli", domain.AdapterGeminiCLI, "gemini-cli"},
		{"codex", domain.AdapterCodex, "codex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(Config{Kind: tt.kind})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, a.Name())
		})
	}
}

func TestNew_ConcreteTypes(t *testing.T) {
	a, err := New(Config{Kind: domain.AdapterGeminiCLI})
	require.NoError(t, err)
	assert.IsType(t, &GeminiCLIAdapter{}, a)

	a, err = New(Config{Kind: domain.AdapterCodex})
	require.NoError(t, err)
	assert.IsType(t, &CodexAdapter{}, a)
}

func TestNew_UnknownKind(t *testing.T) {
	a, err := New(Config{Kind: "cursor-agent"})
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, IsUnknownAdapter(err))

	var ue *UnknownAdapterError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "cursor-agent", ue.Kind)
	assert.Contains(t, err.Error(), "claude-code, codex, gemini-cli")
}

func TestNew_AppliesOptions(t *testing.T) {
	a, err := New(Config{Kind: domain.AdapterCodex}, WithBinary("/opt/bin/codex"))
	require.NoError(t, err)

	codex, ok := a.(*CodexAdapter)
	require.True(t, ok)
	assert.Equal(t, "/opt/bin/codex", codex.Binary())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []domain.AdapterKind{
		domain.AdapterClaudeCode,
		domain.AdapterCodex,
		domain.AdapterGeminiCLI,
	}, Kinds())
}

func TestProbeAll(t *testing.T) {
	ok := newFakeCLI(t, "exit 0")
	missing := filepath.Join(t.TempDir(), "missing")

	adapters := []CLIAdapter{
		NewClaudeCodeAdapter(Config{}, WithBinary(ok.path)),
		NewGeminiCLIAdapter(Config{Model: "gemini-2.5-pro"}, WithBinary(missing)),
		NewCodexAdapter(Config{}, WithBinary(ok.path)),
	}

	results := ProbeAll(context.Background(), adapters)
	require.Len(t, results, 3)

	assert.Equal(t, ProbeResult{Adapter: "claude-code", Model: "claude-code", Available: true}, results[0])
	assert.Equal(t, ProbeResult{Adapter: "gemini-cli", Model: "gemini-2.5-pro", Available: false}, results[1])
	assert.Equal(t, ProbeResult{Adapter: "codex", Model: "codex", Available: true}, results[2])
}

func TestRequireAvailable(t *testing.T) {
	ok := newFakeCLI(t, "exit 0")
	assert.NoError(t, RequireAvailable(context.Background(), NewClaudeCodeAdapter(Config{}, WithBinary(ok.path))))

	missing := filepath.Join(t.TempDir(), "missing")
	err := RequireAvailable(context.Background(), NewCodexAdapter(Config{}, WithBinary(missing)))
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))

	var ue *UnavailableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "codex", ue.Adapter)
	assert.Equal(t, missing, ue.Binary)
}
