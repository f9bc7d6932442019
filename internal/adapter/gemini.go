package adapter

import (
	"context"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
	"github.com/hpn/hpn-cli-bridge/internal/normalize"
	"github.com/hpn/hpn-cli-bridge/internal/prompt"
)

// GeminiCLIAdapter drives the `gemini` CLI with JSON output.
// Gemini has no system-prompt flag, so the system prompt is folded into
// the -p argument.
type GeminiCLIAdapter struct {
	BaseAdapter
}

// NewGeminiCLIAdapter creates a GeminiCLIAdapter.
// Older gemini builds lack --version, so the probe falls back to a tiny prompt.
func NewGeminiCLIAdapter(cfg Config, opts ...Option) *GeminiCLIAdapter {
	return &GeminiCLIAdapter{
		BaseAdapter: newBase(cfg, string(domain.AdapterGeminiCLI), "gemini", "Gemini CLI",
			normalize.ModeStructured, [][]string{{"--version"}, {"-p", "ping"}}, opts),
	}
}

// Execute runs one completion through the gemini CLI.
func (g *GeminiCLIAdapter) Execute(ctx context.Context, messages []domain.Message) (string, error) {
	return g.execute(ctx, messages, g.invocation)
}

func (g *GeminiCLIAdapter) invocation(p prompt.Prompt) Invocation {
	args := []string{"--output-format", "json"}
	if g.cfg.Model != "" {
		args = append(args, "-m", g.cfg.Model)
	}
	args = append(args, "-p", p.Combined())
	return Invocation{Args: args}
}
