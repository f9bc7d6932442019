package adapter

import (
	"context"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
	"github.com/hpn/hpn-cli-bridge/internal/normalize"
	"github.com/hpn/hpn-cli-bridge/internal/prompt"
)

// CodexAdapter drives `codex exec` non-interactively. The trailing "-"
// makes codex read the combined prompt from stdin.
type CodexAdapter struct {
	BaseAdapter
}

// NewCodexAdapter creates a CodexAdapter.
func NewCodexAdapter(cfg Config, opts ...Option) *CodexAdapter {
	return &CodexAdapter{
		BaseAdapter: newBase(cfg, string(domain.AdapterCodex), "codex", "Codex CLI",
			normalize.ModePlain, [][]string{{"--version"}}, opts),
	}
}

// Execute runs one completion through codex exec.
func (c *CodexAdapter) Execute(ctx context.Context, messages []domain.Message) (string, error) {
	return c.execute(ctx, messages, c.invocation)
}

func (c *CodexAdapter) invocation(p prompt.Prompt) Invocation {
	args := []string{"exec", "--skip-git-repo-check", "--color", "never"}
	if c.cfg.Model != "" {
		args = append(args, "-m", c.cfg.Model)
	}
	args = append(args, "-")
	return Invocation{Args: args, Stdin: p.Combined()}
}
