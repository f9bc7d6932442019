package adapter

import (
	"context"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
	"github.com/hpn/hpn-cli-bridge/internal/normalize"
	"github.com/hpn/hpn-cli-bridge/internal/prompt"
)

// ClaudeCodeAdapter drives the `claude` CLI in print mode.
// The system prompt goes through --system-prompt and the user payload
// through stdin, so long histories never hit argv limits.
type ClaudeCodeAdapter struct {
	BaseAdapter
}

// NewClaudeCodeAdapter creates a ClaudeCodeAdapter.
func NewClaudeCodeAdapter(cfg Config, opts ...Option) *ClaudeCodeAdapter {
	return &ClaudeCodeAdapter{
		BaseAdapter: newBase(cfg, string(domain.AdapterClaudeCode), "claude", "Claude Code CLI",
			normalize.ModePlain, [][]string{{"--version"}}, opts),
	}
}

// Execute runs one completion through the claude CLI.
func (c *ClaudeCodeAdapter) Execute(ctx context.Context, messages []domain.Message) (string, error) {
	return c.execute(ctx, messages, c.invocation)
}

func (c *ClaudeCodeAdapter) invocation(p prompt.Prompt) Invocation {
	args := []string{"--system-prompt", p.System, "-p"}
	if c.cfg.Model != "" {
		args = append(args, "--model", c.cfg.Model)
	}
	return Invocation{Args: args, Stdin: p.User}
}
