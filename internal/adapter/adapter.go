// Package adapter runs locally installed AI command-line tools as if they
// were chat-completion providers.
// It uses the Adapter pattern to hide each CLI's flags, prompt channel and
// output format behind a common interface.
package adapter

import (
	"context"
	"time"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
)

const (
	// DefaultTimeout bounds a single CLI execution when none is configured.
	DefaultTimeout = 30 * time.Second

	// ProbeTimeout bounds each availability probe invocation.
	ProbeTimeout = 5 * time.Second

	// MinOutputBytes is the smallest stdout ceiling an adapter will use.
	// Agent CLIs can print long multi-step transcripts.
	MinOutputBytes = 10 << 20

	// DefaultKillGrace is the wait between SIGTERM and a hard kill.
	DefaultKillGrace = 2 * time.Second
)

// CLIAdapter defines the interface every backing CLI implementation satisfies.
// Implementations hold no per-request state and are safe for concurrent use.
type CLIAdapter interface {
	// Execute builds the prompt for messages, runs the CLI once and returns
	// the normalized completion text. Failures are *TimeoutError or
	// *ExecutionError.
	Execute(ctx context.Context, messages []domain.Message) (string, error)

	// IsAvailable reports whether the backing CLI answers a short probe.
	IsAvailable(ctx context.Context) bool

	// Name returns the adapter identifier, e.g. "claude-code".
	Name() string

	// ModelName returns the configured model, or a per-adapter default.
	ModelName() string
}

// Config is the fixed configuration an adapter is constructed with.
type Config struct {
	// Kind selects the adapter implementation.
	Kind domain.AdapterKind

	// RuntimeDir is the working directory of every spawned CLI process.
	// Tool policy files the CLI reads from its cwd live here.
	RuntimeDir string

	// Timeout bounds each Execute call.
	Timeout time.Duration

	// Debug enables diagnostic records of prompts, raw output and duration.
	Debug bool

	// Model is passed to the CLI's model flag when set.
	Model string

	// MaxOutputBytes caps captured stdout. Raised to MinOutputBytes if lower.
	MaxOutputBytes int

	// KillGrace is how long a timed-out process gets after SIGTERM.
	KillGrace time.Duration
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.Kind == "" {
		c.Kind = domain.DefaultAdapterKind
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxOutputBytes < MinOutputBytes {
		c.MaxOutputBytes = MinOutputBytes
	}
	if c.KillGrace <= 0 {
		c.KillGrace = DefaultKillGrace
	}
	return c
}
