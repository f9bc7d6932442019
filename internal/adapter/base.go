package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
	"github.com/hpn/hpn-cli-bridge/internal/normalize"
	"github.com/hpn/hpn-cli-bridge/internal/prompt"
)

// probeOutputBytes caps stdout captured from a probe.
const probeOutputBytes = 64 << 10

// Option is a functional option shared by all adapters.
type Option func(*BaseAdapter)

// WithLogger sets the logger used for diagnostics and failure records.
func WithLogger(logger *slog.Logger) Option {
	return func(b *BaseAdapter) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithBinary overrides the executable name or path that is spawned.
func WithBinary(path string) Option {
	return func(b *BaseAdapter) {
		if path != "" {
			b.binary = path
		}
	}
}

// Invocation is the argv and stdin for a single CLI run.
type Invocation struct {
	Args  []string
	Stdin string
}

// BaseAdapter carries what every CLI adapter shares: config, the binary to
// spawn, the output mode and the probe argv sets.
type BaseAdapter struct {
	name         string
	binary       string
	defaultModel string
	label        string
	mode         normalize.Mode
	probes       [][]string
	cfg          Config
	logger       *slog.Logger
}

func newBase(cfg Config, name, binary, label string, mode normalize.Mode, probes [][]string, opts []Option) BaseAdapter {
	b := BaseAdapter{
		name:         name,
		binary:       binary,
		defaultModel: name,
		label:        label,
		mode:         mode,
		probes:       probes,
		cfg:          cfg.withDefaults(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.logger = b.logger.With(slog.String("adapter", name))
	return b
}

// Name returns the adapter identifier.
func (b *BaseAdapter) Name() string {
	return b.name
}

// ModelName returns the configured model or the adapter default.
func (b *BaseAdapter) ModelName() string {
	if b.cfg.Model != "" {
		return b.cfg.Model
	}
	return b.defaultModel
}

// Binary returns the executable that will be spawned.
func (b *BaseAdapter) Binary() string {
	return b.binary
}

// IsAvailable resolves the binary on PATH, then tries each probe argv set
// in order. The first one that exits cleanly within ProbeTimeout wins.
func (b *BaseAdapter) IsAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath(b.binary); err != nil {
		b.logger.Debug("cli not found", slog.String("binary", b.binary), slog.String("error", err.Error()))
		return false
	}

	for _, args := range b.probes {
		_, err := run(ctx, command{
			Binary:    b.binary,
			Args:      args,
			Dir:       b.cfg.RuntimeDir,
			Timeout:   ProbeTimeout,
			MaxOutput: probeOutputBytes,
			KillGrace: b.cfg.KillGrace,
		})
		if err == nil {
			return true
		}
		b.logger.Debug("cli probe failed",
			slog.Any("args", args),
			slog.String("error", err.Error()),
		)
	}
	return false
}

// execute runs the shared pipeline: build prompt, spawn, classify, normalize.
func (b *BaseAdapter) execute(ctx context.Context, messages []domain.Message, invoke func(prompt.Prompt) Invocation) (string, error) {
	p, err := prompt.Build(messages)
	if err != nil {
		return "", &ExecutionError{Adapter: b.name, Err: err, ExitCode: -1}
	}

	inv := invoke(p)
	if b.cfg.Debug {
		b.logger.DebugContext(ctx, "cli prompt",
			slog.String("system_prompt", p.System),
			slog.String("user_payload", p.User),
		)
	}

	res, err := run(ctx, command{
		Binary:    b.binary,
		Args:      inv.Args,
		Stdin:     inv.Stdin,
		Dir:       b.cfg.RuntimeDir,
		Timeout:   b.cfg.Timeout,
		MaxOutput: b.cfg.MaxOutputBytes,
		KillGrace: b.cfg.KillGrace,
	})

	if b.cfg.Debug {
		b.logger.DebugContext(ctx, "cli output",
			slog.String("raw_output", res.Stdout),
			slog.Int("exit_code", res.ExitCode),
			slog.Duration("duration", res.Duration),
		)
	}

	if err != nil {
		return "", b.classify(ctx, err, res)
	}
	return normalize.Normalize(res.Stdout, b.mode), nil
}

// classify maps a runner failure onto TimeoutError or ExecutionError.
func (b *BaseAdapter) classify(ctx context.Context, err error, res runResult) error {
	if res.TimedOut {
		b.logger.WarnContext(ctx, "cli timed out",
			slog.Duration("timeout", b.cfg.Timeout),
			slog.Duration("duration", res.Duration),
		)
		return &TimeoutError{
			Adapter: b.name,
			Timeout: b.cfg.Timeout,
			Message: fmt.Sprintf("%s timed out after %dms", b.label, b.cfg.Timeout.Milliseconds()),
		}
	}

	b.logger.WarnContext(ctx, "cli execution failed",
		slog.String("error", err.Error()),
		slog.Int("exit_code", res.ExitCode),
		slog.String("stderr", res.Stderr),
	)
	return &ExecutionError{
		Adapter:  b.name,
		Err:      err,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}
}
