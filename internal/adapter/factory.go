package adapter

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
)

// maxConcurrentProbes limits how many probe processes run at once.
const maxConcurrentProbes = 4

// Constructor builds an adapter from config.
type Constructor func(cfg Config, opts ...Option) CLIAdapter

var registry = map[domain.AdapterKind]Constructor{
	domain.AdapterClaudeCode: func(cfg Config, opts ...Option) CLIAdapter {
		return NewClaudeCodeAdapter(cfg, opts...)
	},
	domain.AdapterGeminiCLI: func(cfg Config, opts ...Option) CLIAdapter {
		return NewGeminiCLIAdapter(cfg, opts...)
	},
	domain.AdapterCodex: func(cfg Config, opts ...Option) CLIAdapter {
		return NewCodexAdapter(cfg, opts...)
	},
}

// New creates the adapter selected by cfg.Kind. An empty kind selects
// domain.DefaultAdapterKind. Unknown kinds fail with *UnknownAdapterError.
func New(cfg Config, opts ...Option) (CLIAdapter, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = domain.DefaultAdapterKind
	}

	ctor, ok := registry[kind]
	if !ok {
		known := make([]string, 0, len(registry))
		for _, k := range Kinds() {
			known = append(known, k.String())
		}
		return nil, &UnknownAdapterError{Kind: string(kind), Known: known}
	}

	cfg.Kind = kind
	return ctor(cfg, opts...), nil
}

// Kinds returns every registered adapter kind, sorted.
func Kinds() []domain.AdapterKind {
	kinds := make([]domain.AdapterKind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ProbeResult is the availability of one adapter.
type ProbeResult struct {
	Adapter   string
	Model     string
	Available bool
}

// ProbeAll runs IsAvailable on every adapter concurrently. Results keep the
// order of adapters.
func ProbeAll(ctx context.Context, adapters []CLIAdapter) []ProbeResult {
	results := make([]ProbeResult, len(adapters))

	var g errgroup.Group
	g.SetLimit(maxConcurrentProbes)
	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			results[i] = ProbeResult{
				Adapter:   a.Name(),
				Model:     a.ModelName(),
				Available: a.IsAvailable(ctx),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// RequireAvailable probes a and returns *UnavailableError if it does not answer.
func RequireAvailable(ctx context.Context, a CLIAdapter) error {
	if a.IsAvailable(ctx) {
		return nil
	}
	binary := a.Name()
	if b, ok := a.(interface{ Binary() string }); ok {
		binary = b.Binary()
	}
	slog.Warn("adapter unavailable", slog.String("adapter", a.Name()), slog.String("binary", binary))
	return &UnavailableError{Adapter: a.Name(), Binary: binary}
}
