package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpn/hpn-cli-bridge/internal/adapter"
	"github.com/hpn/hpn-cli-bridge/internal/config"
	"github.com/hpn/hpn-cli-bridge/internal/domain"
	"github.com/hpn/hpn-cli-bridge/internal/ui"
)

func newProbeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check which AI CLIs are installed and answering",
		Long: `Probe every supported CLI concurrently and print a table.
Exits non-zero when the configured adapter is unavailable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfigWithFlags(opts.configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			adapters, err := probeTargets(cfg)
			if err != nil {
				return err
			}

			results := adapter.ProbeAll(cmd.Context(), adapters)
			ui.PrintProbeResults(results, cfg.Adapter.Kind)

			for _, r := range results {
				if r.Adapter == cfg.Adapter.Kind && !r.Available {
					return fmt.Errorf("configured adapter %q is unavailable", r.Adapter)
				}
			}
			return nil
		},
	}
}

// probeTargets builds one adapter per registered kind. Model and binary
// overrides only apply to the configured kind.
func probeTargets(cfg *config.Configuration) ([]adapter.CLIAdapter, error) {
	base := cfg.AdapterSettings()
	configured := domain.AdapterKind(cfg.Adapter.Kind)

	kinds := adapter.Kinds()
	adapters := make([]adapter.CLIAdapter, 0, len(kinds))
	for _, kind := range kinds {
		settings := base
		settings.Kind = kind

		var opts []adapter.Option
		if kind == configured {
			opts = append(opts, adapter.WithBinary(cfg.Adapter.Binary))
		} else {
			settings.Model = ""
		}

		a, err := adapter.New(settings, opts...)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}
