// Package main is the entry point for hpn-cli-bridge, an OpenAI-compatible
// HTTP server backed by locally installed AI command-line tools.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hpn/hpn-cli-bridge/internal/ui"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serve := &serveOptions{root: opts}

	rootCmd := &cobra.Command{
		Use:   "hpn-cli-bridge",
		Short: "OpenAI-compatible chat completions backed by local AI CLIs",
		Long: `hpn-cli-bridge exposes an OpenAI-compatible /v1/chat/completions endpoint
and answers each request by running a locally installed AI CLI (Claude Code,
Gemini CLI or Codex) once in non-interactive mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, serve)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (default: search ./config.yaml, ./configs, /etc/hpn-cli-bridge)")
	flags.String("host", "0.0.0.0", "bind address")
	flags.IntP("port", "p", 8000, "listen port")
	flags.StringP("adapter", "a", "claude-code", "adapter kind: claude-code, gemini-cli or codex")
	flags.String("model", "", "model passed to the CLI's model flag")
	flags.Int("timeout-ms", 30000, "per-request CLI timeout in milliseconds")
	flags.String("runtime-dir", ".", "working directory for spawned CLI processes")
	flags.Bool("debug", false, "log prompts, raw CLI output and durations")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	rootCmd.Flags().BoolVar(&serve.requireAvailable, "require-available", false, "exit if the configured CLI does not answer its probe")

	rootCmd.AddCommand(newServeCmd(serve))
	rootCmd.AddCommand(newProbeCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
