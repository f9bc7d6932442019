// Package ui provides styled console output for the CLI bridge.
// It prints startup information, probe tables and shutdown messages with
// colorized status badges.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hpn/hpn-cli-bridge/internal/adapter"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR DEFINITIONS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Badge colors
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	errorBadge   = color.New(color.BgRed, color.FgWhite, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)

	// Text colors
	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	infoText    = color.New(color.FgCyan)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)
	neonBlue    = color.New(color.FgHiCyan, color.Bold)

	// Method colors
	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// PrintInfo logs general bridge information.
// Format: [BRIDGE] message
func PrintInfo(msg string) {
	infoBadge.Fprint(Output, "[BRIDGE]")
	fmt.Fprint(Output, " ")
	infoText.Fprintln(Output, msg)
}

// PrintWarning logs a non-fatal problem.
// Format: [WARN] message
func PrintWarning(msg string) {
	warningBadge.Fprint(Output, "[WARN]")
	fmt.Fprint(Output, " ")
	warningText.Fprintln(Output, msg)
}

// PrintError logs a fatal problem.
// Format: [ERROR] message
func PrintError(msg string) {
	errorBadge.Fprint(Output, " ERROR ")
	fmt.Fprint(Output, " ")
	errorText.Fprintln(Output, msg)
}

// ══════════════════════════════════════════════════════════════════════════════
// STARTUP MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// StartupInfo is what the serve command reports once the server is ready.
type StartupInfo struct {
	Address    string
	Adapter    string
	Model      string
	RuntimeDir string
	Timeout    time.Duration
	Available  bool
	Debug      bool
}

// PrintStartupInfo prints styled server startup information.
func PrintStartupInfo(info StartupInfo) {
	fmt.Fprintln(Output)
	infoBadge.Fprint(Output, "[BRIDGE]")
	fmt.Fprint(Output, " Server starting on ")
	neonBlue.Fprintf(Output, "http://%s\n", info.Address)

	infoBadge.Fprint(Output, "[BRIDGE]")
	fmt.Fprint(Output, " Adapter: ")
	accentText.Fprint(Output, info.Adapter)
	fmt.Fprint(Output, " | Model: ")
	accentText.Fprint(Output, info.Model)
	fmt.Fprint(Output, " | CLI: ")
	printAvailability(info.Available)
	fmt.Fprintln(Output)

	infoBadge.Fprint(Output, "[BRIDGE]")
	fmt.Fprint(Output, " Runtime dir: ")
	mutedText.Fprint(Output, info.RuntimeDir)
	fmt.Fprint(Output, " | Timeout: ")
	mutedText.Fprint(Output, info.Timeout)
	if info.Debug {
		fmt.Fprint(Output, " | ")
		warningText.Fprint(Output, "debug diagnostics on")
	}
	fmt.Fprintln(Output)

	fmt.Fprintln(Output)
	printEndpoints()
}

// printEndpoints prints the available API endpoints.
func printEndpoints() {
	mutedText.Fprintln(Output, "  ┌─────────────────────────────────────────────────────────┐")
	mutedText.Fprint(Output, "  │ ")
	methodPOST.Fprint(Output, " POST ")
	fmt.Fprint(Output, " /v1/chat/completions ")
	mutedText.Fprint(Output, "  Chat completion (OpenAI-compatible)")
	mutedText.Fprintln(Output, " │")

	mutedText.Fprint(Output, "  │ ")
	methodGET.Fprint(Output, " GET  ")
	fmt.Fprint(Output, " /v1/models           ")
	mutedText.Fprint(Output, "  Configured model                 ")
	mutedText.Fprintln(Output, " │")

	mutedText.Fprint(Output, "  │ ")
	methodGET.Fprint(Output, " GET  ")
	fmt.Fprint(Output, " /health              ")
	mutedText.Fprint(Output, "  CLI availability                 ")
	mutedText.Fprintln(Output, " │")

	mutedText.Fprintln(Output, "  └─────────────────────────────────────────────────────────┘")
	fmt.Fprintln(Output)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROBE RESULTS
// ══════════════════════════════════════════════════════════════════════════════

// PrintProbeResults prints one row per adapter and marks the configured one.
func PrintProbeResults(results []adapter.ProbeResult, configured string) {
	width := len("ADAPTER")
	for _, r := range results {
		if len(r.Adapter) > width {
			width = len(r.Adapter)
		}
	}

	fmt.Fprintln(Output)
	mutedText.Fprintf(Output, "  %-*s  %-9s  %s\n", width, "ADAPTER", "STATUS", "MODEL")
	mutedText.Fprintf(Output, "  %s\n", strings.Repeat("─", width+2+9+2+5))

	for _, r := range results {
		fmt.Fprintf(Output, "  %-*s  ", width, r.Adapter)
		if r.Available {
			successText.Fprintf(Output, "%-9s", "available")
		} else {
			errorText.Fprintf(Output, "%-9s", "missing")
		}
		fmt.Fprintf(Output, "  %s", r.Model)
		if r.Adapter == configured {
			accentText.Fprint(Output, "  (configured)")
		}
		fmt.Fprintln(Output)
	}
	fmt.Fprintln(Output)
}

// printAvailability prints a colored availability badge.
func printAvailability(available bool) {
	if available {
		successBadge.Fprint(Output, " AVAILABLE ")
		return
	}
	errorBadge.Fprint(Output, " UNAVAILABLE ")
}

// ══════════════════════════════════════════════════════════════════════════════
// SHUTDOWN MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Fprintln(Output)
	warningBadge.Fprint(Output, "[SHUTDOWN]")
	warningText.Fprintln(Output, " Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successBadge.Fprint(Output, " OK ")
	fmt.Fprint(Output, " ")
	successText.Fprintln(Output, "Server stopped. Goodbye! 👋")
}
