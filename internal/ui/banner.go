// Package ui provides styled console output for the CLI bridge.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Output is where console output goes. Tests replace it with a buffer.
var Output io.Writer = color.Output

// ══════════════════════════════════════════════════════════════════════════════
// ASCII ART BANNER
// ══════════════════════════════════════════════════════════════════════════════

// PrintBanner displays the ASCII art startup banner.
func PrintBanner(version string) {
	fmt.Fprintln(Output)

	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	hiCyan := color.New(color.FgHiCyan)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	cyan.Fprint(Output, "  ")
	hiCyan.Fprint(Output, "██╗  ██╗██████╗ ███╗   ██╗")
	dim.Fprint(Output, "  ")
	magenta.Fprintln(Output, "██████╗ ██████╗ ██╗██████╗  ██████╗ ███████╗")

	cyan.Fprint(Output, "  ")
	hiCyan.Fprint(Output, "██║  ██║██╔══██╗████╗  ██║")
	dim.Fprint(Output, "  ")
	magenta.Fprintln(Output, "██╔══██╗██╔══██╗██║██╔══██╗██╔════╝ ██╔════╝")

	cyan.Fprint(Output, "  ")
	hiCyan.Fprint(Output, "███████║██████╔╝██╔██╗ ██║")
	dim.Fprint(Output, "  ")
	magenta.Fprintln(Output, "██████╔╝██████╔╝██║██║  ██║██║  ███╗█████╗  ")

	cyan.Fprint(Output, "  ")
	hiCyan.Fprint(Output, "██╔══██║██╔═══╝ ██║╚██╗██║")
	dim.Fprint(Output, "  ")
	magenta.Fprintln(Output, "██╔══██╗██╔══██╗██║██║  ██║██║   ██║██╔══╝  ")

	cyan.Fprint(Output, "  ")
	hiCyan.Fprint(Output, "██║  ██║██║     ██║ ╚████║")
	dim.Fprint(Output, "  ")
	magenta.Fprintln(Output, "██████╔╝██║  ██║██║██████╔╝╚██████╔╝███████╗")

	cyan.Fprint(Output, "  ")
	hiCyan.Fprint(Output, "╚═╝  ╚═╝╚═╝     ╚═╝  ╚═══╝")
	dim.Fprint(Output, "  ")
	magenta.Fprintln(Output, "╚═════╝ ╚═╝  ╚═╝╚═╝╚═════╝  ╚═════╝ ╚══════╝")

	fmt.Fprintln(Output)
	cyan.Fprint(Output, "  ")
	yellow.Fprint(Output, "OpenAI-compatible API for local AI CLIs")
	dim.Fprint(Output, "  │  ")
	white.Fprintln(Output, version)

	fmt.Fprintln(Output)
}

// PrintMiniBanner displays a one-line banner for constrained terminals.
func PrintMiniBanner(version string) {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)

	fmt.Fprintln(Output)
	magenta.Fprint(Output, "HPN CLI BRIDGE ")
	cyan.Fprintln(Output, version)
	fmt.Fprintln(Output)
}
