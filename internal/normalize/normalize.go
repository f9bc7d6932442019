// Package normalize turns raw CLI output into the plain completion text
// returned to HTTP clients.
package normalize

import (
	"regexp"
	"strings"
)

// Mode selects how raw output is interpreted.
type Mode int

const (
	// ModePlain strips terminal artifacts and trims.
	ModePlain Mode = iota

	// ModeStructured parses JSON output first and falls back to ModePlain.
	ModeStructured
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeStructured:
		return "structured"
	default:
		return "unknown"
	}
}

var (
	// ansiPattern matches CSI sequences (colors, cursor movement) and
	// OSC sequences terminated by BEL or ST.
	ansiPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|[\x1b\x9b][[()#;?]*(?:[0-9]{1,4}(?:;[0-9]{0,4})*)?[0-9A-ORZcf-nqrtuy=><]`)

	// redrawPattern matches a line fragment overwritten by a carriage return.
	redrawPattern = regexp.MustCompile(`[^\n]*\r`)

	// spinnerLine matches lines holding nothing but spinner glyphs.
	spinnerLine = regexp.MustCompile(`(?m)^[ \t]*[⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏⣾⣽⣻⢿⡿⣟⣯⣷◐◓◑◒][ \t⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏⣾⣽⣻⢿⡿⣟⣯⣷◐◓◑◒]*$\n?`)
)

// Normalize cleans raw output according to mode.
func Normalize(raw string, mode Mode) string {
	if mode == ModeStructured {
		return Structured(raw)
	}
	return Plain(raw)
}

// StripANSI removes terminal escape sequences. Removing one sequence can
// join the bytes around it into another, so it repeats until nothing matches.
func StripANSI(s string) string {
	for {
		next := ansiPattern.ReplaceAllString(s, "")
		if next == s {
			return s
		}
		s = next
	}
}

// Plain strips escape sequences, carriage-return redraw fragments and
// spinner-only lines, then trims surrounding whitespace. Plain is idempotent.
func Plain(raw string) string {
	s := StripANSI(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = redrawPattern.ReplaceAllString(s, "")
	s = spinnerLine.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
