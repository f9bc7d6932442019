// Package domain contains the core business entities and value objects.
package domain

// AdapterKind identifies which backing CLI an adapter shells out to.
type AdapterKind string

const (
	AdapterClaudeCode AdapterKind = "claude-code"
	AdapterGeminiCLI  AdapterKind = "gemini-cli"
	AdapterCodex      AdapterKind = "codex"

	// DefaultAdapterKind is used when configuration does not name one.
	DefaultAdapterKind = AdapterClaudeCode
)

// IsValid checks if the kind is one of the built-in adapters.
func (k AdapterKind) IsValid() bool {
	switch k {
	case AdapterClaudeCode, AdapterGeminiCLI, AdapterCodex:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k AdapterKind) String() string {
	return string(k)
}
