// Package prompt turns an OpenAI-style message list into the text a
// non-interactive CLI invocation expects.
//
// A CLI call is single-shot, so multi-turn context is carried by serializing
// every turn except the last into a JSON history block inside the user
// payload. The output is a pure function of the input messages.
package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
)

const (
	// ContextInstruction is always part of the effective system prompt.
	ContextInstruction = "You are answering one turn of an ongoing conversation. " +
		"When earlier turns exist they are provided as a JSON array under " +
		"\"Conversation history:\", each entry holding a role and content, oldest first. " +
		"Use that history to interpret the current user message and reply only to the current user message."

	// HistoryLabel prefixes the serialized history block.
	HistoryLabel = "Conversation history:"

	// CurrentMessageLabel prefixes the last turn's content.
	CurrentMessageLabel = "Current user message: "

	// SystemInstructionsLabel prefixes the system prompt in combined mode.
	SystemInstructionsLabel = "System instructions:\n"
)

// ErrEmptyConversation is returned when the message list holds no
// non-system message. The HTTP layer rejects such requests before they get here.
var ErrEmptyConversation = errors.New("prompt: conversation has no user or assistant messages")

// Prompt is the built payload, split by channel.
type Prompt struct {
	// System is the effective system prompt.
	System string

	// User holds the optional history block and the current message line.
	User string
}

// Combined folds the system prompt into a single string for CLIs that have no
// separate system-prompt channel.
func (p Prompt) Combined() string {
	var b strings.Builder
	b.Grow(len(SystemInstructionsLabel) + len(p.System) + len(p.User) + 2)
	b.WriteString(SystemInstructionsLabel)
	b.WriteString(p.System)
	b.WriteString("\n\n")
	b.WriteString(p.User)
	return b.String()
}

// historyEntry fixes the serialized field order to role, content.
type historyEntry struct {
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
}

// Build produces the effective system prompt and user payload for messages.
func Build(messages []domain.Message) (Prompt, error) {
	turns := domain.Turns(messages)
	if len(turns) == 0 {
		return Prompt{}, ErrEmptyConversation
	}

	var user strings.Builder
	if history := turns[:len(turns)-1]; len(history) > 0 {
		block, err := serializeHistory(history)
		if err != nil {
			return Prompt{}, err
		}
		user.WriteString(HistoryLabel)
		user.WriteString("\n")
		user.WriteString(block)
		user.WriteString("\n\n")
	}
	user.WriteString(CurrentMessageLabel)
	user.WriteString(turns[len(turns)-1].Content)

	return Prompt{
		System: SystemPrompt(domain.SystemText(messages)),
		User:   user.String(),
	}, nil
}

// SystemPrompt composes the caller's system text with ContextInstruction.
func SystemPrompt(base string) string {
	if base == "" {
		return ContextInstruction
	}
	return base + "\n\n" + ContextInstruction
}

// serializeHistory renders turns as an indented JSON array. HTML escaping is
// disabled so content such as "<div>" or "a && b" survives byte-for-byte.
func serializeHistory(turns []domain.Message) (string, error) {
	entries := make([]historyEntry, len(turns))
	for i, m := range turns {
		entries[i] = historyEntry{Role: m.Role, Content: m.Content}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return "", fmt.Errorf("prompt: failed to serialize history: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
