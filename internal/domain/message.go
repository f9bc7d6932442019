// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether the role is one the bridge understands.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is a single role-tagged entry of a conversation.
// Order within a slice is conversation order.
type Message struct {
	// Role is one of: "system", "user", "assistant".
	Role Role `json:"role"`

	// Content is the message text, passed through verbatim.
	Content string `json:"content"`
}

// SystemText returns the content of the first system message, or "" if none.
func SystemText(messages []Message) string {
	for _, m := range messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// Turns returns the non-system messages in their original order.
func Turns(messages []Message) []Message {
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role != RoleSystem {
			turns = append(turns, m)
		}
	}
	return turns
}
