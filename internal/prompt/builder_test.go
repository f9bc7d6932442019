package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpn/hpn-cli-bridge/internal/domain"
)

func user(s string) domain.Message      { return domain.Message{Role: domain.RoleUser, Content: s} }
func assistant(s string) domain.Message { return domain.Message{Role: domain.RoleAssistant, Content: s} }
func system(s string) domain.Message    { return domain.Message{Role: domain.RoleSystem, Content: s} }

// splitPayload separates the history JSON from the current-message content.
// JSON escapes newlines, so the first blank line is always the separator.
func splitPayload(t *testing.T, payload string) ([]historyEntry, string) {
	t.Helper()

	if !strings.HasPrefix(payload, HistoryLabel) {
		require.True(t, strings.HasPrefix(payload, CurrentMessageLabel), "payload: %q", payload)
		return nil, strings.TrimPrefix(payload, CurrentMessageLabel)
	}

	rest := strings.TrimPrefix(payload, HistoryLabel+"\n")
	sep := "\n\n" + CurrentMessageLabel
	idx := strings.Index(rest, sep)
	require.GreaterOrEqual(t, idx, 0, "payload has no current message line: %q", payload)

	var history []historyEntry
	require.NoError(t, json.Unmarshal([]byte(rest[:idx]), &history))
	return history, rest[idx+len(sep):]
}

func TestBuild_SingleTurnHasNoHistory(t *testing.T) {
	tests := []struct {
		name     string
		messages []domain.Message
		current  string
	}{
		{"plain", []domain.Message{user("hello")}, "hello"},
		{"with system", []domain.Message{system("be terse"), user("hi")}, "hi"},
		{"system after user", []domain.Message{user("hi"), system("be terse")}, "hi"},
		{"empty content", []domain.Message{user("")}, ""},
		{"multiline", []domain.Message{user("line one\n\nline two")}, "line one\n\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(tt.messages)
			require.NoError(t, err)

			assert.NotContains(t, p.User, HistoryLabel)
			assert.Equal(t, CurrentMessageLabel+tt.current, p.User)
		})
	}
}

func TestBuild_HistoryHoldsAllButLastTurn(t *testing.T) {
	for n := 2; n <= 7; n++ {
		t.Run(fmt.Sprintf("turns=%d", n), func(t *testing.T) {
			var messages []domain.Message
			if n%2 == 0 {
				messages = append(messages, system("sys"))
			}
			for i := 0; i < n; i++ {
				content := fmt.Sprintf("turn %d <b>&\"quoted\"</b>\nsecond line", i)
				if i%2 == 0 {
					messages = append(messages, user(content))
				} else {
					messages = append(messages, assistant(content))
				}
			}

			p, err := Build(messages)
			require.NoError(t, err)

			turns := domain.Turns(messages)
			history, current := splitPayload(t, p.User)
			require.Len(t, history, n-1)
			for i, h := range history {
				assert.Equal(t, turns[i].Role, h.Role)
				assert.Equal(t, turns[i].Content, h.Content)
			}
			assert.Equal(t, turns[n-1].Content, current)
		})
	}
}

func TestBuild_HistoryFieldOrderIsRoleThenContent(t *testing.T) {
	p, err := Build([]domain.Message{user("a"), assistant("b"), user("c")})
	require.NoError(t, err)

	want := HistoryLabel + "\n" +
		"[\n" +
		"  {\n" +
		"    \"role\": \"user\",\n" +
		"    \"content\": \"a\"\n" +
		"  },\n" +
		"  {\n" +
		"    \"role\": \"assistant\",\n" +
		"    \"content\": \"b\"\n" +
		"  }\n" +
		"]\n\n" +
		CurrentMessageLabel + "c"
	assert.Equal(t, want, p.User)
}

func TestBuild_SystemPrompt(t *testing.T) {
	p, err := Build([]domain.Message{user("hi")})
	require.NoError(t, err)
	assert.Equal(t, ContextInstruction, p.System)

	p, err = Build([]domain.Message{system("You are a pirate."), user("hi")})
	require.NoError(t, err)
	assert.Equal(t, "You are a pirate.\n\n"+ContextInstruction, p.System)
}

func TestBuild_Deterministic(t *testing.T) {
	messages := []domain.Message{system("s"), user("u1"), assistant("a1"), user("u2")}

	first, err := Build(messages)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Build(messages)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuild_EmptyConversation(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrEmptyConversation)

	_, err = Build([]domain.Message{system("only a system prompt")})
	assert.ErrorIs(t, err, ErrEmptyConversation)
}

func TestBuild_FavoriteColorScenario(t *testing.T) {
	p, err := Build([]domain.Message{
		user("My favorite color is blue"),
		assistant("That's nice!"),
		user("What is my favorite color?"),
	})
	require.NoError(t, err)

	assert.Contains(t, p.User, "Conversation history:")
	assert.Contains(t, p.User, "My favorite color is blue")
	assert.Contains(t, strings.Split(p.User, "\n"), "Current user message: What is my favorite color?")
}

func TestPrompt_Combined(t *testing.T) {
	p := Prompt{System: "SYS", User: CurrentMessageLabel + "hi"}
	assert.Equal(t, "System instructions:\nSYS\n\nCurrent user message: hi", p.Combined())
}
