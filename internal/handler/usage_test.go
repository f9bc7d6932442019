package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"Hello there", 3},
		{"héllo", 2},
		{"日本語の文", 2},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.text))
		})
	}
}

func TestEstimateUsage(t *testing.T) {
	messages := []ChatMessage{{Role: "user", Content: "a<b"}}

	// [{"role":"user","content":"a<b"}] is 33 characters; '<' is not escaped.
	got := EstimateUsage(messages, "12345678")
	assert.Equal(t, Usage{PromptTokens: 9, CompletionTokens: 2, TotalTokens: 11}, got)
}
