package handler

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"
)

// charsPerToken is the rough characters-per-token ratio used for estimates.
const charsPerToken = 4

// EstimateTokens returns ceil(characters / 4). Zero for empty text.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}

// EstimateUsage estimates prompt tokens over the JSON-serialized request
// messages and completion tokens over the response text.
func EstimateUsage(messages []ChatMessage, completion string) Usage {
	prompt := EstimateTokens(serializeMessages(messages))
	completionTokens := EstimateTokens(completion)
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completionTokens,
		TotalTokens:      prompt + completionTokens,
	}
}

// serializeMessages renders messages as compact JSON without HTML escaping,
// so characters like '<' count once.
func serializeMessages(messages []ChatMessage) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(messages); err != nil {
		return ""
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
