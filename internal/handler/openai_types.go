// Package handler provides the OpenAI-compatible HTTP layer of the bridge.
package handler

// OpenAI-compatible request/response types.
// Only the fields the bridge understands are modeled; sampling parameters are
// accepted and ignored because the backing CLIs do not expose them.

// ChatCompletionRequest represents an OpenAI chat completion request.
type ChatCompletionRequest struct {
	// Model is echoed back in the response. The CLI model comes from config.
	Model string `json:"model"`

	// Messages contains the conversation, oldest first.
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`

	// Temperature is accepted for compatibility. Ignored.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens is accepted for compatibility. Ignored.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Stream must be false; streaming responses are not supported.
	Stream bool `json:"stream,omitempty"`

	// User is a unique identifier for the end-user. Optional.
	User string `json:"user,omitempty"`
}

// ChatMessage represents a single message in the conversation.
type ChatMessage struct {
	// Role is one of: "system", "user", "assistant".
	Role string `json:"role" binding:"required,oneof=system user assistant"`

	// Content is the message text content.
	Content string `json:"content"`
}

// ChatCompletionResponse represents an OpenAI chat completion response.
type ChatCompletionResponse struct {
	// ID is "chatcmpl-" followed by a random UUID.
	ID string `json:"id"`

	// Object is always "chat.completion".
	Object string `json:"object"`

	// Created is the Unix timestamp of when the completion was created.
	Created int64 `json:"created"`

	// Model is the request model, or the adapter model when none was sent.
	Model string `json:"model"`

	// Choices always holds exactly one choice.
	Choices []Choice `json:"choices"`

	// Usage contains estimated token usage.
	Usage Usage `json:"usage"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage contains token usage estimates.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse represents an error response in OpenAI format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error details.
type ErrorDetail struct {
	// Message is the human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error (e.g., "invalid_request_error").
	Type string `json:"type"`

	// Code is a stable machine-readable error code.
	Code string `json:"code"`
}

// ModelList is the response of GET /v1/models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// Model describes one model exposed by the bridge.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// HealthResponse is the response of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Adapter   string `json:"adapter"`
	Model     string `json:"model"`
	Available bool   `json:"available"`
}
