package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hpn/hpn-cli-bridge/internal/adapter"
	"github.com/hpn/hpn-cli-bridge/internal/domain"
)

// Error types and codes used in the OpenAI error envelope.
const (
	ErrTypeInvalidRequest = "invalid_request_error"
	ErrTypeTimeout        = "timeout_error"
	ErrTypeServer         = "server_error"

	CodeInvalidMessages = "invalid_messages"
	CodeCLITimeout      = "cli_timeout"
	CodeCLIFailed       = "cli_execution_failed"
	CodeCLIUnavailable  = "cli_unavailable"
	CodeInternal        = "internal_error"
)

// ChatHandler serves chat completions through a single CLIAdapter.
type ChatHandler struct {
	adapter adapter.CLIAdapter
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// ChatHandlerOption is a functional option for configuring ChatHandler.
type ChatHandlerOption func(*ChatHandler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ChatHandlerOption {
	return func(h *ChatHandler) {
		h.logger = logger
	}
}

// WithClock sets the time source used for the created timestamp.
func WithClock(now func() time.Time) ChatHandlerOption {
	return func(h *ChatHandler) {
		h.now = now
	}
}

// WithIDGenerator sets the completion ID generator.
func WithIDGenerator(newID func() string) ChatHandlerOption {
	return func(h *ChatHandler) {
		h.newID = newID
	}
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(cliAdapter adapter.CLIAdapter, opts ...ChatHandlerOption) *ChatHandler {
	h := &ChatHandler{
		adapter: cliAdapter,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   func() string { return "chatcmpl-" + uuid.NewString() },
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleChatCompletion handles POST /v1/chat/completions.
func (h *ChatHandler) HandleChatCompletion(c *gin.Context) {
	var req ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendOpenAIError(c, http.StatusBadRequest, ErrTypeInvalidRequest, CodeInvalidMessages, describeBindError(err))
		return
	}

	if req.Stream {
		h.sendOpenAIError(c, http.StatusBadRequest, ErrTypeInvalidRequest, CodeInvalidMessages, "streaming responses are not supported, set stream to false")
		return
	}

	messages := toDomainMessages(req.Messages)
	if len(domain.Turns(messages)) == 0 {
		h.sendOpenAIError(c, http.StatusBadRequest, ErrTypeInvalidRequest, CodeInvalidMessages, "messages must contain at least one user or assistant message")
		return
	}

	id := h.newID()
	c.Set(ctxKeyCompletionID, id)

	text, err := h.adapter.Execute(c.Request.Context(), messages)
	if err != nil {
		h.handleAdapterError(c, err)
		return
	}

	model := req.Model
	if model == "" {
		model = h.adapter.ModelName()
	}

	c.JSON(http.StatusOK, ChatCompletionResponse{
		ID:      id,
		Object:  "chat.completion",
		Created: h.now().Unix(),
		Model:   model,
		Choices: []Choice{{
			Index:        0,
			Message:      ChatMessage{Role: string(domain.RoleAssistant), Content: text},
			FinishReason: "stop",
		}},
		Usage: EstimateUsage(req.Messages, text),
	})
}

// handleAdapterError maps adapter failures to HTTP status and error envelope.
func (h *ChatHandler) handleAdapterError(c *gin.Context, err error) {
	status, errType, code, message := classifyError(err)

	h.logger.Error("chat completion failed",
		slog.String("adapter", h.adapter.Name()),
		slog.String("code", code),
		slog.String("error", err.Error()),
	)

	h.sendOpenAIError(c, status, errType, code, message)
}

// classifyError returns status, type, code and client-facing message for err.
func classifyError(err error) (int, string, string, string) {
	switch {
	case adapter.IsTimeout(err):
		return http.StatusGatewayTimeout, ErrTypeTimeout, CodeCLITimeout, err.Error()
	case adapter.IsUnavailable(err):
		return http.StatusServiceUnavailable, ErrTypeServer, CodeCLIUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, ErrTypeServer, CodeCLIFailed, "CLI execution failed: " + err.Error()
	}
}

// HandleModels handles GET /v1/models.
// The bridge exposes exactly one model: the configured adapter's.
func (h *ChatHandler) HandleModels(c *gin.Context) {
	c.JSON(http.StatusOK, ModelList{
		Object: "list",
		Data: []Model{{
			ID:      h.adapter.ModelName(),
			Object:  "model",
			Created: h.now().Unix(),
			OwnedBy: h.adapter.Name(),
		}},
	})
}

// HandleHealth handles GET /health.
// It probes the backing CLI, so it answers within adapter.ProbeTimeout.
func (h *ChatHandler) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), adapter.ProbeTimeout)
	defer cancel()

	available := h.adapter.IsAvailable(ctx)

	status := "healthy"
	if !available {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Adapter:   h.adapter.Name(),
		Model:     h.adapter.ModelName(),
		Available: available,
	})
}

// sendOpenAIError sends an error response in OpenAI-compatible format.
func (h *ChatHandler) sendOpenAIError(c *gin.Context, status int, errType, code, message string) {
	c.Set(ctxKeyErrorCode, code)
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
			Code:    code,
		},
	})
}

// toDomainMessages converts validated wire messages to domain messages.
func toDomainMessages(in []ChatMessage) []domain.Message {
	out := make([]domain.Message, len(in))
	for i, m := range in {
		out[i] = domain.Message{Role: domain.Role(m.Role), Content: m.Content}
	}
	return out
}

// describeBindError turns a bind failure into a message a client can act on.
func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body: " + err.Error()
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", field))
		case "min":
			problems = append(problems, fmt.Sprintf("%s must contain at least %s item", field, fe.Param()))
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(problems, "; ")
}

// fieldPath converts "ChatCompletionRequest.Messages[0].Role" to "messages[0].role".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return strings.ToLower(namespace)
}
