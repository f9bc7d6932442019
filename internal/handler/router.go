package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middleware and OpenAI-compatible routes.
func NewRouter(h *ChatHandler, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))

	// Register routes (OpenAI-compatible)
	router.POST("/v1/chat/completions", h.HandleChatCompletion)
	router.GET("/v1/models", h.HandleModels)
	router.GET("/health", h.HandleHealth)

	// Also support without /v1 prefix for compatibility
	router.POST("/chat/completions", h.HandleChatCompletion)

	return router
}
