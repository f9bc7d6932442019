package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Keys stored on the gin context for the request log line.
const (
	ctxKeyRequestID    = "request_id"
	ctxKeyCompletionID = "completion_id"
	ctxKeyErrorCode    = "error_code"
)

const maxRequestIDLength = 128

// CORSMiddleware allows browser clients to call the API from any origin.
// Credentials are never needed: the bridge ignores Authorization.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, OpenAI-Organization, OpenAI-Project, "+RequestIDHeader)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware propagates an incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// LoggingMiddleware writes one record per request. Server errors log at
// error level, client errors at warn. Request headers are not logged:
// clients typically send a placeholder API key.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", c.GetString(ctxKeyRequestID)),
		}
		if id := c.GetString(ctxKeyCompletionID); id != "" {
			attrs = append(attrs, slog.String("completion_id", id))
		}
		if code := c.GetString(ctxKeyErrorCode); code != "" {
			attrs = append(attrs, slog.String("error_code", code))
		}

		logger.LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}

// RecoveryMiddleware turns a handler panic into a 500 OpenAI error envelope.
// gin's own stack dump is discarded; the panic value goes to logger.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			slog.Any("error", recovered),
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", c.GetString(ctxKeyRequestID)),
		)

		c.Set(ctxKeyErrorCode, CodeInternal)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Message: "Internal server error",
				Type:    ErrTypeServer,
				Code:    CodeInternal,
			},
		})
	})
}
