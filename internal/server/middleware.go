// internal/server/middleware.go

package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "suggestion-engine/internal/common/errors"
	"suggestion-engine/internal/common/logger"
)

const requestIDHeader = "X-Request-ID"
const requestIDKey = "requestId"

// RequestID assigns every request an identifier, honoring one supplied by
// the caller, and echoes it back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog emits one structured line per completed request.
func AccessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request handled", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
			"requestId":  c.GetString(requestIDKey),
		})
	}
}

// Recovery turns panics into a standardized 500 instead of a dropped
// connection.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("handler panicked", map[string]interface{}{
			"panic":     recovered,
			"path":      c.Request.URL.Path,
			"requestId": c.GetString(requestIDKey),
		})
		c.AbortWithStatusJSON(500, gin.H{
			"error": &apperrors.StandardError{
				Code:      apperrors.ErrCodeUnexpectedFailure,
				Message:   "Unexpected internal failure",
				Timestamp: time.Now().UTC(),
			},
		})
	})
}
