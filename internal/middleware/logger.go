package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TraceIDKey = "traceID"

// RequestLogger tags each request with a trace id and writes one access record when it completes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := uuid.NewString()
		c.Set(TraceIDKey, traceID)
		c.Header("X-Request-ID", traceID)

		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}

		logger.Log(c.Request.Context(), level, "access",
			slog.Group("request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"ip", c.ClientIP(),
				TraceIDKey, traceID,
			),
			slog.Group("response",
				"status", c.Writer.Status(),
				"size", c.Writer.Size(),
				"latency", time.Since(start).String(),
			),
		)
	}
}
