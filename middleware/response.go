package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func getStartTime(c *gin.Context) time.Time {
	if value, exists := c.Get("start-time"); exists || value != nil {
		if t, ok := value.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

// RequestInit assigns every request an ID and records its start time so the
// logger can report runtimes.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("requestId", uuid.New().String())
		c.Set("start-time", time.Now())
		c.Next()
	}
}

// RequestLogger logs each completed request with its ID, status and runtime.
func RequestLogger(z *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		startTime := getStartTime(c)
		z.Info("request completed",
			zap.String("requestId", c.GetString("requestId")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("runtimeMs", time.Since(startTime).Milliseconds()),
		)
	}
}
