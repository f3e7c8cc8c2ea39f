package middleware

import (
	"strconv"
	"time"

	"execution-os/internal/logger"
	"execution-os/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

// Observe records request latency and writes one access log line.
func Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		took := time.Since(start)
		metrics.RecordHTTP(c.Request.Method, route, strconv.Itoa(status), took)

		args := []any{
			"method", c.Request.Method, "route", route, "status", status,
			"took_ms", took.Milliseconds(), "request_id", c.GetString("request_id"),
		}
		if uid := UserID(c); uid != "" {
			args = append(args, "uid", uid)
		}
		if status >= 500 {
			logger.Error("http.request", args...)
		} else {
			logger.Info("http.request", args...)
		}
	}
}
