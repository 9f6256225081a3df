package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pixelmint/pixelmint/internal/logging"
)

// RequestIDKey is the header and context key carrying the request id.
const RequestIDKey = "X-Request-Id"

// RequestID attaches an id to every request. A caller-supplied X-Request-Id
// wins; otherwise one is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDKey, id)
		c.Next()
	}
}

// RequestLogger logs one line per request with method, path, status and
// duration through the shared leveled logger.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "%s %s -> %d (%s) request_id=%s"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Millisecond), c.GetString(RequestIDKey)}
		if status >= 500 {
			logger.Errorf(line, args...)
		} else if status >= 400 {
			logger.Warnf(line, args...)
		} else {
			logger.Infof(line, args...)
		}
	}
}
