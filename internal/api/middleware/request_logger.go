package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	HeaderRequestID  = "X-Request-Id"
	ContextRequestID = "request_id"
)

// quietRoute reports requests that only log at debug: assets and health checks.
func quietRoute(path string) bool {
	return path == "/ping" || strings.HasPrefix(path, "/static/")
}

// RequestLogger logs one line per request with the request and session ids.
// The active page and submitted form action are included for the UI routes.
func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)
		c.Set(ContextRequestID, reqID)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		fields := logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       route,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}
		if id := SessionID(c); id != "" {
			fields["session_id"] = id
		}
		if page := c.Query("page"); page != "" {
			fields["page"] = page
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		entry := l.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		case quietRoute(c.Request.URL.Path):
			entry.Debug("request")
		default:
			entry.Info("request")
		}
	}
}
