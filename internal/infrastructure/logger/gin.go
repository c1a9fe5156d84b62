package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the HTTP middleware chain. Duplicated here instead
// of imported so the logger package stays free of interface-layer imports.
const (
	ginRequestIDKey = "request_id"
	ginBranchIDKey  = "jwt_branch_id"
	ginLoggerKey    = "logger"
)

// Paths logged only at debug level. Load balancer probes hit these every
// few seconds and would drown out real traffic.
var quietPaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// GinMiddleware logs every request once it completes and stores a
// request-scoped logger in the gin context. The scoped logger already
// carries request_id, method and path, and branch_id when the caller is
// authenticated, so handlers can log without re-attaching identity.
func GinMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		scoped := logger.With(
			zap.String("request_id", c.GetString(ginRequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		c.Set(ginLoggerKey, scoped)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("body_size", c.Writer.Size()),
		}

		if branchID := c.GetString(ginBranchIDKey); branchID != "" {
			fields = append(fields, zap.String("branch_id", branchID))
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		const msg = "request completed"
		switch {
		case status >= 500:
			scoped.Error(msg, fields...)
		case status >= 400:
			scoped.Warn(msg, fields...)
		case quietPaths[path]:
			scoped.Debug(msg, fields...)
		default:
			scoped.Info(msg, fields...)
		}
	}
}

// Recovery converts panics into 500 responses and logs the stack. It
// replaces gin's default recovery so panics land in the structured log
// instead of stderr.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.String("request_id", c.GetString(ginRequestIDKey)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// GetGinLogger returns the request-scoped logger set by GinMiddleware,
// or a no-op logger when the middleware did not run.
func GetGinLogger(c *gin.Context) *zap.Logger {
	if logger, exists := c.Get(ginLoggerKey); exists {
		if l, ok := logger.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
