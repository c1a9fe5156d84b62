// Package middleware provides HTTP middleware for the retail backend.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Header values copied into trace attributes are capped at these lengths.
const (
	MaxRequestIDLength = 128
	MaxBranchIDLength  = 64
)

// branchIDPattern is the UUID shape required of X-Branch-ID header values.
var branchIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "outsiders-backend",
		Enabled:     true,
	}
}

// Tracing returns tracing middleware with the default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin and enriches each span with request_id,
// branch_id, and user_id so a trace can be tied back to a sale, a
// sucursal, and a cashier. Span names follow otelgin's
// "METHOD route_pattern" convention.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	otelMiddleware := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otelMiddleware(c)

		// otelgin has created the span by now
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			span.SetAttributes(identityAttributes(c)...)
		}
	}
}

// identityAttributes collects the request, branch, and user identity that
// is known at this point in the chain. Missing values are omitted rather
// than recorded empty.
func identityAttributes(c *gin.Context) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if requestID := traceRequestID(c); requestID != "" {
		attrs = append(attrs, attribute.String("request_id", requestID))
	}
	if branchID := traceBranchID(c); branchID != "" {
		attrs = append(attrs, attribute.String("branch_id", branchID))
	}
	if userID := contextString(c, JWTUserIDKey); userID != "" {
		attrs = append(attrs, attribute.String("user_id", userID))
	}
	return attrs
}

// traceRequestID prefers the ID set by the RequestID middleware and only
// then falls back to the raw header, truncated.
func traceRequestID(c *gin.Context) string {
	if id := contextString(c, "request_id"); id != "" {
		return id
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// traceBranchID prefers the JWT claim; the X-Branch-ID header is only
// trusted when it parses as a UUID.
func traceBranchID(c *gin.Context) string {
	if id := contextString(c, JWTBranchIDKey); id != "" {
		return id
	}

	headerBranchID := c.GetHeader("X-Branch-ID")
	if headerBranchID != "" && isValidBranchID(headerBranchID) {
		return headerBranchID
	}
	return ""
}

func isValidBranchID(branchID string) bool {
	return len(branchID) <= MaxBranchIDLength && branchIDPattern.MatchString(branchID)
}

// statusErrorMessage maps an HTTP error status to a span status message.
func statusErrorMessage(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "Internal Server Error"
	case statusCode == http.StatusUnauthorized:
		return "Unauthorized"
	case statusCode == http.StatusForbidden:
		return "Forbidden"
	case statusCode == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}

// SpanErrorMarker marks the active span as errored on 4xx/5xx responses.
// Place it after the Tracing middleware.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode >= http.StatusBadRequest {
			span.SetStatus(codes.Error, statusErrorMessage(statusCode))
			span.SetAttributes(attribute.Int("http.status_code", statusCode))
		}
	}
}

// TracingAttributeInjector re-applies identity attributes once the JWT
// middleware has run, since the span is created before authentication and
// would otherwise miss user and branch. Place it after both Tracing and
// the auth middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			span.SetAttributes(identityAttributes(c)...)
		}
		c.Next()
	}
}
