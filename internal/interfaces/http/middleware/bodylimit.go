package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var bodyTooLargeBody = gin.H{
	"success": false,
	"error": gin.H{
		"code":    "REQUEST_TOO_LARGE",
		"message": "Request body exceeds maximum allowed size",
	},
}

// BodyLimit caps request bodies at maxBytes. A declared Content-Length
// over the cap is rejected up front; chunked requests without one are
// capped at read time via MaxBytesReader. Checkout carts and sale payloads
// fit comfortably under any sane cap, so hitting it means abuse.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, bodyTooLargeBody)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
