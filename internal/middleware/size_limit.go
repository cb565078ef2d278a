package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Multipart boundaries and part headers eat into the body cap, so the raw
// request may be slightly larger than the file itself.
var multipartOverhead = int64(8 * 1024)

// SizeLimit caps the request body at maxBodyBytes plus multipart framing.
// Reading past the cap yields http.MaxBytesError, which the upload handler
// turns into a 413.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+multipartOverhead)
		c.Next()
	}
}
