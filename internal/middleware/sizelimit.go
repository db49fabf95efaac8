package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/pkg/httputil"
)

// SizeLimitConfig represents size limit configuration
type SizeLimitConfig struct {
	MaxBodySize   int64 // in bytes
	MaxHeaderSize int   // in bytes
	ErrorMessage  string
}

// DefaultSizeLimitConfig fits the console's forms; none of them upload files.
func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{
		MaxBodySize:   64 << 10, // 64KB
		MaxHeaderSize: 1 << 14,  // 16KB
		ErrorMessage:  "Request size exceeds limit",
	}
}

// SizeLimit middleware limits request sizes
func SizeLimit(config SizeLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > config.MaxBodySize {
			tooLarge(c, fmt.Sprintf("%s: body size exceeds %d bytes", config.ErrorMessage, config.MaxBodySize))
			return
		}

		headerSize := 0
		for name, values := range c.Request.Header {
			headerSize += len(name)
			for _, value := range values {
				headerSize += len(value)
			}
		}
		if headerSize > config.MaxHeaderSize {
			tooLarge(c, fmt.Sprintf("%s: header size exceeds %d bytes", config.ErrorMessage, config.MaxHeaderSize))
			return
		}

		// chunked bodies carry no Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxBodySize)
		c.Next()
	}
}

func tooLarge(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httputil.Response{
		Success: false,
		Error:   &httputil.Error{Code: http.StatusRequestEntityTooLarge, Message: msg},
	})
}
