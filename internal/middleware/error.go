package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/pkg/errors"
)

// ErrorLogger logs the errors handlers attached to the context. Responses
// are written by httputil; internal and transport failures are logged at
// error level, everything else at debug.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := zerolog.Ctx(c.Request.Context())
		for _, e := range c.Errors {
			event := log.Debug()
			switch errors.CodeOf(e.Err) {
			case errors.ErrInternal, errors.ErrTransport:
				event = log.Error()
			}
			event.
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}
	}
}
