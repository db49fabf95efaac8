package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/service/audit"
)

// AuditActor attaches the logged in admin to the request context so every
// mutation dispatched by the request is attributed. Must run after RequireAuth.
func AuditActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			ctx := audit.WithActor(c.Request.Context(), audit.Actor{ID: u.ID, Email: u.Email})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
