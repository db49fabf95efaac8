package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

const ContextUser = "user"

// RequireAuth rejects requests of workspaces without a live admin session.
// Authenticated workspaces get their bell running, which covers workspaces
// rebuilt from a persisted session after eviction or restart.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := WorkspaceFrom(c)
		ctx := c.Request.Context()

		ok, err := ws.Auth.IsAuthenticated(ctx)
		if err != nil {
			httputil.RespondWithError(c, errors.Internal(err))
			c.Abort()
			return
		}
		if !ok {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			c.Abort()
			return
		}

		user, err := ws.Auth.CurrentUser(ctx)
		if err != nil {
			httputil.RespondWithError(c, errors.Internal(err))
			c.Abort()
			return
		}
		if user != nil {
			c.Set(ContextUser, user)
		}

		ws.StartBell()
		c.Next()
	}
}

// CurrentUser returns the admin set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *model.CurrentUser {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*model.CurrentUser)
	return u
}
