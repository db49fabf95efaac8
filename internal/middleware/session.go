package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

const (
	// SessionName is the cookie binding a browser to its workspace.
	SessionName = "admin_console"

	ContextWorkspace   = "workspace"
	ContextWorkspaceID = "workspace_id"

	sessionWorkspaceKey = "workspace_id"
)

// CookieOptions shapes the workspace cookie.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
}

// NewCookieStore builds the signed (and, with an encryption key, encrypted)
// cookie store for the workspace cookie.
func NewCookieStore(opts CookieOptions, keyPairs ...[]byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: opts.HTTPOnly,
	}
	return store
}

// Workspace binds the request to the workspace named by its session cookie,
// issuing a fresh workspace id when the cookie is missing or unreadable.
func Workspace(store sessions.Store, registry *console.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, SessionName)
		if err != nil {
			// a rotated key or tampered cookie; gorilla still returns a new session
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("discarding unreadable session cookie")
		}

		id, _ := sess.Values[sessionWorkspaceKey].(string)
		if id == "" {
			id = uuid.New().String()
			sess.Values[sessionWorkspaceKey] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				httputil.RespondWithError(c, errors.Internal(err))
				c.Abort()
				return
			}
		}

		c.Set(ContextWorkspaceID, id)
		c.Set(ContextWorkspace, registry.Get(id))
		c.Next()
	}
}

// WorkspaceFrom returns the workspace bound by Workspace.
func WorkspaceFrom(c *gin.Context) *console.Workspace {
	ws, _ := c.MustGet(ContextWorkspace).(*console.Workspace)
	return ws
}
