package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/internal/middleware"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

type Handler struct {
	registry *console.Registry
}

func NewHandler(registry *console.Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(), h.Me)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.Bind(c, &req) {
		return
	}

	user, err := handler.Workspace(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}

// Logout clears the session and drops the workspace with all of its page
// state.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.registry.Logout(c.Request.Context(), handler.Workspace(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, "logged out successfully")
}

func (h *Handler) Me(c *gin.Context) {
	httputil.RespondWithSuccess(c, middleware.CurrentUser(c))
}
