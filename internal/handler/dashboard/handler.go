package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

// Handler serves the dashboard, analytics, settings and the layout chrome.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Dashboard)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/analytics", h.Analytics)
	r.POST("/analytics/days", h.SetDays)
	r.GET("/settings", h.Settings)
	r.GET("/layout", h.Layout)
}

func (h *Handler) Dashboard(c *gin.Context) {
	view, err := handler.Workspace(c).Dashboard.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) Analytics(c *gin.Context) {
	view, err := handler.Workspace(c).Analytics.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

type daysRequest struct {
	Days int `json:"days" form:"days" binding:"required"`
}

func (h *Handler) SetDays(c *gin.Context) {
	var req daysRequest
	if !handler.Bind(c, &req) {
		return
	}
	view, err := handler.Workspace(c).Analytics.SetDays(c.Request.Context(), req.Days)
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) Settings(c *gin.Context) {
	httputil.RespondWithSuccess(c, console.SettingsPage())
}

// Layout renders the sidebar and header for the page at ?path=.
func (h *Handler) Layout(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	view, err := handler.Workspace(c).Layout(c.Request.Context(), path)
	httputil.RespondWithView(c, view, err)
}
