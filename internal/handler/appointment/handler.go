package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

// Handler serves the read-only appointments and children pages.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func appointments(ws *console.Workspace) *console.List[model.Appointment, model.AppointmentFilter] {
	return ws.Appointments.List
}

func children(ws *console.Workspace) *console.List[model.Child, console.NoFilter] {
	return ws.Children.List
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	a := r.Group("/appointments")
	{
		a.GET("", h.Appointments)
		handler.ListRoutes(a, appointments)
	}

	ch := r.Group("/children")
	{
		ch.GET("", h.Children)
		handler.PagingRoutes(ch, children)
	}
}

func (h *Handler) Appointments(c *gin.Context) {
	view, err := handler.Workspace(c).Appointments.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) Children(c *gin.Context) {
	view, err := handler.Workspace(c).Children.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}
