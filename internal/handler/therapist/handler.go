package therapist

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func profiles(ws *console.Workspace) *console.List[model.TherapistProfile, model.TherapistFilter] {
	return ws.Therapists.List
}

// View is the therapists page: the list, its summary groups and the open detail.
type View struct {
	console.ListView[model.TherapistProfile, model.TherapistFilter]
	Groups console.TherapistGroups  `json:"groups"`
	Detail *model.TherapistProfile `json:"detail,omitempty"`
}

func render(page *console.TherapistsPage) View {
	return View{ListView: page.View(), Groups: page.Groups(), Detail: page.Detail()}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/therapists")
	{
		g.GET("", h.View)
		handler.ListRoutes(g, profiles)
		g.GET("/:id", h.OpenDetail)
		g.DELETE("/detail", h.CloseDetail)
		g.POST("/:id/verify", h.Verify)
		g.POST("/:id/unverify", h.Unverify)
	}
}

type verifyRequest struct {
	Notes  string `json:"notes" form:"notes"`
	Reason string `json:"reason" form:"reason"`
}

func (h *Handler) View(c *gin.Context) {
	page := handler.Workspace(c).Therapists
	_, err := page.Load(c.Request.Context())
	httputil.RespondWithView(c, render(page), err)
}

func (h *Handler) OpenDetail(c *gin.Context) {
	profile, err := handler.Workspace(c).Therapists.OpenDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) CloseDetail(c *gin.Context) {
	page := handler.Workspace(c).Therapists
	page.CloseDetail()
	httputil.RespondWithSuccess(c, render(page))
}

func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Therapists
	err := page.Verify(c.Request.Context(), c.Param("id"), req.Notes)
	handler.Done(c, err, func() interface{} { return render(page) })
}

func (h *Handler) Unverify(c *gin.Context) {
	var req verifyRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Therapists
	err := page.Unverify(c.Request.Context(), c.Param("id"), req.Reason, handler.Confirmed(c))
	handler.Done(c, err, func() interface{} { return render(page) })
}
