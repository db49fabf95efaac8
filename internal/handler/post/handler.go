package post

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

func posts(ws *console.Workspace) *console.List[model.Post, model.PostFilter] {
	return ws.Posts.List
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/posts")
	{
		g.GET("", h.View)
		handler.ListRoutes(g, posts)
		g.GET("/export", h.Export)
		g.POST("/bulk-approve", h.BulkApprove)
		g.POST("/bulk-reject", h.BulkReject)
		g.POST("/:id/approve", h.Approve)
		g.POST("/:id/reject", h.Reject)
		g.DELETE("/:id", h.Delete)
	}
}

// moderationRequest carries the optional notes or reason of a decision.
type moderationRequest struct {
	Notes  string `json:"notes" form:"notes"`
	Reason string `json:"reason" form:"reason"`
}

func (h *Handler) View(c *gin.Context) {
	view, err := handler.Workspace(c).Posts.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) Approve(c *gin.Context) {
	var req moderationRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Posts
	err := page.Approve(c.Request.Context(), c.Param("id"), req.Notes)
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Reject(c *gin.Context) {
	var req moderationRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Posts
	err := page.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Delete(c *gin.Context) {
	page := handler.Workspace(c).Posts
	err := page.Delete(c.Request.Context(), c.Param("id"), handler.Confirmed(c))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) BulkApprove(c *gin.Context) {
	var req moderationRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Posts
	err := page.BulkApprove(c.Request.Context(), req.Notes)
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) BulkReject(c *gin.Context) {
	var req moderationRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Posts
	err := page.BulkReject(c.Request.Context(), req.Reason)
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Export(c *gin.Context) {
	name, payload, err := handler.Workspace(c).Posts.Export(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithAttachment(c, name, "text/csv", payload)
}
