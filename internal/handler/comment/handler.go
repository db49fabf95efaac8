package comment

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

func comments(ws *console.Workspace) *console.List[model.Comment, model.CommentFilter] {
	return ws.Comments.List
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/comments")
	{
		g.GET("", h.View)
		handler.ListRoutes(g, comments)
		g.POST("/bulk-approve", h.BulkApprove)
		g.POST("/bulk-reject", h.BulkReject)
		g.POST("/:id/approve", h.Approve)
		g.POST("/:id/reject", h.Reject)
		g.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) View(c *gin.Context) {
	view, err := handler.Workspace(c).Comments.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) Approve(c *gin.Context) {
	page := handler.Workspace(c).Comments
	err := page.Approve(c.Request.Context(), c.Param("id"))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Reject(c *gin.Context) {
	page := handler.Workspace(c).Comments
	err := page.Reject(c.Request.Context(), c.Param("id"))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Delete(c *gin.Context) {
	page := handler.Workspace(c).Comments
	err := page.Delete(c.Request.Context(), c.Param("id"), handler.Confirmed(c))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) BulkApprove(c *gin.Context) {
	page := handler.Workspace(c).Comments
	err := page.BulkApprove(c.Request.Context())
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) BulkReject(c *gin.Context) {
	page := handler.Workspace(c).Comments
	err := page.BulkReject(c.Request.Context())
	handler.Done(c, err, func() interface{} { return page.View() })
}
