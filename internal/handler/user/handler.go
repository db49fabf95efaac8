package user

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

func users(ws *console.Workspace) *console.List[model.User, model.UserFilter] {
	return ws.Users.List
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/users")
	{
		g.GET("", h.View)
		handler.ListRoutes(g, users)
		g.GET("/export", h.Export)
		g.POST("/bulk-block", h.BulkBlock)
		g.POST("/bulk-unblock", h.BulkUnblock)
		g.POST("/:id/block", h.Block)
		g.POST("/:id/unblock", h.Unblock)
		g.PUT("/:id/role", h.ChangeRole)
		g.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) View(c *gin.Context) {
	view, err := handler.Workspace(c).Users.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) Block(c *gin.Context) {
	page := handler.Workspace(c).Users
	err := page.Block(c.Request.Context(), c.Param("id"))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Unblock(c *gin.Context) {
	page := handler.Workspace(c).Users
	err := page.Unblock(c.Request.Context(), c.Param("id"))
	handler.Done(c, err, func() interface{} { return page.View() })
}

type roleRequest struct {
	Role string `json:"role" form:"role" binding:"required,oneof=parent teacher therapist doctor admin"`
}

func (h *Handler) ChangeRole(c *gin.Context) {
	var req roleRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Users
	err := page.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Delete(c *gin.Context) {
	page := handler.Workspace(c).Users
	err := page.Delete(c.Request.Context(), c.Param("id"), handler.Confirmed(c))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) BulkBlock(c *gin.Context) {
	page := handler.Workspace(c).Users
	err := page.BulkBlock(c.Request.Context())
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) BulkUnblock(c *gin.Context) {
	page := handler.Workspace(c).Users
	err := page.BulkUnblock(c.Request.Context())
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Export(c *gin.Context) {
	name, payload, err := handler.Workspace(c).Users.Export(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithAttachment(c, name, "text/csv", payload)
}
