package chat

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

func messages(ws *console.Workspace) *console.List[model.ChatMessage, model.ChatMessageFilter] {
	return ws.Chat.Messages
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/chat")
	{
		g.GET("", h.View)
		g.POST("/tab", h.SetTab)
		g.POST("/page", h.SetPage)
		g.POST("/rooms", h.CreateRoom)
		g.DELETE("/rooms/:id", h.DeleteRoom)
		g.DELETE("/messages/:id", h.DeleteMessage)
		handler.FilterRoute(g.Group("/messages"), messages)
	}
}

type tabRequest struct {
	Tab string `json:"tab" form:"tab" binding:"required"`
}

func (h *Handler) View(c *gin.Context) {
	view, err := handler.Workspace(c).Chat.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) SetTab(c *gin.Context) {
	var req tabRequest
	if !handler.Bind(c, &req) {
		return
	}
	view, err := handler.Workspace(c).Chat.SetTab(c.Request.Context(), req.Tab)
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) SetPage(c *gin.Context) {
	var req handler.PageRequest
	if !handler.Bind(c, &req) {
		return
	}
	view, err := handler.Workspace(c).Chat.SetPage(c.Request.Context(), req.Page)
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var form console.RoomForm
	if !handler.Bind(c, &form) {
		return
	}
	room, err := handler.Workspace(c).Chat.CreateRoom(c.Request.Context(), form)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, room)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	page := handler.Workspace(c).Chat
	err := page.DeleteRoom(c.Request.Context(), c.Param("id"), handler.Confirmed(c))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	page := handler.Workspace(c).Chat
	err := page.DeleteMessage(c.Request.Context(), c.Param("id"), handler.Confirmed(c))
	handler.Done(c, err, func() interface{} { return page.View() })
}
