package notification

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/httputil"
	"github.com/jwalitptl/admin-console/pkg/messaging"
)

// Handler serves the notifications page and the header bell.
type Handler struct {
	broker   messaging.Broker
	registry *console.Registry
}

func NewHandler(broker messaging.Broker, registry *console.Registry) *Handler {
	return &Handler{broker: broker, registry: registry}
}

func notifications(ws *console.Workspace) *console.List[model.Notification, model.NotificationFilter] {
	return ws.Notifications.List
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/notifications")
	{
		g.GET("", h.View)
		handler.ListRoutes(g, notifications)
		g.GET("/unread-count", h.UnreadCount)
		g.POST("/read-all", h.MarkAllRead)
		g.DELETE("/read", h.DeleteAllRead)
		g.POST("/:id/read", h.MarkRead)
		g.DELETE("/:id", h.Delete)

		g.GET("/bell", h.Bell)
		g.POST("/bell/refresh", h.RefreshBell)
		g.POST("/bell/:id/open", h.OpenBell)
		g.GET("/bell/stream", h.Stream)
	}
}

func (h *Handler) View(c *gin.Context) {
	page := handler.Workspace(c).Notifications
	_, err := page.Load(c.Request.Context())
	httputil.RespondWithView(c, page.Render(), err)
}

type unreadResponse struct {
	Count int `json:"count"`
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := handler.Workspace(c).Notifications.CountUnread(c.Request.Context())
	httputil.RespondWithView(c, unreadResponse{Count: n}, err)
}

func (h *Handler) MarkRead(c *gin.Context) {
	page := handler.Workspace(c).Notifications
	err := page.MarkRead(c.Request.Context(), c.Param("id"))
	handler.Done(c, err, func() interface{} { return page.Render() })
}

type markAllRequest struct {
	Type string `json:"type" form:"type"`
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	var req markAllRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Notifications
	err := page.MarkAllRead(c.Request.Context(), req.Type)
	handler.Done(c, err, func() interface{} { return page.Render() })
}

func (h *Handler) Delete(c *gin.Context) {
	page := handler.Workspace(c).Notifications
	err := page.Delete(c.Request.Context(), c.Param("id"))
	handler.Done(c, err, func() interface{} { return page.Render() })
}

func (h *Handler) DeleteAllRead(c *gin.Context) {
	page := handler.Workspace(c).Notifications
	err := page.DeleteAllRead(c.Request.Context())
	handler.Done(c, err, func() interface{} { return page.Render() })
}

func (h *Handler) Bell(c *gin.Context) {
	httputil.RespondWithSuccess(c, handler.Workspace(c).Bell.State())
}

func (h *Handler) RefreshBell(c *gin.Context) {
	bell := handler.Workspace(c).Bell
	err := bell.Refresh(c.Request.Context())
	httputil.RespondWithView(c, bell.State(), err)
}

type openResponse struct {
	Target string            `json:"target"`
	Bell   console.BellState `json:"bell"`
}

// OpenBell marks an unread notification read and answers where to navigate.
func (h *Handler) OpenBell(c *gin.Context) {
	bell := handler.Workspace(c).Bell
	target, err := bell.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, openResponse{Target: target, Bell: bell.State()})
}

// Stream pushes the bell state as server-sent events: the current state
// first, then every state the workspace's poller publishes. The workspace
// is kept from idling out while the stream is open.
func (h *Handler) Stream(c *gin.Context) {
	ws := handler.Workspace(c)
	ctx := c.Request.Context()

	updates, err := h.broker.Subscribe(ctx, console.BellChannel(ws.ID))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	go h.registry.KeepAlive(ctx, ws.ID)

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("channel", ws.Bell.Channel()).Msg("bell stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("bell", ws.Bell.State())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("bell", string(payload))
			return true
		case <-ctx.Done():
			return false
		}
	})
	logger.Debug().Str("channel", ws.Bell.Channel()).Msg("bell stream closed")
}
