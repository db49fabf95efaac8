package subscription

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

// Handler serves the subscriptions page and the plan visibility page.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func subscriptions(ws *console.Workspace) *console.List[model.Subscription, model.SubscriptionFilter] {
	return ws.Subscriptions.List
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/subscriptions")
	{
		g.GET("", h.View)
		handler.ListRoutes(g, subscriptions)
		g.GET("/users", h.AssignableUsers)
		g.GET("/user/:userId", h.UserHistory)
		g.POST("/assign/open", h.OpenAssign)
		g.DELETE("/assign", h.CloseAssign)
		g.POST("/assign", h.Assign)
		g.DELETE("/edit", h.CloseEdit)
		g.POST("/:id/edit", h.OpenEdit)
		g.PUT("/:id", h.Update)
		g.POST("/:id/cancel", h.Cancel)
	}

	pv := r.Group("/plan-visibility")
	{
		pv.GET("", h.Plans)
		pv.POST("/user-type", h.SetUserType)
		pv.POST("", h.CreatePlan)
		pv.POST("/init", h.InitDefaults)
		pv.DELETE("/draft", h.CancelEdit)
		pv.POST("/:id/edit", h.BeginEdit)
		pv.PUT("/:id", h.SavePlan)
	}
}

func (h *Handler) View(c *gin.Context) {
	view, err := handler.Workspace(c).Subscriptions.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) AssignableUsers(c *gin.Context) {
	users, err := handler.Workspace(c).Subscriptions.AssignableUsers(c.Request.Context())
	httputil.RespondWithView(c, users, err)
}

func (h *Handler) UserHistory(c *gin.Context) {
	history, err := handler.Workspace(c).Subscriptions.UserHistory(c.Request.Context(), c.Param("userId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, history)
}

func (h *Handler) OpenAssign(c *gin.Context) {
	httputil.RespondWithSuccess(c, handler.Workspace(c).Subscriptions.OpenAssign())
}

func (h *Handler) CloseAssign(c *gin.Context) {
	page := handler.Workspace(c).Subscriptions
	page.CloseAssign()
	httputil.RespondWithSuccess(c, page.View())
}

func (h *Handler) Assign(c *gin.Context) {
	var form console.AssignForm
	if !handler.Bind(c, &form) {
		return
	}
	sub, err := handler.Workspace(c).Subscriptions.Assign(c.Request.Context(), form)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, sub)
}

func (h *Handler) OpenEdit(c *gin.Context) {
	form, err := handler.Workspace(c).Subscriptions.OpenEdit(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, form)
}

func (h *Handler) CloseEdit(c *gin.Context) {
	page := handler.Workspace(c).Subscriptions
	page.CloseEdit()
	httputil.RespondWithSuccess(c, page.View())
}

func (h *Handler) Update(c *gin.Context) {
	var form console.EditForm
	if !handler.Bind(c, &form) {
		return
	}
	sub, err := handler.Workspace(c).Subscriptions.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, sub)
}

type cancelRequest struct {
	Reason string `json:"reason" form:"reason"`
}

func (h *Handler) Cancel(c *gin.Context) {
	var req cancelRequest
	if !handler.Bind(c, &req) {
		return
	}
	page := handler.Workspace(c).Subscriptions
	err := page.Cancel(c.Request.Context(), c.Param("id"), req.Reason, handler.Confirmed(c))
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) Plans(c *gin.Context) {
	view, err := handler.Workspace(c).PlanVisibility.Load(c.Request.Context())
	httputil.RespondWithView(c, view, err)
}

type userTypeRequest struct {
	UserType string `json:"userType" form:"userType"`
}

func (h *Handler) SetUserType(c *gin.Context) {
	var req userTypeRequest
	if !handler.Bind(c, &req) {
		return
	}
	view, err := handler.Workspace(c).PlanVisibility.SetUserType(c.Request.Context(), req.UserType)
	httputil.RespondWithView(c, view, err)
}

func (h *Handler) BeginEdit(c *gin.Context) {
	draft, err := handler.Workspace(c).PlanVisibility.BeginEdit(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, draft)
}

func (h *Handler) CancelEdit(c *gin.Context) {
	page := handler.Workspace(c).PlanVisibility
	page.CancelEdit()
	httputil.RespondWithSuccess(c, page.View())
}

func (h *Handler) SavePlan(c *gin.Context) {
	var draft console.PlanDraft
	if !handler.Bind(c, &draft) {
		return
	}
	draft.ID = c.Param("id")
	page := handler.Workspace(c).PlanVisibility
	err := page.Save(c.Request.Context(), draft)
	handler.Done(c, err, func() interface{} { return page.View() })
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var form console.PlanForm
	if !handler.Bind(c, &form) {
		return
	}
	plan, err := handler.Workspace(c).PlanVisibility.Create(c.Request.Context(), form)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, plan)
}

func (h *Handler) InitDefaults(c *gin.Context) {
	page := handler.Workspace(c).PlanVisibility
	err := page.InitDefaults(c.Request.Context())
	handler.Done(c, err, func() interface{} { return page.View() })
}
