// Package handler holds the helpers shared by the console's page handlers.
// Each page lives in its own sub-package with a RegisterRoutes method.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/middleware"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/selection"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

var validation = middleware.DefaultValidationConfig()

// Workspace returns the workspace the request is bound to.
func Workspace(c *gin.Context) *console.Workspace {
	return middleware.WorkspaceFrom(c)
}

// Bind binds the body (or query for GET) into obj. On failure it answers
// 400 and returns false.
func Bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		if fields := middleware.ValidationErrors(validation, err); fields != nil {
			httputil.RespondWithValidation(c, err, fields)
		} else {
			httputil.RespondWithError(c, errors.BadRequest("invalid request body", err))
		}
		return false
	}
	return true
}

// Confirmed reports whether the request carries confirm=true.
func Confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// Done answers a mutation: the error, or the page view after the refetch.
func Done(c *gin.Context, err error, view func() interface{}) {
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view())
}

type PageRequest struct {
	Page int `json:"page" form:"page" binding:"required,min=1"`
}

// ListFunc picks a list controller out of a workspace.
type ListFunc[T model.Entity, F any] func(*console.Workspace) *console.List[T, F]

// PagingRoutes registers page navigation and row selection for a list.
func PagingRoutes[T model.Entity, F any](g *gin.RouterGroup, list ListFunc[T, F]) {
	g.POST("/page", func(c *gin.Context) {
		var req PageRequest
		if !Bind(c, &req) {
			return
		}
		view, err := list(Workspace(c)).SetPage(c.Request.Context(), req.Page)
		httputil.RespondWithView(c, view, err)
	})
	g.POST("/refresh", func(c *gin.Context) {
		l := list(Workspace(c))
		err := l.Refetch(c.Request.Context())
		httputil.RespondWithView(c, l.View(), err)
	})
	g.POST("/select/:id", func(c *gin.Context) {
		l := list(Workspace(c))
		if err := l.Toggle(c.Param("id")); err != nil {
			if err == selection.ErrNotOnPage {
				err = errors.BadRequest("row is not on the current page", err)
			}
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, l.View())
	})
	g.POST("/select-all", func(c *gin.Context) {
		l := list(Workspace(c))
		l.ToggleAll()
		httputil.RespondWithSuccess(c, l.View())
	})
	g.DELETE("/select", func(c *gin.Context) {
		l := list(Workspace(c))
		l.ClearSelection()
		httputil.RespondWithSuccess(c, l.View())
	})
}

// FilterRoute registers POST /filter, which replaces the list's filter.
func FilterRoute[T model.Entity, F any](g *gin.RouterGroup, list ListFunc[T, F]) {
	g.POST("/filter", func(c *gin.Context) {
		var f F
		if !Bind(c, &f) {
			return
		}
		view, err := list(Workspace(c)).SetFilter(c.Request.Context(), f)
		httputil.RespondWithView(c, view, err)
	})
}

// ListRoutes registers filtering, paging and selection.
func ListRoutes[T model.Entity, F any](g *gin.RouterGroup, list ListFunc[T, F]) {
	FilterRoute(g, list)
	PagingRoutes(g, list)
}
