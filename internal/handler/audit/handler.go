package audit

import (
	"context"
	"encoding/csv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/httputil"
)

// Lister reads stored audit entries.
type Lister interface {
	List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditEntry, error)
}

type Handler struct {
	service Lister
}

func NewHandler(service Lister) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	audit := r.Group("/audit")
	{
		audit.GET("/logs", h.ListLogs)
		audit.GET("/export", h.ExportLogs)
	}
}

func (h *Handler) ListLogs(c *gin.Context) {
	var filter model.AuditFilter
	if !handler.Bind(c, &filter) {
		return
	}
	logs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, logs)
}

func (h *Handler) ExportLogs(c *gin.Context) {
	var filter model.AuditFilter
	if !handler.Bind(c, &filter) {
		return
	}
	logs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "created_at", "actor_id", "actor_email", "page", "action", "entity_ids", "outcome", "error"})
	for _, e := range logs {
		_ = w.Write([]string{
			e.ID.String(),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.ActorID,
			e.ActorEmail,
			e.Page,
			e.Action,
			strings.Join(e.EntityIDs, " "),
			e.Outcome,
			e.Error,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}

	httputil.RespondWithAttachment(c, console.ExportFilename("audit", time.Now()), "text/csv", []byte(b.String()))
}
