package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
)

type (
	AuditRepository interface {
		Create(ctx context.Context, entry *model.AuditEntry) error
		List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditEntry, error)
		Cleanup(ctx context.Context, before time.Time) (int64, error)
	}
)
