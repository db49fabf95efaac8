package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/repository"
)

const defaultAuditLimit = 100

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditEntry) error {
	query := `
        INSERT INTO audit_entries (
            id, actor_id, actor_email, page, action, entity_ids,
            metadata, outcome, error, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `

	var metadata interface{}
	if len(entry.Metadata) > 0 {
		metadata = []byte(entry.Metadata)
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			entry.ID,
			entry.ActorID,
			entry.ActorEmail,
			entry.Page,
			entry.Action,
			pq.Array(entry.EntityIDs),
			metadata,
			entry.Outcome,
			entry.Error,
			entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert audit entry: %w", err)
		}
		return nil
	})
}

type auditRow struct {
	model.AuditEntry
	EntityIDs pq.StringArray `db:"entity_ids"`
	Metadata  []byte         `db:"metadata"`
}

func (r *auditRepository) List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditEntry, error) {
	var conditions []string
	var args []interface{}

	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Page != "" {
		args = append(args, filter.Page)
		conditions = append(conditions, fmt.Sprintf("page = $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	query := `SELECT id, actor_id, actor_email, page, action, entity_ids, metadata, outcome, error, created_at FROM audit_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	var rows []auditRow
	if err := r.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*model.AuditEntry, 0, len(rows))
	for i := range rows {
		e := rows[i].AuditEntry
		e.EntityIDs = []string(rows[i].EntityIDs)
		if len(rows[i].Metadata) > 0 {
			e.Metadata = json.RawMessage(rows[i].Metadata)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (r *auditRepository) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	query := `
        DELETE FROM audit_entries
        WHERE created_at < $1
    `

	result, err := r.GetDB().ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup audit entries: %w", err)
	}

	return result.RowsAffected()
}
