package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/repository"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

// Recorder receives one entry per dispatched mutation.
type Recorder interface {
	Record(ctx context.Context, entry *model.AuditEntry) error
}

// Actor identifies the admin that dispatched a mutation.
type Actor struct {
	ID    string
	Email string
}

type actorKey struct{}

// WithActor attaches the acting admin to ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func actorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

// Entry builds an audit entry for a mutation outcome.
func Entry(ctx context.Context, page, action string, ids []string, meta interface{}, err error) *model.AuditEntry {
	actor := actorFrom(ctx)
	e := &model.AuditEntry{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Page:       page,
		Action:     action,
		EntityIDs:  ids,
		Outcome:    model.AuditOutcomeSuccess,
		CreatedAt:  time.Now().UTC(),
	}
	if meta != nil {
		if raw, mErr := json.Marshal(meta); mErr == nil {
			e.Metadata = raw
		}
	}
	if err != nil {
		e.Outcome = model.AuditOutcomeFailure
		e.Error = err.Error()
	}
	return e
}

// Service stores audit entries in the repository.
type Service struct {
	repo    repository.AuditRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.AuditRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

func (s *Service) Record(ctx context.Context, entry *model.AuditEntry) error {
	err := s.repo.Create(ctx, entry)
	if s.metrics != nil {
		outcome := "stored"
		if err != nil {
			outcome = "error"
		}
		s.metrics.AuditRecords.WithLabelValues(outcome).Inc()
	}
	return err
}

func (s *Service) List(ctx context.Context, filter model.AuditFilter) ([]*model.AuditEntry, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.Cleanup(ctx, before)
}

// LogRecorder writes entries to the structured log. It is used when no
// database is configured.
type LogRecorder struct {
	logger zerolog.Logger
}

func NewLogRecorder(logger zerolog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (l *LogRecorder) Record(_ context.Context, e *model.AuditEntry) error {
	ev := l.logger.Info()
	if e.Outcome == model.AuditOutcomeFailure {
		ev = l.logger.Warn().Str("error", e.Error)
	}
	ev.Str("audit_id", e.ID.String()).
		Str("actor", e.ActorID).
		Str("page", e.Page).
		Str("action", e.Action).
		Strs("ids", e.EntityIDs).
		Str("outcome", e.Outcome).
		Msg("console mutation")
	return nil
}
