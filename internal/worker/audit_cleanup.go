package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// AuditCleaner deletes audit entries older than a cutoff.
type AuditCleaner interface {
	Cleanup(ctx context.Context, before time.Time) (int64, error)
}

type AuditCleanupWorker struct {
	repo            AuditCleaner
	retentionDays   int
	cleanupInterval time.Duration
	logger          zerolog.Logger
	now             func() time.Time
}

func NewAuditCleanupWorker(repo AuditCleaner, retentionDays int, cleanupInterval time.Duration, logger zerolog.Logger) *AuditCleanupWorker {
	return &AuditCleanupWorker{
		repo:            repo,
		retentionDays:   retentionDays,
		cleanupInterval: cleanupInterval,
		logger:          logger,
		now:             time.Now,
	}
}

func (w *AuditCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error().Err(err).Msg("audit cleanup failed")
			}
		}
	}
}

func (w *AuditCleanupWorker) cleanup(ctx context.Context) error {
	cutoff := w.now().AddDate(0, 0, -w.retentionDays)

	rows, err := w.repo.Cleanup(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup audit entries: %w", err)
	}

	w.logger.Info().Int64("rows", rows).Time("cutoff", cutoff).Msg("cleaned up audit entries")
	return nil
}
