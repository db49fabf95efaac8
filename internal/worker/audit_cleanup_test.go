package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCleaner struct {
	cutoffs chan time.Time
	err     error
}

func (r *recordingCleaner) Cleanup(_ context.Context, before time.Time) (int64, error) {
	select {
	case r.cutoffs <- before:
	default:
	}
	return 3, r.err
}

func TestCleanupUsesRetention(t *testing.T) {
	rc := &recordingCleaner{cutoffs: make(chan time.Time, 1)}
	w := NewAuditCleanupWorker(rc, 30, time.Hour, zerolog.Nop())
	fixed := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	require.NoError(t, w.cleanup(context.Background()))
	assert.Equal(t, time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC), <-rc.cutoffs)
}

func TestStartRunsOnTickAndStops(t *testing.T) {
	rc := &recordingCleaner{cutoffs: make(chan time.Time, 10)}
	w := NewAuditCleanupWorker(rc, 1, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-rc.cutoffs:
	case <-time.After(time.Second):
		t.Fatal("cleanup never ran")
	}
	cancel()
	<-done
}
