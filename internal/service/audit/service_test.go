package audit

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/internal/model"
)

type fakeRepo struct {
	created []*model.AuditEntry
	err     error
}

func (f *fakeRepo) Create(_ context.Context, e *model.AuditEntry) error {
	f.created = append(f.created, e)
	return f.err
}

func (f *fakeRepo) List(context.Context, model.AuditFilter) ([]*model.AuditEntry, error) {
	return f.created, nil
}

func (f *fakeRepo) Cleanup(context.Context, time.Time) (int64, error) { return 0, nil }

func TestEntryCarriesActorAndOutcome(t *testing.T) {
	ctx := WithActor(context.Background(), Actor{ID: "u1", Email: "root@example.com"})

	e := Entry(ctx, "posts", "bulk-approve", []string{"a", "b"}, map[string]string{"notes": "ok"}, nil)
	assert.Equal(t, "u1", e.ActorID)
	assert.Equal(t, model.AuditOutcomeSuccess, e.Outcome)
	assert.JSONEq(t, `{"notes":"ok"}`, string(e.Metadata))

	failed := Entry(context.Background(), "users", "block", []string{"x"}, nil, errors.New("nope"))
	assert.Equal(t, model.AuditOutcomeFailure, failed.Outcome)
	assert.Equal(t, "nope", failed.Error)
	assert.Empty(t, failed.ActorID)
}

func TestServiceRecord(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	require.NoError(t, svc.Record(context.Background(), Entry(context.Background(), "users", "delete", []string{"u"}, nil, nil)))
	assert.Len(t, repo.created, 1)
}

func TestLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := NewLogRecorder(zerolog.New(&buf))
	require.NoError(t, rec.Record(context.Background(), Entry(context.Background(), "chat", "delete-room", []string{"r1"}, nil, nil)))
	assert.Contains(t, buf.String(), `"action":"delete-room"`)
	assert.Contains(t, buf.String(), `"ids":["r1"]`)
}
