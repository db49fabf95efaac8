package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jwalitptl/admin-console/internal/model"
)

// Manager reads and writes one workspace's persisted session.
type Manager struct {
	store     Store
	namespace string
	now       func() time.Time
}

func NewManager(store Store, namespace string) *Manager {
	return &Manager{store: store, namespace: namespace, now: time.Now}
}

// Save persists the token and the user together.
func (m *Manager) Save(ctx context.Context, token string, user model.CurrentUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, m.namespace, KeyToken, token); err != nil {
		return err
	}
	if err := m.store.Set(ctx, m.namespace, KeyUser, string(raw)); err != nil {
		_ = m.store.Delete(ctx, m.namespace, KeyToken)
		return err
	}
	return nil
}

// Clear removes token and user in one store operation.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Delete(ctx, m.namespace, KeyToken, KeyUser)
}

// Token implements apiclient.TokenSource.
func (m *Manager) Token(ctx context.Context) (string, error) {
	v, _, err := m.store.Get(ctx, m.namespace, KeyToken)
	return v, err
}

// CurrentUser returns nil when nobody is logged in or the stored user is unreadable.
func (m *Manager) CurrentUser(ctx context.Context) (*model.CurrentUser, error) {
	raw, ok, err := m.store.Get(ctx, m.namespace, KeyUser)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var u model.CurrentUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// IsAuthenticated reports whether a token is stored. A JWT whose exp has
// passed does not count; opaque tokens are trusted until the API rejects them.
func (m *Manager) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	return !expired(token, m.now()), nil
}

func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// NewStore builds the backend named by kind: memory, redis or file.
func NewStore(kind string, opts StoreOptions) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(opts.TTL), nil
	case "redis":
		if opts.Redis == nil {
			return nil, fmt.Errorf("%w: redis backend needs a client", ErrUnknownBackend)
		}
		return NewRedisStore(opts.Redis, opts.Prefix, opts.TTL), nil
	case "file":
		return NewFileStore(opts.Dir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
