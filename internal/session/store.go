package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Persisted keys. Both live under the workspace namespace.
const (
	KeyToken = "admin_token"
	KeyUser  = "admin_user"
)

// ErrUnknownBackend is returned by NewStore for an unsupported backend name.
var ErrUnknownBackend = errors.New("session: unknown store backend")

// Store is the persisted key-value state behind a console session.
// Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	// Delete removes all keys in one operation.
	Delete(ctx context.Context, namespace string, keys ...string) error
}

func storeKey(namespace, key string) string {
	return namespace + ":" + key
}

// StoreOptions configures NewStore.
type StoreOptions struct {
	TTL    time.Duration
	Redis  redis.UniversalClient
	Prefix string
	Dir    string
}
