package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/internal/model"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func storesUnderTest(t *testing.T) map[string]Store {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, client := newRedisClient(t)
	return map[string]Store{
		"memory": NewMemoryStore(0),
		"file":   fs,
		"redis":  NewRedisStore(client, "test:session", 0),
	}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := st.Get(ctx, "ws1", KeyToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, st.Set(ctx, "ws1", KeyToken, "abc"))
			require.NoError(t, st.Set(ctx, "ws2", KeyToken, "other"))

			v, ok, err := st.Get(ctx, "ws1", KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "abc", v)

			require.NoError(t, st.Delete(ctx, "ws1", KeyToken, KeyUser))
			_, ok, _ = st.Get(ctx, "ws1", KeyToken)
			assert.False(t, ok)

			v, _, _ = st.Get(ctx, "ws2", KeyToken)
			assert.Equal(t, "other", v)
		})
	}
}

func TestRedisStoreKeysAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedisClient(t)
	st := NewRedisStore(client, "", time.Hour)

	require.NoError(t, st.Set(ctx, "ws1", KeyUser, `{"id":"u1"}`))
	assert.True(t, mr.Exists("console:session:ws1:admin_user"))
	assert.Equal(t, time.Hour, mr.TTL("console:session:ws1:admin_user"))

	// reads do not extend the expiry
	mr.FastForward(40 * time.Minute)
	_, ok, err := st.Get(ctx, "ws1", KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	mr.FastForward(30 * time.Minute)
	_, ok, err = st.Get(ctx, "ws1", KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiresFromWrite(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(60 * time.Millisecond)

	require.NoError(t, st.Set(ctx, "ws1", KeyToken, "abc"))
	time.Sleep(40 * time.Millisecond)
	_, ok, _ := st.Get(ctx, "ws1", KeyToken)
	assert.True(t, ok)
	time.Sleep(40 * time.Millisecond)
	_, ok, _ = st.Get(ctx, "ws1", KeyToken)
	assert.False(t, ok)
}

func TestManagerLoginLogout(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(0), "ws")

	ok, err := m.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Save(ctx, "opaque-token", model.CurrentUser{ID: "u1", Name: "Root", Role: model.RoleAdmin}))
	ok, _ = m.IsAuthenticated(ctx)
	assert.True(t, ok)

	u, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Root", u.Name)

	require.NoError(t, m.Clear(ctx))
	ok, _ = m.IsAuthenticated(ctx)
	assert.False(t, ok)
	u, _ = m.CurrentUser(ctx)
	assert.Nil(t, u)
}

func TestManagerRejectsExpiredJWT(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(0), "ws")

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("whatever"))
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, signed, model.CurrentUser{ID: "u1", Role: model.RoleAdmin}))

	ok, err := m.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	ok, _ = m.IsAuthenticated(ctx)
	assert.True(t, ok)
}

func TestNewStoreUnknownBackend(t *testing.T) {
	_, err := NewStore("etcd", StoreOptions{})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = NewStore("redis", StoreOptions{})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
