package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/pkg/errors"
)

func TestClientSendsBearerAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/admin/users", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", StaticToken("tok"))
	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/admin/users", url.Values{"page": {"2"}}, &out))
	assert.Equal(t, "yes", out["ok"])
}

func TestClientOmitsEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, StaticToken("")).Delete(context.Background(), "/notifications/read", nil))
}

func TestClientStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   errors.ErrorCode
	}{
		{http.StatusBadRequest, errors.ErrBadRequest},
		{http.StatusUnprocessableEntity, errors.ErrBadRequest},
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusForbidden, errors.ErrForbidden},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusInternalServerError, errors.ErrInternal},
		{http.StatusBadGateway, errors.ErrInternal},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"server says no"}`))
			}))
			defer srv.Close()

			err := New(srv.URL, nil).Put(context.Background(), "/admin/posts/abc12345/approve", map[string]string{}, nil)
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.CodeOf(err))

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "server says no", appErr.Message)
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := New(srv.URL, nil).Get(context.Background(), "/admin/users", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrTransport))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, WithBreaker(NewBreaker("admin-api", 2, time.Minute, nil)))
	for i := 0; i < 2; i++ {
		assert.True(t, errors.Is(c.Get(context.Background(), "/x", nil, nil), errors.ErrInternal))
	}
	err := c.Get(context.Background(), "/x", nil, nil)
	assert.True(t, errors.Is(err, errors.ErrTransport))
	assert.Equal(t, 2, calls)
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, WithBreaker(NewBreaker("admin-api", 1, time.Minute, nil)))
	for i := 0; i < 3; i++ {
		assert.True(t, errors.Is(c.Get(context.Background(), "/x", nil, nil), errors.ErrNotFound))
	}
}

func TestDownloadPassesBytesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("blocked"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("name,email\nann,a@x\n"))
	}))
	defer srv.Close()

	b, err := New(srv.URL, nil).Download(context.Background(), "/admin/export/users", url.Values{"blocked": {"true"}})
	require.NoError(t, err)
	assert.Equal(t, "name,email\nann,a@x\n", string(b))
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/admin/users/:id/block", endpointLabel("/admin/users/64b7f0c2a1e4/block"))
	assert.Equal(t, "/admin/posts/bulk-approve", endpointLabel("/admin/posts/bulk-approve"))
}
