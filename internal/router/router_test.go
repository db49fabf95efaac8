package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler/auth"
	"github.com/jwalitptl/admin-console/internal/handler/chat"
	"github.com/jwalitptl/admin-console/internal/handler/dashboard"
	"github.com/jwalitptl/admin-console/internal/handler/health"
	"github.com/jwalitptl/admin-console/internal/handler/notification"
	"github.com/jwalitptl/admin-console/internal/handler/user"
	"github.com/jwalitptl/admin-console/internal/middleware"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/session"
	"github.com/jwalitptl/admin-console/pkg/messaging"
)

// adminAPI fakes the few admin API endpoints these tests drive.
type adminAPI struct {
	srv *httptest.Server

	mu    sync.Mutex
	calls []string
}

func newAdminAPI(t *testing.T) *adminAPI {
	a := &adminAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		role := model.RoleTeacher
		if req.Email == "admin@example.com" {
			role = model.RoleAdmin
		}
		writeJSON(w, model.LoginResponse{
			Success: true,
			Token:   "tok-" + role,
			User:    &model.CurrentUser{ID: "admin-1", Name: "Root", Email: req.Email, Role: role},
		})
	})
	mux.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.ListResponse[model.User]{
			Success: true,
			Data: []model.User{
				{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: model.RoleParent},
				{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: model.RoleTeacher},
			},
			Pagination: &model.Pagination{Page: 1, Limit: 20, Total: 2, Pages: 1},
		})
	})
	mux.HandleFunc("DELETE /admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.ActionResponse{Success: true})
	})
	mux.HandleFunc("GET /admin/export/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("name,email\nAda,ada@example.com\n"))
	})
	mux.HandleFunc("GET /notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.NotificationListResponse{
			Success: true,
			Notifications: []model.Notification{
				{ID: "n1", Type: model.NotificationContentFlagged, Title: "Flagged", CreatedAt: time.Now()},
			},
			Pagination:  &model.Pagination{Page: 1, Limit: 10, Total: 1, Pages: 1},
			UnreadCount: 1,
		})
	})

	a.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.calls = append(a.calls, r.Method+" "+r.URL.Path)
		a.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(a.srv.Close)
	return a
}

func (a *adminAPI) count(call string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if c == call {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type auditLog struct {
	mu      sync.Mutex
	entries []*model.AuditEntry
}

func (l *auditLog) Record(_ context.Context, e *model.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Confirm string `json:"confirm"`
	} `json:"error"`
}

type consoleServer struct {
	srv    *httptest.Server
	client *http.Client
	api    *adminAPI
	audit  *auditLog
}

func newConsoleServer(t *testing.T) *consoleServer {
	gin.SetMode(gin.TestMode)
	api := newAdminAPI(t)
	log := &auditLog{}
	broker := messaging.NewMemoryBroker()

	registry := console.NewRegistry(console.Config{
		APIBaseURL:   api.srv.URL,
		Store:        session.NewMemoryStore(time.Hour),
		Broker:       broker,
		Audit:        log,
		Logger:       zerolog.Nop(),
		BellInterval: time.Hour,
		IdleTTL:      time.Hour,
	})
	t.Cleanup(registry.Close)

	cookies := middleware.NewCookieStore(middleware.CookieOptions{Path: "/", HTTPOnly: true},
		[]byte("0123456789abcdef0123456789abcdef"))

	r, err := NewRouter(registry, cookies, health.NewHandler(nil), nil, RouterConfig{
		Logger:     zerolog.Nop(),
		RateLimit:  middleware.RateLimiterConfig{Rate: rate.Inf},
		CORS:       middleware.DefaultCORSConfig(),
		Security:   middleware.DefaultSecurityConfig(false),
		SizeLimit:  middleware.DefaultSizeLimitConfig(),
		Validation: middleware.DefaultValidationConfig(),
	})
	require.NoError(t, err)
	r.Public(auth.NewHandler(registry))
	r.Protected(dashboard.NewHandler(), user.NewHandler(), chat.NewHandler(), notification.NewHandler(broker, registry))
	r.Setup()

	srv := httptest.NewServer(r.Engine())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &consoleServer{srv: srv, client: &http.Client{Jar: jar}, api: api, audit: log}
}

func (s *consoleServer) do(t *testing.T, method, path, body string) (*http.Response, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	} else {
		env.Data = raw
	}
	return resp, env
}

func (s *consoleServer) login(t *testing.T) {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)
}

func TestHealthNeedsNoSession(t *testing.T) {
	s := newConsoleServer(t)
	resp, _ := s.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Values("Set-Cookie"))
}

func TestPagesRequireLogin(t *testing.T) {
	s := newConsoleServer(t)

	resp, env := s.do(t, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, resp.Header.Values("Set-Cookie"))
	assert.Zero(t, s.api.count("GET /admin/users"))
}

func TestLoginBindsWorkspace(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)

	resp, env := s.do(t, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Items []model.User `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.Items, 2)

	resp, env = s.do(t, http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me model.CurrentUser
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "admin@example.com", me.Email)
}

func TestNonAdminLoginForbidden(t *testing.T) {
	s := newConsoleServer(t)

	resp, env := s.do(t, http.MethodPost, "/auth/login", `{"email":"teacher@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "admin access required", env.Error.Message)

	resp, _ = s.do(t, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginValidation(t *testing.T) {
	s := newConsoleServer(t)

	resp, env := s.do(t, http.MethodPost, "/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Zero(t, s.api.count("POST /auth/login"))
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)
	s.do(t, http.MethodGet, "/users", "")

	resp, env := s.do(t, http.MethodDelete, "/users/u1", "")
	assert.Equal(t, http.StatusPreconditionRequired, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.NotEmpty(t, env.Error.Confirm)
	assert.Zero(t, s.api.count("DELETE /admin/users/u1"))

	resp, _ = s.do(t, http.MethodDelete, "/users/u1?confirm=true", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, s.api.count("DELETE /admin/users/u1"))

	s.audit.mu.Lock()
	defer s.audit.mu.Unlock()
	require.Len(t, s.audit.entries, 1)
	assert.Equal(t, "admin@example.com", s.audit.entries[0].ActorEmail)
	assert.Equal(t, "delete", s.audit.entries[0].Action)
}

func TestExportIsAttachment(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)

	resp, env := s.do(t, http.MethodGet, "/users/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	want := console.ExportFilename("users", time.Now())
	assert.Equal(t, `attachment; filename="`+want+`"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "name,email\nAda,ada@example.com\n", string(env.Data))
}

func TestPageValidation(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)

	resp, _ := s.do(t, http.MethodPost, "/users/page", `{"page":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownChatTab(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)

	resp, _ := s.do(t, http.MethodPost, "/chat/tab", `{"tab":"archive"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBellStateAfterLogin(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)

	require.Eventually(t, func() bool {
		_, env := s.do(t, http.MethodGet, "/notifications/bell", "")
		var state console.BellState
		return json.Unmarshal(env.Data, &state) == nil && state.Unread == 1
	}, time.Second, 10*time.Millisecond)

	resp, env := s.do(t, http.MethodGet, "/layout?path=/users", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var layout console.LayoutView
	require.NoError(t, json.Unmarshal(env.Data, &layout))
	assert.Equal(t, "Root", layout.Header.UserName)
	assert.Equal(t, "1", layout.Header.Bell.Badge)
}

func TestLogoutEndsSession(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)

	resp, _ := s.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutDropsPageState(t *testing.T) {
	s := newConsoleServer(t)
	s.login(t)
	s.do(t, http.MethodGet, "/users", "")

	resp, env := s.do(t, http.MethodPost, "/users/select/u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view struct {
		Selected []string `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Equal(t, []string{"u1"}, view.Selected)

	resp, _ = s.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.login(t)

	resp, env = s.do(t, http.MethodPost, "/users/bulk-block", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "no rows selected", env.Error.Message)
	assert.Zero(t, s.api.count("POST /admin/users/bulk-block"))
}
