package console

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/internal/service/appointment"
	"github.com/jwalitptl/admin-console/internal/service/chat"
	"github.com/jwalitptl/admin-console/internal/service/child"
	"github.com/jwalitptl/admin-console/internal/service/comment"
	"github.com/jwalitptl/admin-console/internal/service/dashboard"
	"github.com/jwalitptl/admin-console/internal/service/notification"
	"github.com/jwalitptl/admin-console/internal/service/post"
	"github.com/jwalitptl/admin-console/internal/service/subscription"
	"github.com/jwalitptl/admin-console/internal/service/therapist"
	"github.com/jwalitptl/admin-console/internal/service/user"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// fakeAPI is an in-memory admin API holding just enough state for the
// page controllers.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu            sync.Mutex
	calls         []call
	users         []model.User
	posts         []model.Post
	comments      []model.Comment
	therapists    []model.TherapistProfile
	rooms         []model.ChatRoom
	messages      []model.ChatMessage
	notifications []model.Notification
	plans         []model.PlanVisibility
	subscriptions []model.Subscription
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{t: t}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		role := r.URL.Query().Get("role")
		var out []model.User
		for _, u := range f.users {
			if role == "" || u.Role == role {
				out = append(out, u)
			}
		}
		writeList(w, out)
	})
	mux.HandleFunc("PUT /admin/users/{id}/block", f.setBlocked(true))
	mux.HandleFunc("PUT /admin/users/{id}/unblock", f.setBlocked(false))
	mux.HandleFunc("DELETE /admin/users/{id}", f.ok)
	mux.HandleFunc("POST /admin/users/bulk-block", f.ok)
	mux.HandleFunc("GET /admin/export/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("name,email\nAda,ada@example.com\n"))
	})
	mux.HandleFunc("GET /admin/export/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"export broke"}`))
	})

	mux.HandleFunc("GET /admin/posts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeList(w, f.posts)
	})
	mux.HandleFunc("POST /admin/posts/bulk-approve", f.ok)
	mux.HandleFunc("DELETE /admin/posts/{id}", f.ok)

	mux.HandleFunc("GET /admin/comments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeList(w, f.comments)
	})
	mux.HandleFunc("POST /admin/comments/bulk-approve", f.ok)
	mux.HandleFunc("POST /admin/comments/bulk-reject", f.ok)

	mux.HandleFunc("GET /admin/therapists", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeList(w, f.therapists)
	})
	mux.HandleFunc("GET /admin/therapists/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.therapists {
			if p.ID == r.PathValue("id") {
				writeJSON(w, model.ItemResponse[model.TherapistProfile]{Success: true, Data: p})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, model.ActionResponse{Message: "profile not found"})
	})
	mux.HandleFunc("PUT /admin/therapists/{id}/verify", f.ok)
	mux.HandleFunc("PUT /admin/therapists/{id}/unverify", f.ok)

	mux.HandleFunc("GET /admin/chat/rooms", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeList(w, f.rooms)
	})
	mux.HandleFunc("POST /admin/chat/rooms", func(w http.ResponseWriter, r *http.Request) {
		var req model.CreateRoomRequest
		_ = json.Unmarshal(f.lastBody(), &req)
		writeJSON(w, model.ItemResponse[model.ChatRoom]{Success: true, Data: model.ChatRoom{ID: "r-new", Name: req.Name, Slug: req.Slug}})
	})
	mux.HandleFunc("DELETE /admin/chat/rooms/{id}", f.ok)
	mux.HandleFunc("GET /admin/chat/messages", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeList(w, f.messages)
	})
	mux.HandleFunc("GET /admin/chat/flagged", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var out []model.ChatMessage
		for _, m := range f.messages {
			if m.IsFlagged {
				out = append(out, m)
			}
		}
		writeList(w, out)
	})
	mux.HandleFunc("DELETE /admin/chat/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := r.PathValue("id")
		kept := f.messages[:0]
		for _, m := range f.messages {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		f.messages = kept
		writeJSON(w, model.ActionResponse{Success: true})
	})

	mux.HandleFunc("GET /notifications", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		unread := 0
		for _, n := range f.notifications {
			if !n.IsRead {
				unread++
			}
		}
		writeJSON(w, model.NotificationListResponse{
			Success:       true,
			Notifications: f.notifications,
			Pagination:    &model.Pagination{Page: 1, Limit: 10, Total: len(f.notifications), Pages: 1},
			UnreadCount:   unread,
		})
	})
	mux.HandleFunc("PUT /notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.notifications {
			if f.notifications[i].ID == r.PathValue("id") {
				f.notifications[i].IsRead = true
			}
		}
		writeJSON(w, model.ActionResponse{Success: true})
	})

	mux.HandleFunc("GET /notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		n := 0
		for _, item := range f.notifications {
			if !item.IsRead {
				n++
			}
		}
		writeJSON(w, model.UnreadCountResponse{Success: true, Count: n})
	})
	mux.HandleFunc("PUT /notifications/read-all", func(w http.ResponseWriter, r *http.Request) {
		var req model.MarkAllReadRequest
		_ = json.Unmarshal(f.lastBody(), &req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.notifications {
			if req.Type == "" || f.notifications[i].Type == req.Type {
				f.notifications[i].IsRead = true
			}
		}
		writeJSON(w, model.ActionResponse{Success: true})
	})
	mux.HandleFunc("DELETE /notifications/read", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		kept := f.notifications[:0]
		for _, n := range f.notifications {
			if !n.IsRead {
				kept = append(kept, n)
			}
		}
		f.notifications = kept
		writeJSON(w, model.ActionResponse{Success: true})
	})

	mux.HandleFunc("GET /admin/subscriptions/plan-visibility", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, model.ItemResponse[[]model.PlanVisibility]{Success: true, Data: f.plans})
	})
	mux.HandleFunc("PUT /admin/subscriptions/plan-visibility/{id}", f.ok)
	mux.HandleFunc("POST /admin/subscriptions/plan-visibility", f.ok)
	mux.HandleFunc("GET /admin/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, model.SubscriptionListResponse{
			Success:    true,
			Data:       f.subscriptions,
			Pagination: &model.OffsetPagination{Total: 45, Limit: 20, Skip: 20},
		})
	})
	mux.HandleFunc("GET /admin/subscriptions/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.ItemResponse[model.SubscriptionStats]{Success: true, Data: model.SubscriptionStats{Total: 45, Active: 30}})
	})
	mux.HandleFunc("POST /admin/subscriptions/{id}/cancel", f.ok)
	mux.HandleFunc("POST /admin/subscriptions/assign", func(w http.ResponseWriter, r *http.Request) {
		var req model.AssignSubscriptionRequest
		_ = json.Unmarshal(f.lastBody(), &req)
		writeJSON(w, model.ItemResponse[model.Subscription]{Success: true, Data: model.Subscription{ID: "s-new", Plan: req.Plan, Status: model.SubscriptionActive}})
	})
	mux.HandleFunc("PUT /admin/subscriptions/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.ItemResponse[model.Subscription]{Success: true, Data: model.Subscription{ID: r.PathValue("id")}})
	})
	mux.HandleFunc("GET /admin/subscriptions/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, model.ItemResponse[model.UserSubscriptions]{Success: true, Data: model.UserSubscriptions{Subscriptions: f.subscriptions}})
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		_ = json.Unmarshal(f.lastBody(), &req)
		role := model.RoleParent
		if req.Email == "admin@example.com" {
			role = model.RoleAdmin
		}
		writeJSON(w, model.LoginResponse{
			Success: true,
			Token:   "tok-" + role,
			User:    &model.CurrentUser{ID: "me", Name: "Root", Email: req.Email, Role: role},
		})
	})

	f.srv = httptest.NewServer(f.record(mux))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) ok(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, model.ActionResponse{Success: true})
}

func (f *fakeAPI) setBlocked(blocked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.users {
			if f.users[i].ID == r.PathValue("id") {
				f.users[i].Blocked = blocked
			}
		}
		writeJSON(w, model.ActionResponse{Success: true})
	}
}

// count returns how many requests matched method and path.
func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// last returns the latest request matching method and path.
func (f *fakeAPI) last(method, path string) (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i], true
		}
	}
	return call{}, false
}

func (f *fakeAPI) lastBody() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1].Body
}

func (f *fakeAPI) deps() (Deps, *recorder) {
	api := apiclient.New(f.srv.URL, apiclient.StaticToken("tok"))
	rec := &recorder{}
	return Deps{
		Services: Services{
			Users:         user.NewService(api),
			Posts:         post.NewService(api),
			Comments:      comment.NewService(api),
			Chat:          chat.NewService(api),
			Appointments:  appointment.NewService(api),
			Children:      child.NewService(api),
			Therapists:    therapist.NewService(api),
			Subscriptions: subscription.NewService(api),
			Notifications: notification.NewService(api),
			Dashboard:     dashboard.NewService(api),
		},
		Cache:  query.NewCache(),
		Audit:  rec,
		Logger: zerolog.Nop(),
	}, rec
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, model.ListResponse[T]{
		Success:    true,
		Data:       items,
		Pagination: &model.Pagination{Page: 1, Limit: model.DefaultPageSize, Total: len(items), Pages: 1},
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type recorder struct {
	mu      sync.Mutex
	entries []*model.AuditEntry
}

func (r *recorder) Record(_ context.Context, e *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Page+":"+e.Action+":"+e.Outcome)
	}
	return out
}
