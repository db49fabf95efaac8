package console

import (
	"context"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/internal/service/appointment"
	"github.com/jwalitptl/admin-console/internal/service/audit"
	"github.com/jwalitptl/admin-console/internal/service/auth"
	"github.com/jwalitptl/admin-console/internal/service/chat"
	"github.com/jwalitptl/admin-console/internal/service/child"
	"github.com/jwalitptl/admin-console/internal/service/comment"
	"github.com/jwalitptl/admin-console/internal/service/dashboard"
	"github.com/jwalitptl/admin-console/internal/service/notification"
	"github.com/jwalitptl/admin-console/internal/service/post"
	"github.com/jwalitptl/admin-console/internal/service/subscription"
	"github.com/jwalitptl/admin-console/internal/service/therapist"
	"github.com/jwalitptl/admin-console/internal/service/user"
	"github.com/jwalitptl/admin-console/internal/session"
	"github.com/jwalitptl/admin-console/pkg/circuitbreaker"
	"github.com/jwalitptl/admin-console/pkg/messaging"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

// Workspace is the console state of one browser session: its persisted
// login, its API client and every page controller.
type Workspace struct {
	ID      string
	Session *session.Manager
	Auth    *auth.Service
	Cache   *query.Cache

	Dashboard      *DashboardPage
	Users          *UsersPage
	Posts          *PostsPage
	Comments       *CommentsPage
	Chat           *ChatPage
	Appointments   *AppointmentsPage
	Children       *ChildrenPage
	Therapists     *TherapistsPage
	Subscriptions  *SubscriptionsPage
	PlanVisibility *PlanVisibilityPage
	Analytics      *AnalyticsPage
	Notifications  *NotificationsPage
	Bell           *Bell

	logger zerolog.Logger
	mu     sync.Mutex
	bellOn bool
}

// Config is what the registry builds workspaces from.
type Config struct {
	APIBaseURL   string
	HTTPClient   *http.Client
	Breaker      *circuitbreaker.CircuitBreaker
	Store        session.Store
	Broker       messaging.Broker
	Audit        audit.Recorder
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	BellInterval time.Duration
	IdleTTL      time.Duration
}

// NewWorkspace wires a workspace whose API calls carry the token stored
// under its own session namespace.
func NewWorkspace(id string, cfg Config) *Workspace {
	sess := session.NewManager(cfg.Store, id)

	var opts []apiclient.Option
	if cfg.HTTPClient != nil {
		opts = append(opts, apiclient.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Breaker != nil {
		opts = append(opts, apiclient.WithBreaker(cfg.Breaker))
	}
	if cfg.Metrics != nil {
		opts = append(opts, apiclient.WithMetrics(cfg.Metrics))
	}
	api := apiclient.New(cfg.APIBaseURL, sess, opts...)

	cache := query.NewCache()
	if cfg.Metrics != nil {
		cache.OnSuperseded = cfg.Metrics.SupersededFetches.Inc
	}

	logger := cfg.Logger.With().Str("workspace", id).Logger()
	d := Deps{
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
		Cache:   cache,
		Audit:   cfg.Audit,
		Metrics: cfg.Metrics,
		Logger:  logger,
	}
	return newWorkspace(id, sess, auth.NewService(api, sess), d, cfg.Broker, cfg.BellInterval)
}

func newWorkspace(id string, sess *session.Manager, authSvc *auth.Service, d Deps, broker messaging.Broker, bellInterval time.Duration) *Workspace {
	return &Workspace{
		ID:             id,
		Session:        sess,
		Auth:           authSvc,
		Cache:          d.Cache,
		Dashboard:      NewDashboardPage(d),
		Users:          NewUsersPage(d),
		Posts:          NewPostsPage(d),
		Comments:       NewCommentsPage(d),
		Chat:           NewChatPage(d),
		Appointments:   NewAppointmentsPage(d),
		Children:       NewChildrenPage(d),
		Therapists:     NewTherapistsPage(d),
		Subscriptions:  NewSubscriptionsPage(d),
		PlanVisibility: NewPlanVisibilityPage(d),
		Analytics:      NewAnalyticsPage(d),
		Notifications:  NewNotificationsPage(d),
		Bell:           NewBell(d, broker, id, bellInterval),
		logger:         d.Logger,
	}
}

// Login authenticates the workspace and starts its bell.
func (w *Workspace) Login(ctx context.Context, email, password string) (*model.CurrentUser, error) {
	u, err := w.Auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	w.StartBell()
	w.logger.Info().Str("user_id", u.ID).Msg("admin logged in")
	return u, nil
}

// Logout clears the persisted session and stops the bell.
func (w *Workspace) Logout(ctx context.Context) error {
	w.StopBell()
	return w.Auth.Logout(ctx)
}

// StartBell starts polling unless it already runs. The poller outlives
// the request that started it.
func (w *Workspace) StartBell() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.bellOn {
		return
	}
	w.bellOn = true
	w.Bell.Start(context.Background())
}

func (w *Workspace) StopBell() {
	w.mu.Lock()
	on := w.bellOn
	w.bellOn = false
	w.mu.Unlock()
	if on {
		w.Bell.Stop()
	}
}

func (w *Workspace) Close() {
	w.StopBell()
}

// Registry holds the live workspaces. A workspace idle for longer than
// the TTL is evicted and its bell stopped; its persisted session survives.
type Registry struct {
	cfg   Config
	ttl   time.Duration
	mu    sync.Mutex
	items *gocache.Cache
}

func NewRegistry(cfg Config) *Registry {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &Registry{cfg: cfg, ttl: ttl, items: gocache.New(ttl, ttl/2)}
	r.items.OnEvicted(func(id string, v interface{}) {
		if ws, ok := v.(*Workspace); ok {
			ws.Close()
		}
		if cfg.Metrics != nil {
			cfg.Metrics.Workspaces.Dec()
		}
		cfg.Logger.Debug().Str("workspace", id).Msg("workspace evicted")
	})
	return r
}

// Get returns the workspace for id, creating it on first use. Every call
// extends the workspace's idle deadline.
func (r *Registry) Get(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.items.Get(id); ok {
		r.items.SetDefault(id, v)
		return v.(*Workspace)
	}
	// Expired entries still linger until the janitor runs; evict them so
	// their bells stop before a replacement is stored.
	r.items.DeleteExpired()
	ws := NewWorkspace(id, r.cfg)
	r.items.SetDefault(id, ws)
	if r.cfg.Metrics != nil {
		r.cfg.Metrics.Workspaces.Inc()
	}
	return ws
}

// Remove evicts id now.
func (r *Registry) Remove(id string) {
	r.items.Delete(id)
}

// Logout ends the admin session of ws and evicts it. The next request on
// the same cookie gets a fresh workspace: no rows, selection, drafts,
// dialogs or bell state survive.
func (r *Registry) Logout(ctx context.Context, ws *Workspace) error {
	err := ws.Logout(ctx)
	r.Remove(ws.ID)
	return err
}

// Touch extends the idle deadline of id if it is still live.
func (r *Registry) Touch(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items.Get(id)
	if ok {
		r.items.SetDefault(id, v)
	}
	return ok
}

// KeepAlive touches id until ctx is done. Long-lived requests such as the
// bell stream use it, since they issue no further requests of their own.
func (r *Registry) KeepAlive(ctx context.Context, id string) {
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.Touch(id) {
				return
			}
		}
	}
}

func (r *Registry) Len() int {
	return r.items.ItemCount()
}

// Close evicts every workspace.
func (r *Registry) Close() {
	for id := range r.items.Items() {
		r.items.Delete(id)
	}
}
