package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// MetricsHandler measures requests and serves the scrape endpoint.
type MetricsHandler interface {
	Middleware() gin.HandlerFunc
	Handler() gin.HandlerFunc
}

type Router struct {
	engine   *gin.Engine
	config   RouterConfig
	registry *console.Registry
	sessions sessions.Store

	health    Handler
	metrics   MetricsHandler
	public    []Handler
	protected []Handler
}

type RouterConfig struct {
	Logger     zerolog.Logger
	RateLimit  middleware.RateLimiterConfig
	CORS       middleware.CORSConfig
	Security   middleware.SecurityConfig
	SizeLimit  middleware.SizeLimitConfig
	Validation middleware.ValidationConfig
	Release    bool
}

// NewRouter builds the engine with the core middleware chain. Handlers are
// attached with Public and Protected, then mounted by Setup.
func NewRouter(registry *console.Registry, store sessions.Store, health Handler, metrics MetricsHandler, config RouterConfig) (*Router, error) {
	if config.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.RegisterValidation(config.Validation); err != nil {
		return nil, err
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		config:   config,
		registry: registry,
		sessions: store,
		health:   health,
		metrics:  metrics,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(config.Logger),
		middleware.Recovery(),
		middleware.ErrorLogger(),
	)
	if metrics != nil {
		engine.Use(metrics.Middleware())
	}
	engine.Use(
		middleware.CORS(config.CORS),
		middleware.SecurityHeaders(config.Security),
		middleware.SizeLimit(config.SizeLimit),
	)

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r, nil
}

// Public adds handlers served to workspaces without a login.
func (r *Router) Public(h ...Handler) *Router {
	r.public = append(r.public, h...)
	return r
}

// Protected adds handlers that need an authenticated admin.
func (r *Router) Protected(h ...Handler) *Router {
	r.protected = append(r.protected, h...)
	return r
}

func (r *Router) Setup() {
	if r.health != nil {
		r.health.RegisterRoutes(&r.engine.RouterGroup)
	}
	if r.metrics != nil {
		r.engine.GET("/metrics", r.metrics.Handler())
	}

	api := r.engine.Group("")
	api.Use(middleware.Workspace(r.sessions, r.registry))

	for _, h := range r.public {
		h.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(
		middleware.RequireAuth(),
		middleware.AuditActor(),
	)
	for _, h := range r.protected {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
