package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/config"
	"github.com/jwalitptl/admin-console/internal/console"
	"github.com/jwalitptl/admin-console/internal/handler/appointment"
	auditHandler "github.com/jwalitptl/admin-console/internal/handler/audit"
	"github.com/jwalitptl/admin-console/internal/handler/auth"
	"github.com/jwalitptl/admin-console/internal/handler/chat"
	"github.com/jwalitptl/admin-console/internal/handler/comment"
	"github.com/jwalitptl/admin-console/internal/handler/dashboard"
	"github.com/jwalitptl/admin-console/internal/handler/health"
	"github.com/jwalitptl/admin-console/internal/handler/notification"
	"github.com/jwalitptl/admin-console/internal/handler/post"
	"github.com/jwalitptl/admin-console/internal/handler/prometheus"
	"github.com/jwalitptl/admin-console/internal/handler/subscription"
	"github.com/jwalitptl/admin-console/internal/handler/therapist"
	"github.com/jwalitptl/admin-console/internal/handler/user"
	"github.com/jwalitptl/admin-console/internal/middleware"
	"github.com/jwalitptl/admin-console/internal/repository/postgres"
	"github.com/jwalitptl/admin-console/internal/router"
	auditService "github.com/jwalitptl/admin-console/internal/service/audit"
	"github.com/jwalitptl/admin-console/internal/session"
	"github.com/jwalitptl/admin-console/internal/worker"
	"github.com/jwalitptl/admin-console/pkg/logger"
	"github.com/jwalitptl/admin-console/pkg/messaging"
	"github.com/jwalitptl/admin-console/pkg/messaging/redis"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Console:    cfg.Log.Console,
		Service:    "admin-console",
	})
	logger.SetGlobal(lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(cfg.Metrics.Namespace)

	// Redis backs the session store and the bell broadcast when configured
	var rdb *goredis.Client
	var broker messaging.Broker = messaging.NewMemoryBroker()
	if cfg.Redis.URL != "" {
		rb, err := redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, lg.ZL.With().Str("component", "broker").Logger())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		rdb = rb.Client()
		broker = rb
	}
	defer broker.Close()

	storeOpts := session.StoreOptions{
		TTL:    cfg.Session.TTL,
		Prefix: cfg.Session.Prefix,
		Dir:    cfg.Session.Dir,
	}
	if rdb != nil {
		storeOpts.Redis = rdb
	}
	store, err := session.NewStore(cfg.Session.Backend, storeOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session store")
	}

	// Audit entries go to postgres when a database is configured
	var db *sqlx.DB
	var recorder auditService.Recorder = auditService.NewLogRecorder(lg.ZL.With().Str("component", "audit").Logger())
	var auditSvc *auditService.Service
	if cfg.Database.Enabled() {
		db, err = postgres.NewDB(cfg.Database.Postgres())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		if err := postgres.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate audit schema")
		}

		repo := postgres.NewAuditRepository(postgres.NewBaseRepository(db))
		auditSvc = auditService.NewService(repo, m)
		recorder = auditSvc

		cleanup := worker.NewAuditCleanupWorker(repo, cfg.Audit.RetentionDays, cfg.Audit.CleanupInterval,
			lg.ZL.With().Str("component", "audit-cleanup").Logger())
		go cleanup.Start(ctx)
	}

	registry := console.NewRegistry(console.Config{
		APIBaseURL:   cfg.API.BaseURL,
		HTTPClient:   &http.Client{Timeout: cfg.API.Timeout},
		Breaker:      apiclient.NewBreaker("admin-api", cfg.API.BreakerFailures, cfg.API.BreakerTimeout, m),
		Store:        store,
		Broker:       broker,
		Audit:        recorder,
		Metrics:      m,
		Logger:       lg.ZL,
		BellInterval: cfg.Bell.Interval,
		IdleTTL:      cfg.Session.IdleTTL,
	})
	defer registry.Close()

	cookies := middleware.NewCookieStore(middleware.CookieOptions{
		Path:     "/",
		Domain:   cfg.Cookie.Domain,
		MaxAge:   cfg.Cookie.MaxAgeDays * 24 * 60 * 60,
		Secure:   cfg.Cookie.Secure,
		HTTPOnly: true,
	}, cookieKeys(cfg.Cookie)...)

	var metricsH router.MetricsHandler
	if cfg.Metrics.Enabled {
		ph, err := prometheus.New(cfg.Metrics.Namespace, m)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register metrics")
		}
		metricsH = ph
	}

	limit := rate.Limit(cfg.RateLimit.RequestsPerSecond)
	if !cfg.RateLimit.Enabled {
		limit = rate.Inf
	}

	r, err := router.NewRouter(registry, cookies, health.NewHandler(db), metricsH, router.RouterConfig{
		Logger:     lg.ZL,
		RateLimit:  middleware.RateLimiterConfig{Rate: limit, Burst: cfg.RateLimit.Burst},
		CORS:       middleware.DefaultCORSConfig(cfg.Security.AllowedOrigins...),
		Security:   middleware.DefaultSecurityConfig(cfg.Security.TLS),
		SizeLimit:  middleware.DefaultSizeLimitConfig(),
		Validation: middleware.DefaultValidationConfig(),
		Release:    cfg.Server.Release,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	r.Public(auth.NewHandler(registry))
	r.Protected(
		dashboard.NewHandler(),
		user.NewHandler(),
		post.NewHandler(),
		comment.NewHandler(),
		chat.NewHandler(),
		appointment.NewHandler(),
		therapist.NewHandler(),
		subscription.NewHandler(),
		notification.NewHandler(broker, registry),
	)
	if auditSvc != nil {
		r.Protected(auditHandler.NewHandler(auditSvc))
	}
	r.Setup()

	// WriteTimeout defaults to 0 so bell streams are not cut off
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("api", cfg.API.BaseURL).Msg("starting admin console")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

// cookieKeys decodes the configured hex keys. Without a hash key a random
// one is generated, so cookies do not survive a restart.
func cookieKeys(c config.CookieConfig) [][]byte {
	hashKey, err := hex.DecodeString(c.HashKey)
	if err != nil || len(hashKey) == 0 {
		if c.HashKey != "" {
			log.Warn().Msg("cookie hash key is not valid hex, generating one")
		} else {
			log.Warn().Msg("no cookie hash key configured, generating one")
		}
		hashKey = securecookie.GenerateRandomKey(64)
	}
	keys := [][]byte{hashKey}

	if c.BlockKey != "" {
		blockKey, err := hex.DecodeString(c.BlockKey)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("ignoring cookie block key that is not valid hex")
		case len(blockKey) != 16 && len(blockKey) != 24 && len(blockKey) != 32:
			log.Warn().Int("bytes", len(blockKey)).Msg("ignoring cookie block key of invalid length")
		default:
			keys = append(keys, blockKey)
		}
	}
	return keys
}
