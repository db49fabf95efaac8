package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/admin-console/pkg/httputil"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// Idle drops the limiter of a client not seen for this long.
	Idle time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config   RateLimiterConfig
	limiters *gocache.Cache
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Idle <= 0 {
		config.Idle = 10 * time.Minute
	}
	return &RateLimiter{
		config:   config,
		limiters: gocache.New(config.Idle, config.Idle),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		rl.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	if err := rl.limiters.Add(key, l, gocache.DefaultExpiration); err != nil {
		// lost the race to another request from the same client
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: http.StatusTooManyRequests, Message: "rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}
