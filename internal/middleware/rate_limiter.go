package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Bhadra-Indranil/HealthCare-System/internal/handler"
)

// RateLimiter throttles per-client request rates. A redis backend makes
// the counters shared across instances; without one it degrades to an
// in-process limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		client:   client,
		limit:    limit,
		window:   window,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed := true
		if rl.client != nil {
			ok, err := rl.allowRedis(c.Request.Context(), ip)
			if err != nil {
				// Redis being down must not take the API with it.
				log.Warn().Err(err).Msg("rate limiter falling back to in-memory")
				allowed = rl.allowLocal(ip)
			} else {
				allowed = ok
			}
		} else {
			allowed = rl.allowLocal(ip)
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.NewErrorResponse("Rate limit exceeded"))
			return
		}
		c.Next()
	}
}

// allowRedis runs a fixed-window counter keyed by client IP.
func (rl *RateLimiter) allowRedis(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%d", ip, time.Now().Unix()/int64(rl.window.Seconds()))

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(rl.limit), nil
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(rl.limit)/rl.window.Seconds()), rl.limit)
		rl.limiters[ip] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}
