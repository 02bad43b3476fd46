package security

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitMessage is returned to clients that exceeded their quota.
const RateLimitMessage = "Too many requests, please try again later."

// Result describes the outcome of one Allow call.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func windowKey(prefix, key string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", prefix, strings.ReplaceAll(key, " ", "_"), windowStart.Unix())
}

func newResult(hits, max int64, ttl, window time.Duration) Result {
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = time.Duration(math.Ceil(window.Seconds())) * time.Second
		}
	}
	return res
}

// MemoryLimiter keeps window counters in process memory. Counters are not
// shared between instances; use RedisLimiter for that.
type MemoryLimiter struct {
	store  *gocache.Cache
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		store:  gocache.New(window, time.Minute),
		prefix: "rl:",
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	windowStart := now.Truncate(l.window)
	k := windowKey(l.prefix, key, windowStart)
	ttl := windowStart.Add(l.window).Sub(now)

	var hits int64
	for attempt := 0; attempt < 2; attempt++ {
		if err := l.store.Add(k, int64(1), ttl); err == nil {
			hits = 1
			break
		}
		n, err := l.store.IncrementInt64(k, 1)
		if err == nil {
			hits = n
			break
		}
		// The counter expired between Add and IncrementInt64; start over.
	}
	if hits == 0 {
		return Result{}, fmt.Errorf("rate limit counter %s unavailable", k)
	}

	return newResult(hits, l.max, ttl, l.window), nil
}

// RedisLimiter is a fixed window limiter shared by every instance that
// points at the same Redis (INCR + EXPIRE).
type RedisLimiter struct {
	Client *redis.Client
	Prefix string
	Max    int64
	Window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{
		Client: client,
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	redisKey := windowKey(l.Prefix, key, now.Truncate(l.Window))

	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit %s: %w", redisKey, err)
	}

	// Expiry is set on the first hit of the window.
	if incr.Val() == 1 {
		if err := l.Client.Expire(ctx, redisKey, l.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit expire %s: %w", redisKey, err)
		}
		ttl = l.Client.TTL(ctx, redisKey)
	}

	return newResult(incr.Val(), l.Max, ttl.Val(), l.Window), nil
}

// RateLimitOptions configures RateLimitMiddleware.
type RateLimitOptions struct {
	Logger *zap.Logger
	// SkipPaths are served without counting (health checks, metrics scrapes).
	SkipPaths []string
	// OnReject runs for every request answered with 429.
	OnReject func()
}

// RateLimitMiddleware limits requests per client IP. When the limiter itself
// fails the request is let through and the failure is logged.
func RateLimitMiddleware(limiter Limiter, opts RateLimitOptions) gin.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("Rate limiter unavailable, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		if res.WindowTTL > 0 {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(math.Ceil(res.WindowTTL.Seconds())), 10))
		}

		if !res.Allowed {
			if opts.OnReject != nil {
				opts.OnReject()
			}
			c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(res.RetryAfter.Seconds())), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"errors": []gin.H{{
					"field":   "rate",
					"message": RateLimitMessage,
					"code":    "RATE_LIMITED",
				}},
			})
			return
		}

		c.Next()
	}
}
