package security

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fixedLimiter(max int, window time.Duration, now time.Time) *MemoryLimiter {
	l := NewMemoryLimiter(max, window)
	l.now = func() time.Time { return now }
	return l
}

func TestMemoryLimiter_BlocksAfterMax(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 5, 0, 0, time.UTC)
	l := fixedLimiter(3, 15*time.Minute, now)

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "hit %d should be allowed", i)
		assert.Equal(t, int64(i), res.CurrentHits)
		assert.Equal(t, int64(3-i), res.Remaining)
	}

	res, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	// Window started at 12:00, so 10 minutes remain.
	assert.Equal(t, 10*time.Minute, res.RetryAfter)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := fixedLimiter(1, time.Minute, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	res, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestMemoryLimiter_NewWindowResets(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 30, 0, time.UTC)
	l := fixedLimiter(1, time.Minute, now)

	res, _ := l.Allow(context.Background(), "ip")
	assert.True(t, res.Allowed)
	res, _ = l.Allow(context.Background(), "ip")
	assert.False(t, res.Allowed)

	l.now = func() time.Time { return now.Add(time.Minute) }
	res, err := l.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.CurrentHits)
}

func newLimitedRouter(limiter Limiter, opts RateLimitOptions) *gin.Engine {
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter, opts))
	r.GET("/api/v1/books", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimitMiddleware_Rejects(t *testing.T) {
	rejected := 0
	r := newLimitedRouter(NewMemoryLimiter(2, 15*time.Minute), RateLimitOptions{
		OnReject: func() { rejected++ },
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 1, rejected)

	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, RateLimitMessage, body.Errors[0].Message)
	assert.Equal(t, "RATE_LIMITED", body.Errors[0].Code)
}

func TestRateLimitMiddleware_SkipPaths(t *testing.T) {
	r := newLimitedRouter(NewMemoryLimiter(1, time.Minute), RateLimitOptions{
		SkipPaths: []string{"/health"},
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Remaining"))
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (Result, error) {
	return Result{}, errors.New("backend down")
}

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := newLimitedRouter(failingLimiter{}, RateLimitOptions{Logger: zap.New(core)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("Rate limiter unavailable, allowing request").Len())
}

func TestRedisLimiter_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedisLimiter(client, "", 10, time.Minute)
	assert.Equal(t, "rl:", l.Prefix)

	_, err := l.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

func TestHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(HeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	expected := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	}
	for header, value := range expected {
		assert.Equal(t, value, w.Header().Get(header), header)
	}
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
}

func TestStrictTransportSecurity(t *testing.T) {
	r := gin.New()
	r.Use(StrictTransportSecurityMiddleware(31536000))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}
