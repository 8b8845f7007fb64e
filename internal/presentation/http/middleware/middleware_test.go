package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-relay/internal/config"
	"github.com/sangkips/receipt-relay/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepo) GetByKey(ctx context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[key+"|"+endpoint], nil
}

func (r *memoryIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.Key+"|"+ikey.Endpoint] = ikey
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

func countingRouter(mw gin.HandlerFunc, status int) (*gin.Engine, *int) {
	calls := 0
	router := gin.New()
	router.Use(mw)
	router.POST("/generate-and-send", func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"success": status == http.StatusOK, "sid": "SM" + string(rune('0'+calls))})
	})
	return router, &calls
}

func post(router http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/generate-and-send", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	router, calls := countingRouter(Idempotency(IdempotencyConfig{Repo: repo, TTL: time.Hour}), http.StatusOK)

	first := post(router, "abc")
	second := post(router, "abc")

	assert.Equal(t, 1, *calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
}

func TestIdempotency_WithoutKeyEveryCallRuns(t *testing.T) {
	router, calls := countingRouter(Idempotency(IdempotencyConfig{Repo: newMemoryIdempotencyRepo()}), http.StatusOK)

	a := post(router, "")
	b := post(router, "")

	assert.Equal(t, 2, *calls)
	assert.NotEqual(t, a.Body.String(), b.Body.String())
}

func TestIdempotency_FailuresAreNotStored(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	router, calls := countingRouter(Idempotency(IdempotencyConfig{Repo: repo}), http.StatusInternalServerError)

	post(router, "abc")
	post(router, "abc")

	assert.Equal(t, 2, *calls)
	assert.Empty(t, repo.keys)
}

func TestIdempotency_ExpiredKeyRunsAgain(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	repo.keys["abc|POST /generate-and-send"] = &entity.IdempotencyKey{
		Key:          "abc",
		Endpoint:     "POST /generate-and-send",
		ResponseCode: http.StatusOK,
		ResponseBody: `{"success":true,"sid":"old"}`,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	router, calls := countingRouter(Idempotency(IdempotencyConfig{Repo: repo}), http.StatusOK)

	w := post(router, "abc")
	assert.Equal(t, 1, *calls)
	assert.NotContains(t, w.Body.String(), "old")
}

func TestClientRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/generate-and-send", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, post(router, "").Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, rl.Stats()["active_clients"])
}

func TestRateLimiterConfigFromWindow(t *testing.T) {
	cfg := RateLimiterConfigFromWindow(30, 60)
	assert.Equal(t, 0.5, cfg.RequestsPerSecond)
	assert.Equal(t, 30, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimiterConfig(), RateLimiterConfigFromWindow(0, 0))
}

func TestClientRateLimiter_Cleanup(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Nanosecond})
	defer rl.Stop()

	rl.getLimiter("10.0.0.1")
	time.Sleep(time.Millisecond)
	rl.cleanup()

	assert.Equal(t, 0, rl.Stats()["active_clients"])
}

func TestLoggerMiddleware_SetsRequestID(t *testing.T) {
	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/health", func(c *gin.Context) {
		id, ok := c.Get("request_id")
		require.True(t, ok)
		c.String(http.StatusOK, id.(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-1", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestCORSMiddleware_AllowsAnyOriginByDefault(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware(&config.CORSConfig{}))
	router.POST("/generate-and-send", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/generate-and-send", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
