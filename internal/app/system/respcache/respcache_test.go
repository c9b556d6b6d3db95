package respcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const testRedisURL = "redis://localhost:6379/15"

// setupRedis returns a client on a scratch DB or skips when Redis is not running.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rdb, err := Connect(ctx, testRedisURL)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		_ = rdb.FlushDB(context.Background()).Err()
		_ = rdb.Close()
	})
	return rdb
}

func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
}

func TestDisabledCacheIsPassthrough(t *testing.T) {
	c := New(nil, time.Minute, zap.NewNop())
	if c.Enabled() {
		t.Fatal("Enabled() should be false without a client")
	}

	var calls int32
	h := c.Middleware("footer")(countingHandler(&calls, http.StatusOK))
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/footer", nil))
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}

	if n, err := c.Invalidate(context.Background(), "footer"); n != 0 || err != nil {
		t.Errorf("Invalidate() = %d, %v, want 0, nil", n, err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil Cache should not be enabled")
	}
}

func TestMiddleware_CachesOK(t *testing.T) {
	rdb := setupRedis(t)
	c := New(rdb, time.Minute, zap.NewNop())

	var calls int32
	h := c.Middleware("footer")(countingHandler(&calls, http.StatusOK))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/footer", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/footer", nil))

	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
	if first.Header().Get("X-Cache") != "miss" || second.Header().Get("X-Cache") != "hit" {
		t.Errorf("X-Cache = %q then %q, want miss then hit", first.Header().Get("X-Cache"), second.Header().Get("X-Cache"))
	}
	if second.Body.String() != `{"success":true}` {
		t.Errorf("cached body = %q", second.Body.String())
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Errorf("cached Content-Type = %q", second.Header().Get("Content-Type"))
	}
}

func TestMiddleware_SkipsErrors(t *testing.T) {
	rdb := setupRedis(t)
	c := New(rdb, time.Minute, zap.NewNop())

	var calls int32
	h := c.Middleware("blogs")(countingHandler(&calls, http.StatusInternalServerError))
	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blogs/latest", nil))
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

func TestInvalidateOnWrite(t *testing.T) {
	rdb := setupRedis(t)
	c := New(rdb, time.Minute, zap.NewNop())

	var reads, writes int32
	get := c.Middleware("footer")(countingHandler(&reads, http.StatusOK))
	put := c.InvalidateOnWrite("footer")(countingHandler(&writes, http.StatusOK))
	other := c.Middleware("header-menu")(countingHandler(&reads, http.StatusOK))

	get.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/footer", nil))
	other.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/header-menu", nil))
	put.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/footer/admin", nil))

	if n, _ := rdb.Exists(context.Background(), KeyPrefix+"footer:/footer").Result(); n != 0 {
		t.Error("footer entry should be purged after a write")
	}
	if n, _ := rdb.Exists(context.Background(), KeyPrefix+"header-menu:/header-menu").Result(); n != 1 {
		t.Error("header-menu entry should survive a footer write")
	}
}
