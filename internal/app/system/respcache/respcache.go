// Package respcache caches public GET responses in Redis.
//
// Keys are "<KeyPrefix><module>:<request URI>", so one module's entries can be
// purged after an admin write without touching the others. A Cache built
// without a Redis client is a passthrough, which keeps the service usable
// when redis_url is empty.
package respcache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	KeyPrefix      = "stratacms:http:"
	DefaultTTL     = 60 * time.Second
	defaultMaxBody = 1 << 20 // 1 MiB
)

// Connect parses url, creates a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// Cache is a read-through cache for JSON responses.
type Cache struct {
	rdb     *redis.Client
	ttl     time.Duration
	maxBody int
	logger  *zap.Logger
}

// New returns a Cache. rdb may be nil to disable caching.
func New(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, maxBody: defaultMaxBody, logger: logger}
}

// Enabled reports whether responses are actually cached.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	BodyBase64  string `json:"body_base64"`
}

// Middleware serves cached GET responses for module and stores fresh 200s.
func (c *Cache) Middleware(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !c.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || bypass(r) {
				next.ServeHTTP(w, r)
				return
			}

			key := c.key(module, r.URL.RequestURI())
			if body, contentType, ok := c.read(r.Context(), key); ok {
				w.Header().Set("Content-Type", contentType)
				w.Header().Set("X-Cache", "hit")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}

			w.Header().Set("X-Cache", "miss")
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK, max: c.maxBody}
			next.ServeHTTP(cw, r)

			if !cacheable(cw.status, w.Header()) || cw.overflow || len(cw.body) == 0 {
				return
			}
			raw, err := json.Marshal(cachedResponse{
				Status:      cw.status,
				ContentType: w.Header().Get("Content-Type"),
				BodyBase64:  base64.StdEncoding.EncodeToString(cw.body),
			})
			if err != nil {
				return
			}
			if err := c.rdb.Set(r.Context(), key, raw, c.ttl).Err(); err != nil {
				c.logger.Warn("response cache set failed", zap.String("key", key), zap.Error(err))
			}
		})
	}
}

// InvalidateOnWrite purges module's entries after any successful non-GET
// request passing through it.
func (c *Cache) InvalidateOnWrite(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !c.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			sw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			if sw.status >= http.StatusBadRequest {
				return
			}
			// The request context may already be cancelled by a client disconnect.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
			defer cancel()
			if _, err := c.Invalidate(ctx, module); err != nil {
				c.logger.Warn("response cache purge failed", zap.String("module", module), zap.Error(err))
			}
		})
	}
}

// Invalidate deletes every cached entry of module and returns the number removed.
func (c *Cache) Invalidate(ctx context.Context, module string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	var (
		cursor  uint64
		deleted int64
	)
	pattern := c.key(module, "*")
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Ping checks the Redis connection. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) key(module, uri string) string {
	return KeyPrefix + module + ":" + uri
}

func (c *Cache) read(ctx context.Context, key string) ([]byte, string, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("response cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, "", false
	}
	var payload cachedResponse
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Status != http.StatusOK {
		return nil, "", false
	}
	body, err := base64.StdEncoding.DecodeString(payload.BodyBase64)
	if err != nil {
		return nil, "", false
	}
	if payload.ContentType == "" {
		payload.ContentType = "application/json"
	}
	return body, payload.ContentType, true
}

func bypass(r *http.Request) bool {
	cc := strings.ToLower(r.Header.Get("Cache-Control"))
	return strings.Contains(cc, "no-cache") || strings.Contains(cc, "no-store")
}

func cacheable(status int, h http.Header) bool {
	if status != http.StatusOK {
		return false
	}
	cc := strings.ToLower(h.Get("Cache-Control"))
	return !strings.Contains(cc, "no-store") && !strings.Contains(cc, "private")
}

// captureWriter records the status and, up to max bytes, the body.
type captureWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        []byte
	max         int
	overflow    bool
}

func (w *captureWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	if w.max > 0 && !w.overflow {
		if len(w.body)+len(b) > w.max {
			w.overflow = true
			w.body = nil
		} else {
			w.body = append(w.body, b...)
		}
	}
	return w.ResponseWriter.Write(b)
}
