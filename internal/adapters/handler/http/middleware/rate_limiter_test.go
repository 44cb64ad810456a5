package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func limiterRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../../../.env")

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_HOST", "localhost") + ":" + envOr("REDIS_PORT", "6379"),
		Password: envOr("REDIS_PASSWORD", ""),
		DB:       1,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping rate limiter integration test (Redis down): %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

type limitedCall struct {
	ip   string
	user string
}

func (lc limitedCall) send(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.Header.Set("X-Forwarded-For", lc.ip)
	if lc.user != "" {
		req.Header.Set(UserIDHeader, lc.user)
	}
	router.ServeHTTP(w, req)
	return w
}

func limitedRouter(rdb *redis.Client, limit int) *gin.Engine {
	router := gin.New()
	router.Use(RateLimiterMiddleware(rdb, limit, time.Minute))
	router.GET("/limited", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestRateLimitKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		call limitedCall
		want string
	}{
		{"user header wins", limitedCall{ip: "10.1.1.1", user: "alice"}, "rate_limit:user:alice"},
		{"blank user falls back to ip", limitedCall{ip: "10.1.1.2", user: "   "}, "rate_limit:ip:10.1.1.2"},
		{"anonymous", limitedCall{ip: "10.1.1.3"}, "rate_limit:ip:10.1.1.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			router := gin.New()
			router.GET("/limited", func(c *gin.Context) {
				got = rateLimitKey(c)
			})
			tt.call.send(router)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateLimiterMiddleware_Integration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := limiterRedis(t)

	tests := []struct {
		name  string
		limit int
		calls []limitedCall
		codes []int
	}{
		{
			name:  "under the limit",
			limit: 3,
			calls: []limitedCall{{ip: "192.168.1.100"}, {ip: "192.168.1.100"}, {ip: "192.168.1.100"}},
			codes: []int{200, 200, 200},
		},
		{
			name:  "over the limit",
			limit: 2,
			calls: []limitedCall{{ip: "192.168.1.101"}, {ip: "192.168.1.101"}, {ip: "192.168.1.101"}},
			codes: []int{200, 200, 429},
		},
		{
			name:  "users share an ip but not a bucket",
			limit: 1,
			calls: []limitedCall{
				{ip: "10.0.0.1", user: "alice"},
				{ip: "10.0.0.1", user: "bob"},
				{ip: "10.0.0.1", user: "alice"},
			},
			codes: []int{200, 200, 429},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, rdb.FlushDB(context.Background()).Err())
			router := limitedRouter(rdb, tt.limit)

			used := map[limitedCall]int{}
			for i, call := range tt.calls {
				w := call.send(router)
				require.Equal(t, tt.codes[i], w.Code, "call %d", i+1)

				used[call]++
				assert.Equal(t, strconv.Itoa(tt.limit), w.Header().Get("X-RateLimit-Limit"))
				assert.Equal(t, strconv.Itoa(max(0, tt.limit-used[call])), w.Header().Get("X-RateLimit-Remaining"))
				assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

				if w.Code == http.StatusTooManyRequests {
					assert.Contains(t, w.Body.String(), "Too many requests")
					assert.Contains(t, w.Body.String(), "retry_in_s")
				}
			}
		})
	}
}

func TestRateLimiterMiddleware_FailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dead := redis.NewClient(&redis.Options{Addr: "localhost:9999", DialTimeout: 200 * time.Millisecond})
	defer dead.Close()

	w := limitedCall{ip: "172.16.0.9"}.send(limitedRouter(dead, 1))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
