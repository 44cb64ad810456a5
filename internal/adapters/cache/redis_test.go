package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testOptions() Options {
	_ = godotenv.Load("../../../.env")

	return Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       1,
	}
}

func TestOptions_Addr(t *testing.T) {
	assert.Equal(t, "cache.internal:6380", Options{Host: "cache.internal", Port: "6380"}.Addr())
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Options{Host: "localhost", Port: "9999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "localhost:9999")
}

func TestConnect_Integration(t *testing.T) {
	rdb, err := Connect(context.Background(), testOptions())
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err(), "Failed to flush test DB")

	t.Run("Set and Get Value", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "habits:probe", "[]", time.Minute).Err())

		val, err := rdb.Get(ctx, "habits:probe").Result()
		assert.NoError(t, err)
		assert.Equal(t, "[]", val)
	})

	t.Run("Expire Check", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "habits:expiring", "x", time.Second).Err())

		time.Sleep(1100 * time.Millisecond)

		_, err := rdb.Get(ctx, "habits:expiring").Result()
		assert.ErrorIs(t, err, redis.Nil)
	})
}
