package repository

import (
	"context"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	rdb := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       2,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping cache integration test (Redis down): %v", err)
	}
	require.NoError(t, rdb.FlushDB(ctx).Err())
	t.Cleanup(func() { rdb.Close() })

	return rdb
}

func TestCachedHabitRepository_Integration(t *testing.T) {
	rdb := setupTestRedis(t)
	ctx := context.Background()

	backing := NewInMemoryHabitRepository()
	repo := NewCachedHabitRepository(backing, rdb, time.Minute)

	h, err := domain.NewHabit("user-1", "Read", "", domain.CadenceDaily)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, h))

	t.Run("List populates the cache", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, domain.CadenceDaily, list[0].Cadence)

		ttl, err := rdb.TTL(ctx, "habits:user-1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Reads are served from the cache", func(t *testing.T) {
		// Bypass the decorator so only the backing store changes.
		other, _ := domain.NewHabit("user-1", "Hidden", "", domain.CadenceWeekly)
		require.NoError(t, backing.Create(ctx, other))

		list, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("Single habits are cached", func(t *testing.T) {
		got, err := repo.GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Read", got.Title)

		exists, err := rdb.Exists(ctx, "habit:"+h.ID).Result()
		require.NoError(t, err)
		assert.EqualValues(t, 1, exists)
	})

	t.Run("Misses are not cached", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)

		exists, err := rdb.Exists(ctx, "habit:ghost").Result()
		require.NoError(t, err)
		assert.Zero(t, exists)
	})

	t.Run("Writes invalidate", func(t *testing.T) {
		require.NoError(t, repo.UpdateStreaks(ctx, h.ID, 4, 9))

		exists, err := rdb.Exists(ctx, "habits:user-1", "habit:"+h.ID).Result()
		require.NoError(t, err)
		assert.Zero(t, exists)

		got, err := repo.GetByID(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.CurrentStreak)

		list, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("Corrupted entries fall through to the store", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "habits:user-1", "{not json", time.Minute).Err())

		list, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestCachedHabitRepository_RedisDown(t *testing.T) {
	ctx := context.Background()
	backing := NewInMemoryHabitRepository()
	dead := redis.NewClient(&redis.Options{Addr: "localhost:9999", DialTimeout: 200 * time.Millisecond})
	defer dead.Close()

	repo := NewCachedHabitRepository(backing, dead, 0)

	h, _ := domain.NewHabit("user-1", "Walk", "", domain.CadenceDaily)
	require.NoError(t, repo.Create(ctx, h))

	list, err := repo.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Walk", got.Title)
}
