package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

const defaultHabitCacheTTL = 30 * time.Minute

// CachedHabitRepository is a read-through Redis cache in front of another
// HabitRepository. It keeps single habits, which every analytics request
// loads, and per-user habit lists. Writes drop both keys of the habit.
// Redis failures degrade to the wrapped repository.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	cache *redis.Client
	ttl   time.Duration
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client, ttl time.Duration) *CachedHabitRepository {
	if ttl <= 0 {
		ttl = defaultHabitCacheTTL
	}
	return &CachedHabitRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func habitKey(id string) string          { return "habit:" + id }
func userHabitsKey(userID string) string { return "habits:" + userID }

// readThrough serves key from Redis or fills it from load.
func readThrough[T any](ctx context.Context, r *CachedHabitRepository, key string, load func() (T, error)) (T, error) {
	raw, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		log.Printf("[CACHE] Corrupted value under %s, dropping it", key)
		r.cache.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		log.Printf("[CACHE] Redis read error on %s: %v", key, err)
	}

	fresh, err := load()
	if err != nil {
		return fresh, err
	}

	if data, err := json.Marshal(fresh); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl).Err(); err != nil {
			log.Printf("[CACHE] Redis write error on %s: %v", key, err)
		}
	}
	return fresh, nil
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, habitID, userID string) {
	keys := []string{habitKey(habitID)}
	if userID != "" {
		keys = append(keys, userHabitsKey(userID))
	}
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate habit %s: %v", habitID, err)
	}
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return readThrough(ctx, r, habitKey(id), func() (*domain.Habit, error) {
		return r.next.GetByID(ctx, id)
	})
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return readThrough(ctx, r, userHabitsKey(userID), func() ([]*domain.Habit, error) {
		return r.next.ListByUserID(ctx, userID)
	})
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.ID, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	err := r.next.Update(ctx, habit)
	// A version conflict means the cached copy is stale too.
	if err == nil || errors.Is(err, domain.ErrHabitConflict) {
		r.invalidate(ctx, habit.ID, habit.UserID)
	}
	return err
}

// ownerOf looks the owner up in the wrapped store so invalidation does not
// trust a possibly stale cached copy.
func (r *CachedHabitRepository) ownerOf(ctx context.Context, id string) string {
	habit, err := r.next.GetByID(ctx, id)
	if err != nil || habit == nil {
		return ""
	}
	return habit.UserID
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	owner := r.ownerOf(ctx, id)
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id, owner)
	return nil
}

func (r *CachedHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	owner := r.ownerOf(ctx, id)
	if err := r.next.UpdateStreaks(ctx, id, current, longest); err != nil {
		return err
	}
	r.invalidate(ctx, id, owner)
	return nil
}
