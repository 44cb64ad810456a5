package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

var (
	_ domain.HabitRepository      = (*InMemoryHabitRepository)(nil)
	_ domain.HabitEntryRepository = (*InMemoryEntryRepository)(nil)
)

// InMemoryHabitRepository mirrors the Postgres semantics (soft delete,
// optimistic versioning) without a database. Callers get copies.
type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit.Version = 1
	clone := *habit
	r.store[habit.ID] = &clone
	return nil
}

// live returns the stored, non-deleted habit. Callers hold the lock.
func (r *InMemoryHabitRepository) live(id string) (*domain.Habit, error) {
	h, ok := r.store[id]
	if !ok || h.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return h, nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, err := r.live(id)
	if err != nil {
		return nil, err
	}
	clone := *h
	return &clone, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			habits = append(habits, &clone)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.live(habit.ID)
	if err != nil {
		return err
	}
	if stored.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	clone := *habit
	clone.CurrentStreak, clone.LongestStreak = stored.CurrentStreak, stored.LongestStreak
	r.store[habit.ID] = &clone
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.live(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	h.DeletedAt, h.UpdatedAt = &now, now
	h.Version++
	return nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.live(id)
	if err != nil {
		return err
	}
	h.CurrentStreak, h.LongestStreak = current, longest
	return nil
}

// InMemoryEntryRepository enforces one live entry per habit and day.
type InMemoryEntryRepository struct {
	store map[string]*domain.HabitEntry

	mu sync.RWMutex
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[string]*domain.HabitEntry),
	}
}

func (r *InMemoryEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := domain.CalendarDay(entry.CompletionDate)
	for _, e := range r.store {
		if e.HabitID == entry.HabitID && e.DeletedAt == nil && e.CompletionDate.Equal(day) {
			return domain.ErrEntryConflict
		}
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CompletionDate = day

	clone := *entry
	r.store[entry.ID] = &clone
	return nil
}

func (r *InMemoryEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.store[id]
	if !ok || e.DeletedAt != nil || e.UserID != userID {
		return domain.ErrEntryNotFound
	}

	now := time.Now().UTC()
	e.DeletedAt, e.UpdatedAt = &now, now
	e.Version++
	return nil
}

func (r *InMemoryEntryRepository) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.store[id]
	if !ok || e.DeletedAt != nil {
		return nil, domain.ErrEntryNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *InMemoryEntryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error) {
	return r.list(habitID, time.Time{}, time.Time{}), nil
}

func (r *InMemoryEntryRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	return r.list(habitID, domain.CalendarDay(from), domain.CalendarDay(to)), nil
}

// list returns live entries ordered by date; zero bounds are open.
func (r *InMemoryEntryRepository) list(habitID string, from, to time.Time) []*domain.HabitEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.HabitEntry{}
	for _, e := range r.store {
		if e.HabitID != habitID || e.DeletedAt != nil {
			continue
		}
		if !from.IsZero() && e.CompletionDate.Before(from) {
			continue
		}
		if !to.IsZero() && e.CompletionDate.After(to) {
			continue
		}
		clone := *e
		entries = append(entries, &clone)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CompletionDate.Before(entries[j].CompletionDate)
	})
	return entries
}
