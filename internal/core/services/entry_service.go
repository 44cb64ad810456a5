package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/workers"
)

type EntryService struct {
	repo      domain.HabitEntryRepository
	habitRepo domain.HabitRepository
	worker    *workers.StreakWorker
	engine    *analytics.Engine
}

func NewEntryService(repo domain.HabitEntryRepository, habitRepo domain.HabitRepository, worker *workers.StreakWorker, engine *analytics.Engine) *EntryService {
	if engine == nil {
		engine = analytics.NewEngine(nil)
	}
	return &EntryService{
		repo:      repo,
		habitRepo: habitRepo,
		worker:    worker,
		engine:    engine,
	}
}

type CompleteHabitInput struct {
	HabitID string
	UserID  string
	// CompletionDate defaults to today when zero.
	CompletionDate time.Time
	Notes          string
}

func (s *EntryService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return habit, nil
}

// Complete records a completion. A second completion on the same day fails
// with ErrEntryConflict.
func (s *EntryService) Complete(ctx context.Context, input CompleteHabitInput) (*domain.HabitEntry, error) {
	date := input.CompletionDate
	if date.IsZero() {
		date = s.engine.Today()
	}

	entry := domain.NewHabitEntry(input.HabitID, input.UserID, date, input.Notes)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.ownedHabit(ctx, entry.HabitID, entry.UserID)
	if err != nil {
		return nil, err
	}
	if !habit.IsActive() {
		return nil, domain.ErrHabitArchived
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.enqueue(entry.HabitID)

	return entry, nil
}

func (s *EntryService) GetByID(ctx context.Context, id string, userID string) (*domain.HabitEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return entry, nil
}

// ListByHabitID returns the habit's entries between from and to, both
// inclusive. Two zero bounds return the whole history.
func (s *EntryService) ListByHabitID(ctx context.Context, habitID string, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	if from.IsZero() && to.IsZero() {
		return s.repo.ListByHabitID(ctx, habitID)
	}

	if to.IsZero() {
		to = s.engine.Today()
	}
	from, to = domain.CalendarDay(from), domain.CalendarDay(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	return s.repo.ListByHabitIDWithRange(ctx, habitID, from, to)
}

// IsCompletedOn checks a single day, today when date is zero.
func (s *EntryService) IsCompletedOn(ctx context.Context, habitID, userID string, date time.Time) (bool, error) {
	if date.IsZero() {
		date = s.engine.Today()
	}
	day := domain.CalendarDay(date)
	entries, err := s.ListByHabitID(ctx, habitID, userID, day, day)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

func (s *EntryService) Delete(ctx context.Context, id string, userID string) error {
	entry, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.enqueue(entry.HabitID)

	return nil
}

func (s *EntryService) enqueue(habitID string) {
	if s.worker != nil {
		s.worker.Enqueue(habitID)
	}
}
