package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

type HabitService struct {
	repo domain.HabitRepository
}

func NewHabitService(repo domain.HabitRepository) *HabitService {
	return &HabitService{
		repo: repo,
	}
}

type CreateHabitInput struct {
	UserID      string
	Title       string
	Description string
	Cadence     domain.Cadence
}

// UpdateHabitInput leaves a field unchanged when it holds its zero value.
type UpdateHabitInput struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Cadence     domain.Cadence
	Version     int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	if input.Cadence == 0 {
		input.Cadence = domain.CadenceDaily
	}

	habit, err := domain.NewHabit(input.UserID, input.Title, input.Description, input.Cadence)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

// GetByID hides habits owned by someone else behind ErrHabitNotFound.
func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string, activeOnly bool) ([]*domain.Habit, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if activeOnly {
		return analytics.TrackedHabits(habits), nil
	}
	return habits, nil
}

func (s *HabitService) ListByCadence(ctx context.Context, userID string, cadence domain.Cadence) ([]*domain.Habit, error) {
	if err := cadence.Validate(); err != nil {
		return nil, err
	}

	habits, err := s.ListByUserID(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	return analytics.HabitsWithCadence(habits, cadence), nil
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	desc := habit.Description
	if input.Description != nil {
		desc = *input.Description
	}

	cadence := habit.Cadence
	if input.Cadence != 0 {
		cadence = input.Cadence
	}

	if err := habit.Update(mergeString(input.Title, habit.Title), desc, cadence); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

// Archive stops tracking a habit without losing its history.
func (s *HabitService) Archive(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	habit.Archive()
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Restore(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	habit.Restore()
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
