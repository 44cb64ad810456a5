package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

// MaxAnalysisWeeks bounds every weekly window a caller can request.
const MaxAnalysisWeeks = 104

// AnalyticsService answers per-habit questions. Habits owned by another user
// are reported as ErrHabitNotFound.
type AnalyticsService struct {
	habitRepo domain.HabitRepository
	entryRepo domain.HabitEntryRepository
	engine    *analytics.Engine
}

func NewAnalyticsService(habitRepo domain.HabitRepository, entryRepo domain.HabitEntryRepository, engine *analytics.Engine) *AnalyticsService {
	if engine == nil {
		engine = analytics.NewEngine(nil)
	}
	return &AnalyticsService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		engine:    engine,
	}
}

func (s *AnalyticsService) history(ctx context.Context, habitID, userID string) (*domain.Habit, []time.Time, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, nil, err
	}
	if habit.UserID != userID {
		return nil, nil, domain.ErrHabitNotFound
	}

	entries, err := s.entryRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading entries of habit %s: %w", habitID, err)
	}

	return habit, domain.CompletionDates(entries), nil
}

func validateWeeks(weeks int) error {
	if weeks < 1 || weeks > MaxAnalysisWeeks {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidWindow, weeks)
	}
	return nil
}

func (s *AnalyticsService) Snapshot(ctx context.Context, habitID, userID string, periodDays int) (domain.AnalyticsSnapshot, error) {
	habit, dates, err := s.history(ctx, habitID, userID)
	if err != nil {
		return domain.AnalyticsSnapshot{}, err
	}
	return s.engine.Snapshot(habit, dates, periodDays)
}

func (s *AnalyticsService) Streaks(ctx context.Context, habitID, userID string) (domain.StreakSummary, error) {
	habit, dates, err := s.history(ctx, habitID, userID)
	if err != nil {
		return domain.StreakSummary{}, err
	}

	current, err := s.engine.CurrentStreak(dates, habit.Cadence)
	if err != nil {
		return domain.StreakSummary{}, err
	}
	longest, err := s.engine.LongestStreak(dates, habit.Cadence)
	if err != nil {
		return domain.StreakSummary{}, err
	}

	return domain.StreakSummary{
		HabitID: habit.ID,
		Cadence: habit.Cadence,
		Current: current,
		Longest: longest,
	}, nil
}

func (s *AnalyticsService) WeeklyTrend(ctx context.Context, habitID, userID string, weeks int) (domain.WeeklyTrend, error) {
	if err := validateWeeks(weeks); err != nil {
		return domain.WeeklyTrend{}, err
	}

	habit, dates, err := s.history(ctx, habitID, userID)
	if err != nil {
		return domain.WeeklyTrend{}, err
	}

	rates, err := s.engine.WeeklyRateSeries(dates, habit.Cadence, weeks)
	if err != nil {
		return domain.WeeklyTrend{}, err
	}

	return domain.WeeklyTrend{
		HabitID:     habit.ID,
		WeeklyRates: rates,
		Trend:       analytics.Trend(rates),
		Consistency: analytics.ConsistencyScore(rates),
	}, nil
}

func (s *AnalyticsService) Persistence(ctx context.Context, habitID, userID string, weeks int) (domain.PersistencePrediction, error) {
	if err := validateWeeks(weeks); err != nil {
		return domain.PersistencePrediction{}, err
	}

	habit, dates, err := s.history(ctx, habitID, userID)
	if err != nil {
		return domain.PersistencePrediction{}, err
	}
	return s.engine.Persistence(dates, habit.Cadence, weeks)
}

func (s *AnalyticsService) Difficulty(ctx context.Context, habitID, userID string) (domain.DifficultyPrediction, error) {
	habit, dates, err := s.history(ctx, habitID, userID)
	if err != nil {
		return domain.DifficultyPrediction{}, err
	}
	return s.engine.Difficulty(dates, habit.Cadence)
}

func (s *AnalyticsService) StreakContinuation(ctx context.Context, habitID, userID string) (domain.ContinuationPrediction, error) {
	habit, dates, err := s.history(ctx, habitID, userID)
	if err != nil {
		return domain.ContinuationPrediction{}, err
	}
	return s.engine.StreakContinuation(dates, habit.Cadence)
}
