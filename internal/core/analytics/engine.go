package analytics

import (
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

// Engine anchors every recency-sensitive calculation at the date returned by
// its Clock. It holds no other state and is safe for concurrent use.
type Engine struct {
	clock Clock
}

func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	return &Engine{clock: clock}
}

// Today is the calendar date the engine treats as "now".
func (e *Engine) Today() time.Time {
	return Day(e.clock())
}

func (e *Engine) CurrentStreak(dates []time.Time, cadence domain.Cadence) (int, error) {
	if err := cadence.Validate(); err != nil {
		return 0, err
	}
	return currentStreak(dates, cadence, e.Today()), nil
}

func (e *Engine) LongestStreak(dates []time.Time, cadence domain.Cadence) (domain.StreakResult, error) {
	if err := cadence.Validate(); err != nil {
		return domain.StreakResult{}, err
	}
	return longestStreak(dates, cadence), nil
}

// WeeklyRateSeries returns the completion rate of each of the last weeksBack
// ISO weeks, oldest first.
func (e *Engine) WeeklyRateSeries(dates []time.Time, cadence domain.Cadence, weeksBack int) ([]float64, error) {
	if err := cadence.Validate(); err != nil {
		return nil, err
	}
	if weeksBack < 0 {
		return nil, fmt.Errorf("%w: %d weeks", domain.ErrNegativePeriod, weeksBack)
	}
	return weeklyRateSeries(dates, cadence, weeksBack, e.Today()), nil
}

// Persistence scores the last weeksAnalyzed weeks of history.
func (e *Engine) Persistence(dates []time.Time, cadence domain.Cadence, weeksAnalyzed int) (domain.PersistencePrediction, error) {
	rates, err := e.WeeklyRateSeries(dates, cadence, weeksAnalyzed)
	if err != nil {
		return domain.PersistencePrediction{}, err
	}

	if len(dates) == 0 {
		rates = nil
	}
	return ScorePersistence(rates, len(uniqueDays(dates))), nil
}

func (e *Engine) Difficulty(dates []time.Time, cadence domain.Cadence) (domain.DifficultyPrediction, error) {
	if err := cadence.Validate(); err != nil {
		return domain.DifficultyPrediction{}, err
	}
	return predictDifficulty(dates, cadence), nil
}

func (e *Engine) StreakContinuation(dates []time.Time, cadence domain.Cadence) (domain.ContinuationPrediction, error) {
	if err := cadence.Validate(); err != nil {
		return domain.ContinuationPrediction{}, err
	}
	return predictContinuation(dates, cadence, e.Today()), nil
}

// Snapshot builds the aggregate view of one habit. The completion rate covers
// the periodDays days ending today; totals cover the full history.
func (e *Engine) Snapshot(habit *domain.Habit, dates []time.Time, periodDays int) (domain.AnalyticsSnapshot, error) {
	if err := habit.Cadence.Validate(); err != nil {
		return domain.AnalyticsSnapshot{}, err
	}
	if periodDays < 0 {
		return domain.AnalyticsSnapshot{}, fmt.Errorf("%w: %d days", domain.ErrNegativePeriod, periodDays)
	}

	today := e.Today()
	days := uniqueDays(dates)

	var inWindow int
	if periodDays > 0 {
		inWindow = countBetween(days, today.AddDate(0, 0, -(periodDays-1)), today)
	}

	return domain.AnalyticsSnapshot{
		HabitID:                  habit.ID,
		HabitName:                habit.Title,
		Cadence:                  habit.Cadence,
		CurrentStreak:            currentStreak(days, habit.Cadence, today),
		LongestStreak:            longestStreak(days, habit.Cadence),
		TotalCompletions:         len(days),
		CompletionRate:           completionRate(inWindow, habit.Cadence, periodDays),
		AverageWeeklyCompletions: float64(inWindow) / float64(max(1, periodDays/7)),
	}, nil
}
