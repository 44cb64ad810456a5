package report

import (
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

const maxWeeks = 104

type Options struct {
	PeriodDays int
	Weeks      int
}

func (o Options) Validate() error {
	if o.PeriodDays < 0 {
		return fmt.Errorf("%w: %d days", domain.ErrNegativePeriod, o.PeriodDays)
	}
	if o.Weeks < 1 || o.Weeks > maxWeeks {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidWindow, o.Weeks)
	}
	return nil
}

type HabitReport struct {
	Snapshot         domain.AnalyticsSnapshot      `json:"snapshot"`
	Active           bool                          `json:"active"`
	DifficultyLevel  string                        `json:"difficulty_level"`
	ConsistencyLabel string                        `json:"consistency_label"`
	Trend            domain.WeeklyTrend            `json:"trend"`
	Persistence      domain.PersistencePrediction  `json:"persistence"`
	Difficulty       domain.DifficultyPrediction   `json:"difficulty"`
	Continuation     domain.ContinuationPrediction `json:"continuation"`
}

type Report struct {
	Today           string                     `json:"today"`
	PeriodDays      int                        `json:"period_days"`
	Weeks           int                        `json:"weeks"`
	Habits          []HabitReport              `json:"habits"`
	Summary         domain.AnalyticsResult     `json:"summary"`
	Rankings        []domain.AnalyticsSnapshot `json:"rankings"`
	Insights        []string                   `json:"insights"`
	Recommendations []string                   `json:"recommendations"`
}

// Build analyzes every habit of the export. Archived habits get a per-habit
// report but are left out of the summary, rankings and advice.
func Build(engine *analytics.Engine, exp *Export, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	today := engine.Today()
	rep := &Report{
		Today:      today.Format("2006-01-02"),
		PeriodDays: opts.PeriodDays,
		Weeks:      opts.Weeks,
		Habits:     make([]HabitReport, 0, len(exp.Habits)),
	}

	var tracked []domain.AnalyticsSnapshot
	for _, eh := range exp.Habits {
		habit, dates, err := eh.Habit(today)
		if err != nil {
			return nil, err
		}

		hr, err := analyzeHabit(engine, habit, dates, opts)
		if err != nil {
			return nil, fmt.Errorf("habit %q: %w", habit.ID, err)
		}
		rep.Habits = append(rep.Habits, hr)

		if hr.Active {
			tracked = append(tracked, hr.Snapshot)
		}
	}

	rankings, err := analytics.RankBy(tracked, domain.RankByCompletionRate, true)
	if err != nil {
		return nil, err
	}

	if rankings == nil {
		rankings = []domain.AnalyticsSnapshot{}
	}

	rep.Summary = analytics.Summarize(tracked)
	rep.Rankings = rankings
	rep.Insights = analytics.Insights(tracked)
	rep.Recommendations = analytics.Recommendations(tracked)

	return rep, nil
}

func analyzeHabit(engine *analytics.Engine, habit *domain.Habit, dates []time.Time, opts Options) (HabitReport, error) {
	snap, err := engine.Snapshot(habit, dates, opts.PeriodDays)
	if err != nil {
		return HabitReport{}, err
	}

	rates, err := engine.WeeklyRateSeries(dates, habit.Cadence, opts.Weeks)
	if err != nil {
		return HabitReport{}, err
	}

	persistence, err := engine.Persistence(dates, habit.Cadence, opts.Weeks)
	if err != nil {
		return HabitReport{}, err
	}

	difficulty, err := engine.Difficulty(dates, habit.Cadence)
	if err != nil {
		return HabitReport{}, err
	}

	continuation, err := engine.StreakContinuation(dates, habit.Cadence)
	if err != nil {
		return HabitReport{}, err
	}

	return HabitReport{
		Snapshot:         snap,
		Active:           habit.IsActive(),
		DifficultyLevel:  snap.DifficultyLevel(),
		ConsistencyLabel: snap.ConsistencyLabel(),
		Trend: domain.WeeklyTrend{
			HabitID:     habit.ID,
			WeeklyRates: rates,
			Trend:       analytics.Trend(rates),
			Consistency: analytics.ConsistencyScore(rates),
		},
		Persistence:  persistence,
		Difficulty:   difficulty,
		Continuation: continuation,
	}, nil
}
