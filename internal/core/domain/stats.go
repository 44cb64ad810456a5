package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRankMetric = errors.New("invalid rank metric")
)

// AnalyticsSnapshot is the per-habit unit ranked and summarized by the aggregator.
type AnalyticsSnapshot struct {
	HabitID                  string       `json:"habit_id"`
	HabitName                string       `json:"habit_name"`
	Cadence                  Cadence      `json:"cadence"`
	CurrentStreak            int          `json:"current_streak"`
	LongestStreak            StreakResult `json:"longest_streak"`
	TotalCompletions         int          `json:"total_completions"`
	CompletionRate           float64      `json:"completion_rate"`
	AverageWeeklyCompletions float64      `json:"average_weekly_completions"`
}

func (s AnalyticsSnapshot) DifficultyLevel() string {
	switch {
	case s.CompletionRate >= 80:
		return "Easy"
	case s.CompletionRate >= 60:
		return "Moderate"
	case s.CompletionRate >= 40:
		return "Challenging"
	default:
		return "Difficult"
	}
}

func (s AnalyticsSnapshot) ConsistencyLabel() string {
	switch {
	case s.CompletionRate >= 90 && s.CurrentStreak >= 7:
		return "Excellent"
	case s.CompletionRate >= 75 && s.CurrentStreak >= 5:
		return "Very Good"
	case s.CompletionRate >= 60 && s.CurrentStreak >= 3:
		return "Good"
	case s.CompletionRate >= 40:
		return "Needs Improvement"
	default:
		return "Just Started"
	}
}

// AnalyticsResult summarizes a set of snapshots.
type AnalyticsResult struct {
	TotalHabits          int     `json:"total_habits"`
	DailyHabits          int     `json:"daily_habits"`
	WeeklyHabits         int     `json:"weekly_habits"`
	MeanCompletionRate   float64 `json:"mean_completion_rate"`
	MedianCompletionRate float64 `json:"median_completion_rate"`
	MaxCurrentStreak     int     `json:"max_current_streak"`
	MaxLongestStreak     int     `json:"max_longest_streak"`
	TotalCompletions     int     `json:"total_completions"`
	BestHabitID          string  `json:"best_habit_id,omitempty"`
	BestHabitName        string  `json:"best_habit_name,omitempty"`
}

type RankMetric string

const (
	RankByCompletionRate   RankMetric = "completion_rate"
	RankByCurrentStreak    RankMetric = "current_streak"
	RankByLongestStreak    RankMetric = "longest_streak"
	RankByTotalCompletions RankMetric = "total_completions"
)

func ParseRankMetric(s string) (RankMetric, error) {
	m := RankMetric(strings.ToLower(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m RankMetric) Validate() error {
	switch m {
	case RankByCompletionRate, RankByCurrentStreak, RankByLongestStreak, RankByTotalCompletions:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRankMetric, string(m))
	}
}

// StatsOverview is everything the dashboard shows for one user.
type StatsOverview struct {
	Summary         AnalyticsResult     `json:"summary"`
	Rankings        []AnalyticsSnapshot `json:"rankings"`
	Insights        []string            `json:"insights"`
	Recommendations []string            `json:"recommendations"`
}
