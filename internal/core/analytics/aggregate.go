package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

const (
	maxRecommendations = 5
	strugglingRate     = 30.0
	excellentRate      = 80.0
	lowAverageRate     = 60.0
	highAverageRate    = 85.0
	balanceMinHabits   = 3
	maxCalledOut       = 2
)

// Summarize aggregates snapshots; an empty input yields a zero result.
func Summarize(snapshots []domain.AnalyticsSnapshot) domain.AnalyticsResult {
	var res domain.AnalyticsResult
	if len(snapshots) == 0 {
		return res
	}

	rates := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		res.TotalHabits++
		switch s.Cadence {
		case domain.CadenceDaily:
			res.DailyHabits++
		case domain.CadenceWeekly:
			res.WeeklyHabits++
		}
		res.TotalCompletions += s.TotalCompletions
		res.MaxCurrentStreak = max(res.MaxCurrentStreak, s.CurrentStreak)
		res.MaxLongestStreak = max(res.MaxLongestStreak, s.LongestStreak.Length)
		rates = append(rates, s.CompletionRate)
	}

	res.MeanCompletionRate = mean(rates)
	res.MedianCompletionRate = median(rates)

	if best, ok := LongestRunAcrossHabits(snapshots); ok {
		res.BestHabitID = best.HabitID
		res.BestHabitName = best.HabitName
	}

	return res
}

// RankBy returns a stably sorted copy of snapshots.
func RankBy(snapshots []domain.AnalyticsSnapshot, metric domain.RankMetric, descending bool) ([]domain.AnalyticsSnapshot, error) {
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	ranked := append([]domain.AnalyticsSnapshot(nil), snapshots...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := metricValue(ranked[i], metric), metricValue(ranked[j], metric)
		if descending {
			return a > b
		}
		return a < b
	})
	return ranked, nil
}

func metricValue(s domain.AnalyticsSnapshot, metric domain.RankMetric) float64 {
	switch metric {
	case domain.RankByCurrentStreak:
		return float64(s.CurrentStreak)
	case domain.RankByLongestStreak:
		return float64(s.LongestStreak.Length)
	case domain.RankByTotalCompletions:
		return float64(s.TotalCompletions)
	default:
		return s.CompletionRate
	}
}

// LongestRunAcrossHabits returns the habit holding the longest streak ever
// recorded. Ties keep the first habit; false when no habit has a streak.
func LongestRunAcrossHabits(snapshots []domain.AnalyticsSnapshot) (domain.AnalyticsSnapshot, bool) {
	var best domain.AnalyticsSnapshot
	found := false
	for _, s := range snapshots {
		if s.LongestStreak.Length > best.LongestStreak.Length {
			best = s
			found = true
		}
	}
	return best, found
}

// Insights returns rule-based observations about a set of habits.
func Insights(snapshots []domain.AnalyticsSnapshot) []string {
	insights := []string{}
	if len(snapshots) == 0 {
		return insights
	}

	var daily, weekly []float64
	difficult, excellent := 0, 0
	var leader *domain.AnalyticsSnapshot

	for i := range snapshots {
		s := &snapshots[i]
		switch s.Cadence {
		case domain.CadenceDaily:
			daily = append(daily, s.CompletionRate)
		case domain.CadenceWeekly:
			weekly = append(weekly, s.CompletionRate)
		}
		if s.DifficultyLevel() == "Difficult" {
			difficult++
		}
		if s.ConsistencyLabel() == "Excellent" {
			excellent++
		}
		if s.CurrentStreak > 0 && (leader == nil || s.CurrentStreak > leader.CurrentStreak) {
			leader = s
		}
	}

	if len(daily) > 0 && len(weekly) > 0 {
		d, w := mean(daily), mean(weekly)
		stronger := "daily"
		if w > d {
			stronger = "weekly"
		}
		insights = append(insights, fmt.Sprintf(
			"Daily habits average %.1f%% completion versus %.1f%% for weekly habits; your %s habits are stronger",
			d, w, stronger))
	}

	if difficult*2 > len(snapshots) {
		insights = append(insights, fmt.Sprintf(
			"%d of %d habits are rated Difficult; consider simplifying some of them",
			difficult, len(snapshots)))
	}

	if leader != nil {
		insights = append(insights, fmt.Sprintf(
			"%s has your longest active streak at %d %s",
			leader.HabitName, leader.CurrentStreak, periodNoun(leader.Cadence, leader.CurrentStreak)))
	} else {
		insights = append(insights, "None of your habits has an active streak right now")
	}

	if excellent > 0 {
		insights = append(insights, fmt.Sprintf("%d %s excellent consistency", excellent, pluralize(excellent, "habit shows", "habits show")))
	}

	return insights
}

// Recommendations returns at most five suggestions for a set of habits.
func Recommendations(snapshots []domain.AnalyticsSnapshot) []string {
	recs := []string{}
	if len(snapshots) == 0 {
		return recs
	}

	var struggling []string
	excellent, noStreak := 0, 0
	for _, s := range snapshots {
		if s.CompletionRate < strugglingRate {
			struggling = append(struggling, s.HabitName)
		}
		if s.CompletionRate > excellentRate {
			excellent++
		}
		if s.CurrentStreak == 0 {
			noStreak++
		}
	}

	if len(struggling) > 0 {
		names := struggling[:min(maxCalledOut, len(struggling))]
		recs = append(recs, fmt.Sprintf("Focus on: %s - they need the most attention", strings.Join(names, ", ")))
	}

	if excellent > 0 {
		recs = append(recs, fmt.Sprintf("Great job with %d %s! Keep up the momentum", excellent, pluralize(excellent, "habit", "habits")))
	}

	if noStreak > 0 {
		recs = append(recs, "Try to build a streak with at least one habit this week")
	}

	summary := Summarize(snapshots)
	switch {
	case summary.WeeklyHabits == 0 && summary.DailyHabits >= balanceMinHabits:
		recs = append(recs, "All your habits are daily - a weekly habit can add variety without daily pressure")
	case summary.DailyHabits == 0 && summary.WeeklyHabits >= balanceMinHabits:
		recs = append(recs, "Consider adding a daily habit to keep momentum between weekly check-ins")
	}

	switch {
	case summary.MeanCompletionRate < lowAverageRate:
		recs = append(recs, "Consider reducing the number of habits to focus on consistency")
	case summary.MeanCompletionRate > highAverageRate:
		recs = append(recs, "You're doing amazing! Consider adding a new challenging habit")
	}

	if len(recs) == 0 {
		recs = append(recs, "You're on the right track! Keep maintaining your habits")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// CategorizeDifficulty maps a completion rate onto a six-tier label.
func CategorizeDifficulty(rate float64) string {
	switch {
	case rate >= 90:
		return "Very Easy"
	case rate >= 75:
		return "Easy"
	case rate >= 60:
		return "Moderate"
	case rate >= 40:
		return "Challenging"
	case rate >= 20:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}

// TrackedHabits keeps only habits that are neither archived nor deleted.
func TrackedHabits(habits []*domain.Habit) []*domain.Habit {
	out := []*domain.Habit{}
	for _, h := range habits {
		if h != nil && h.IsActive() {
			out = append(out, h)
		}
	}
	return out
}

func HabitsWithCadence(habits []*domain.Habit, cadence domain.Cadence) []*domain.Habit {
	out := []*domain.Habit{}
	for _, h := range habits {
		if h != nil && h.Cadence == cadence {
			out = append(out, h)
		}
	}
	return out
}

func periodNoun(c domain.Cadence, n int) string {
	if c == domain.CadenceWeekly {
		return pluralize(n, "week", "weeks")
	}
	return pluralize(n, "day", "days")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
