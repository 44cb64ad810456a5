// Package analytics turns a habit's raw completion dates into streaks, rates,
// trends and heuristic predictions. Every function is pure: inputs are never
// mutated and "today" always comes from an injected Clock.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

// Clock supplies the current instant. Only its calendar date is used.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Day returns the calendar date of t as UTC midnight.
func Day(t time.Time) time.Time {
	return domain.CalendarDay(t)
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

type daySet map[int64]struct{}

func (s daySet) has(t time.Time) bool {
	_, ok := s[t.Unix()]
	return ok
}

func newDaySet(days []time.Time) daySet {
	set := make(daySet, len(days))
	for _, d := range days {
		set[d.Unix()] = struct{}{}
	}
	return set
}

// uniqueDays normalizes dates to calendar days, drops duplicates and sorts ascending.
func uniqueDays(dates []time.Time) []time.Time {
	seen := make(daySet, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, t := range dates {
		d := Day(t)
		if seen.has(d) {
			continue
		}
		seen[d.Unix()] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// uniqueWeeks returns the distinct week starts containing a completion, ascending.
func uniqueWeeks(dates []time.Time) []time.Time {
	starts := make([]time.Time, 0, len(dates))
	for _, t := range dates {
		starts = append(starts, WeekStart(t))
	}
	return uniqueDays(starts)
}

// periodUnits returns the sorted distinct periods of the given cadence.
func periodUnits(dates []time.Time, cadence domain.Cadence) []time.Time {
	if cadence == domain.CadenceWeekly {
		return uniqueWeeks(dates)
	}
	return uniqueDays(dates)
}

// countBetween counts sorted days falling in [from, to].
func countBetween(days []time.Time, from, to time.Time) int {
	n := 0
	for _, d := range days {
		if !d.Before(from) && !d.After(to) {
			n++
		}
	}
	return n
}

func daysBetweenIn(days []time.Time, from, to time.Time) []time.Time {
	var out []time.Time
	for _, d := range days {
		if !d.Before(from) && !d.After(to) {
			out = append(out, d)
		}
	}
	return out
}
