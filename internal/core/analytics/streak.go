package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

// run is a maximal sequence of consecutive periods.
type run struct {
	start  time.Time
	end    time.Time
	length int
}

// currentStreak counts the unbroken run of periods ending at today's period.
// Daily habits get one day of grace: a missing today anchors at yesterday.
func currentStreak(dates []time.Time, cadence domain.Cadence, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	step := cadence.PeriodDays()
	units := periodUnits(dates, cadence)
	set := newDaySet(units)

	var anchor time.Time
	if cadence == domain.CadenceWeekly {
		anchor = WeekStart(today)
	} else {
		anchor = Day(today)
		if !set.has(anchor) {
			anchor = anchor.AddDate(0, 0, -1)
		}
	}

	streak := 0
	for set.has(anchor) {
		streak++
		anchor = anchor.AddDate(0, 0, -step)
	}
	return streak
}

// findRuns splits sorted unique units into runs; a gap other than exactly
// one step breaks the run.
func findRuns(units []time.Time, step int) []run {
	if len(units) == 0 {
		return nil
	}

	var runs []run
	cur := run{start: units[0], end: units[0], length: 1}

	for i := 1; i < len(units); i++ {
		if DaysBetween(units[i-1], units[i]) == step {
			cur.end = units[i]
			cur.length++
			continue
		}
		runs = append(runs, cur)
		cur = run{start: units[i], end: units[i], length: 1}
	}

	return append(runs, cur)
}

func longestStreak(dates []time.Time, cadence domain.Cadence) domain.StreakResult {
	runs := findRuns(periodUnits(dates, cadence), cadence.PeriodDays())
	if len(runs) == 0 {
		return domain.StreakResult{}
	}

	best := runs[0]
	for _, r := range runs[1:] {
		if r.length > best.length {
			best = r
		}
	}

	start, end := best.start, best.end
	if cadence == domain.CadenceWeekly {
		start, end = completionBounds(uniqueDays(dates), best.start, best.end)
	}

	return domain.StreakResult{
		Length: best.length,
		Start:  &start,
		End:    &end,
	}
}

// completionBounds maps a run of week starts back to the first and last
// actual completion days inside it.
func completionBounds(days []time.Time, firstWeek, lastWeek time.Time) (time.Time, time.Time) {
	inRun := daysBetweenIn(days, firstWeek, lastWeek.AddDate(0, 0, 6))
	return inRun[0], inRun[len(inRun)-1]
}

// historicalStreaks returns the lengths of every multi-period run in the history.
func historicalStreaks(dates []time.Time, cadence domain.Cadence) []int {
	var lengths []int
	for _, r := range findRuns(periodUnits(dates, cadence), cadence.PeriodDays()) {
		if r.length > 1 {
			lengths = append(lengths, r.length)
		}
	}
	return lengths
}
