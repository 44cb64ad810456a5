package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

const (
	// trendThreshold is the minimum absolute slope (rate points per week) or
	// trend score that counts as a real trend.
	trendThreshold = 0.1

	// maxMeaningfulVariance is 50 squared: the widest spread of weekly rates
	// still considered partly consistent.
	maxMeaningfulVariance = 2500.0
)

// CompletionRate returns completions per expected period as a percentage.
// The result is not capped at 100.
func CompletionRate(completions int, cadence domain.Cadence, periodDays int) (float64, error) {
	if err := cadence.Validate(); err != nil {
		return 0, err
	}
	if periodDays < 0 {
		return 0, fmt.Errorf("%w: %d days", domain.ErrNegativePeriod, periodDays)
	}
	if completions < 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrNegativeCompletions, completions)
	}

	return completionRate(completions, cadence, periodDays), nil
}

func completionRate(completions int, cadence domain.Cadence, periodDays int) float64 {
	if periodDays == 0 {
		return 0
	}

	expected := periodDays
	if cadence == domain.CadenceWeekly {
		expected = max(1, periodDays/7)
	}

	return float64(completions) / float64(expected) * 100
}

// weeklyRateSeries returns one rate per ISO week for the last weeksBack weeks,
// the current partial week included, oldest first.
func weeklyRateSeries(dates []time.Time, cadence domain.Cadence, weeksBack int, today time.Time) []float64 {
	days := uniqueDays(dates)
	rates := make([]float64, weeksBack)
	currentWeek := WeekStart(today)

	for offset := 0; offset < weeksBack; offset++ {
		start := currentWeek.AddDate(0, 0, -7*offset)
		end := start.AddDate(0, 0, 6)
		n := countBetween(days, start, end)

		var rate float64
		if cadence == domain.CadenceWeekly {
			if n > 0 {
				rate = 100
			}
		} else {
			rate = float64(n) / 7 * 100
		}

		rates[weeksBack-1-offset] = rate
	}

	return rates
}

// Trend fits a least-squares line over (index, rate).
func Trend(series []float64) domain.TrendResult {
	if len(series) < 2 {
		return domain.TrendResult{
			Direction:        domain.TrendStable,
			InsufficientData: true,
		}
	}

	slope := linearSlope(series)
	direction := directionOf(slope)

	var change float64
	if first := series[0]; first != 0 {
		change = (series[len(series)-1] - first) / first * 100
	}

	return domain.TrendResult{
		Direction:     direction,
		Slope:         slope,
		ChangePercent: change,
	}
}

// ConsistencyScore maps the variance of a rate series onto [0, 1], 1 being
// perfectly steady.
func ConsistencyScore(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	return math.Max(0, 1-sampleVariance(series)/maxMeaningfulVariance)
}

func directionOf(v float64) domain.TrendDirection {
	switch {
	case v > trendThreshold:
		return domain.TrendImproving
	case v < -trendThreshold:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// TrendScore is the Pearson correlation of (index, rate), in [-1, 1].
// It is 0 for fewer than two points or a constant series.
func TrendScore(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	mx := float64(len(series)-1) / 2
	my := mean(series)

	var cov, vx, vy float64
	for i, y := range series {
		dx, dy := float64(i)-mx, y-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}

	if vy == 0 {
		return 0
	}
	return clamp(cov/math.Sqrt(vx*vy), -1, 1)
}

func linearSlope(ys []float64) float64 {
	n := float64(len(ys))

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleVariance uses the n-1 denominator.
func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return sum / float64(len(xs)-1)
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
