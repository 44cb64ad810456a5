package analytics

import (
	"math"
	"time"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

// Persistence model weights.
const (
	persistenceFloor   = 0.05
	persistenceCeiling = 0.95
	trendWeight        = 0.3
	consistencyWeight  = 0.2
	recencyWeight      = 0.3
	minRatePoints      = 2
	recentWeeks        = 2
)

// Difficulty model thresholds.
const (
	minDifficultyRecords  = 7
	highConfidenceRecords = 14
	noGapDropoutRisk      = 0.1
	maxDropoutRisk        = 0.9
	dropoutGapScale       = 10.0
	variabilityScale      = 10.0
	easyRate              = 85.0
	easyRisk              = 0.3
	moderateRate          = 65.0
	moderateRisk          = 0.5
	challengingRate       = 45.0
	severeDropoutRisk     = 0.6
	watchfulDropoutRisk   = 0.4
)

// Streak continuation model weights.
const (
	formationDays           = 21.0
	maxLengthFactor         = 0.9
	lengthWeight            = 0.4
	historicalWeight        = 0.4
	recentWeight            = 0.2
	noHistoryFactor         = 0.5
	unprecedentedFactor     = 0.3
	recentWindowDays        = 14
	strongMomentum          = 0.7
	moderateMomentum        = 0.4
	continuationHighRecords = 21
)

// Milestones are habit-formation checkpoints, in periods.
var Milestones = []int{7, 21, 66, 100}

// ScorePersistence blends average rate, trend, consistency and recency of a
// weekly-rate series into the probability that the habit will be sustained.
// dataPoints is the number of distinct completions behind the series.
func ScorePersistence(weeklyRates []float64, dataPoints int) domain.PersistencePrediction {
	if len(weeklyRates) < minRatePoints {
		return domain.PersistencePrediction{
			Prediction: domain.Prediction{
				Confidence: domain.ConfidenceLow,
				Factors:    map[string]float64{},
			},
			WeeklyRates:    append([]float64{}, weeklyRates...),
			TrendDirection: domain.TrendStable,
		}
	}

	trend := TrendScore(weeklyRates)

	base := mean(weeklyRates) / 100
	trendModifier := trend * trendWeight
	consistencyModifier := ConsistencyScore(weeklyRates) * consistencyWeight
	recencyModifier := mean(weeklyRates[len(weeklyRates)-recentWeeks:]) / 100 * recencyWeight

	probability := clamp(base+trendModifier+consistencyModifier+recencyModifier, persistenceFloor, persistenceCeiling)

	return domain.PersistencePrediction{
		Prediction: domain.Prediction{
			Probability: probability,
			Confidence:  persistenceConfidence(dataPoints, len(weeklyRates)),
			Factors: map[string]float64{
				"base_completion_rate":      base,
				"trend_impact":              trendModifier,
				"consistency_impact":        consistencyModifier,
				"recent_performance_impact": recencyModifier,
			},
		},
		WeeklyRates:    append([]float64{}, weeklyRates...),
		TrendDirection: directionOf(trend),
	}
}

func persistenceConfidence(dataPoints, weeks int) domain.Confidence {
	switch {
	case dataPoints >= 21 && weeks >= 4:
		return domain.ConfidenceHigh
	case dataPoints >= 14 && weeks >= 3:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func predictDifficulty(dates []time.Time, cadence domain.Cadence) domain.DifficultyPrediction {
	days := uniqueDays(dates)
	if len(days) < minDifficultyRecords {
		return domain.DifficultyPrediction{
			Reason:     domain.ReasonInsufficientData,
			Confidence: domain.ConfidenceLow,
		}
	}

	firstWeek := days[:minDifficultyRecords]
	span := DaysBetween(firstWeek[0], firstWeek[len(firstWeek)-1]) + 1

	completed := len(firstWeek)
	if cadence == domain.CadenceWeekly {
		completed = len(uniqueWeeks(firstWeek))
	}
	earlyRate := completionRate(completed, cadence, span)

	risk := dropoutRisk(days)

	var difficulty domain.Difficulty
	switch {
	case earlyRate >= easyRate && risk < easyRisk:
		difficulty = domain.DifficultyEasy
	case earlyRate >= moderateRate && risk < moderateRisk:
		difficulty = domain.DifficultyModerate
	case earlyRate >= challengingRate:
		difficulty = domain.DifficultyChallenging
	default:
		difficulty = domain.DifficultyDifficult
	}

	confidence := domain.ConfidenceMedium
	if len(days) >= highConfidenceRecords {
		confidence = domain.ConfidenceHigh
	}

	return domain.DifficultyPrediction{
		Difficulty:           difficulty,
		EarlyPerformanceRate: earlyRate,
		DropoutRisk:          risk,
		Variability:          performanceVariability(days),
		Recommendations:      difficultyRecommendations(difficulty, risk),
		Confidence:           confidence,
	}
}

// dropoutRisk scales the average gap (in days) between non-consecutive
// completions; sorted unique days in.
func dropoutRisk(days []time.Time) float64 {
	var gaps []float64
	for i := 1; i < len(days); i++ {
		if gap := DaysBetween(days[i-1], days[i]); gap > 1 {
			gaps = append(gaps, float64(gap))
		}
	}

	if len(gaps) == 0 {
		return noGapDropoutRisk
	}
	return math.Min(maxDropoutRisk, mean(gaps)/dropoutGapScale)
}

// performanceVariability is the variance of per-week completion counts, scaled to [0, 1].
func performanceVariability(days []time.Time) float64 {
	counts := make(map[int64]float64)
	var order []int64
	for _, d := range days {
		key := WeekStart(d).Unix()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}

	if len(order) < 2 {
		return 0
	}

	weekly := make([]float64, 0, len(order))
	for _, key := range order {
		weekly = append(weekly, counts[key])
	}
	return math.Min(1, sampleVariance(weekly)/variabilityScale)
}

func difficultyRecommendations(difficulty domain.Difficulty, risk float64) []string {
	var recs []string

	switch difficulty {
	case domain.DifficultyDifficult:
		recs = append(recs,
			"Consider breaking this habit into smaller, easier steps",
			"Try habit stacking - attach this to an existing habit",
		)
		if risk > severeDropoutRisk {
			recs = append(recs, "High dropout risk detected - consider reducing frequency initially")
		}
	case domain.DifficultyChallenging:
		recs = append(recs,
			"Focus on consistency over perfection",
			"Set up environmental cues to make the habit easier",
		)
	case domain.DifficultyModerate:
		recs = append(recs, "You're on a good track - maintain your current approach")
		if risk > watchfulDropoutRisk {
			recs = append(recs, "Watch for consistency gaps - they're your main risk factor")
		}
	default:
		recs = append(recs,
			"Great job! Consider adding complementary habits",
			"You might be ready to increase the challenge level",
		)
	}

	return recs
}

func predictContinuation(dates []time.Time, cadence domain.Cadence, today time.Time) domain.ContinuationPrediction {
	current := currentStreak(dates, cadence, today)
	if current == 0 {
		return domain.ContinuationPrediction{
			Prediction: domain.Prediction{
				Confidence: domain.ConfidenceLow,
				Factors:    map[string]float64{},
			},
			Reason: domain.ReasonNoActiveStreak,
		}
	}

	days := uniqueDays(dates)

	lengthFactor := math.Min(maxLengthFactor, float64(current)/formationDays)
	historicalFactor := historicalContinuationRate(historicalStreaks(dates, cadence), current)
	recent := recentConsistency(days, cadence, today)

	probability := lengthFactor*lengthWeight + historicalFactor*historicalWeight + recent*recentWeight

	momentum := domain.MomentumWeak
	switch {
	case probability > strongMomentum:
		momentum = domain.MomentumStrong
	case probability > moderateMomentum:
		momentum = domain.MomentumModerate
	}

	confidence := domain.ConfidenceLow
	switch {
	case len(days) >= continuationHighRecords:
		confidence = domain.ConfidenceHigh
	case len(days) >= minDifficultyRecords:
		confidence = domain.ConfidenceMedium
	}

	return domain.ContinuationPrediction{
		Prediction: domain.Prediction{
			Probability: probability,
			Confidence:  confidence,
			Factors: map[string]float64{
				"length_advantage":       lengthFactor,
				"historical_performance": historicalFactor,
				"recent_consistency":     recent,
			},
		},
		CurrentStreak: current,
		Momentum:      momentum,
		Milestones:    projectMilestones(current, probability),
	}
}

// historicalContinuationRate is the share of past streaks that reached the
// current length and went on to exceed it.
func historicalContinuationRate(streaks []int, current int) float64 {
	if len(streaks) == 0 {
		return noHistoryFactor
	}

	reached, exceeded := 0, 0
	for _, s := range streaks {
		if s >= current {
			reached++
			if s > current {
				exceeded++
			}
		}
	}

	if reached == 0 {
		return unprecedentedFactor
	}
	return float64(exceeded) / float64(reached)
}

// recentConsistency is the completion density of the last two weeks, capped at 1.
func recentConsistency(days []time.Time, cadence domain.Cadence, today time.Time) float64 {
	end := Day(today)
	recent := daysBetweenIn(days, end.AddDate(0, 0, -recentWindowDays), end)
	if len(recent) == 0 {
		return 0
	}

	if cadence == domain.CadenceWeekly {
		return math.Min(1, float64(len(uniqueWeeks(recent)))/float64(recentWindowDays/7))
	}
	return math.Min(1, float64(len(recent))/float64(recentWindowDays))
}

// projectMilestones decays the continuation probability geometrically per
// week still needed to reach each milestone.
func projectMilestones(current int, probability float64) []domain.MilestoneProjection {
	out := make([]domain.MilestoneProjection, 0, len(Milestones))
	for _, m := range Milestones {
		if current >= m {
			out = append(out, domain.MilestoneProjection{Days: m, Probability: 1, Reached: true})
			continue
		}
		out = append(out, domain.MilestoneProjection{
			Days:        m,
			Probability: math.Pow(probability, float64(m-current)/7),
		})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
