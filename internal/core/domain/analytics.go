package domain

import (
	"errors"
	"time"
)

var (
	ErrNegativePeriod      = errors.New("analysis period cannot be negative")
	ErrNegativeCompletions = errors.New("completion count cannot be negative")
	ErrInvalidWindow       = errors.New("analysis window must cover between 1 and 104 weeks")
)

const (
	ReasonInsufficientData = "insufficient_data"
	ReasonNoActiveStreak   = "no_active_streak"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
	DifficultyDifficult   Difficulty = "difficult"
)

type Momentum string

const (
	MomentumStrong   Momentum = "strong"
	MomentumModerate Momentum = "moderate"
	MomentumWeak     Momentum = "weak"
)

// StreakResult is a run of consecutive periods. Start and End are nil when Length is 0.
type StreakResult struct {
	Length int        `json:"length"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
}

type TrendResult struct {
	Direction        TrendDirection `json:"direction"`
	Slope            float64        `json:"slope"`
	ChangePercent    float64        `json:"change_percent"`
	InsufficientData bool           `json:"insufficient_data,omitempty"`
}

// Prediction is the common shape of every heuristic score.
type Prediction struct {
	Probability float64            `json:"probability"`
	Confidence  Confidence         `json:"confidence"`
	Factors     map[string]float64 `json:"factors"`
}

type PersistencePrediction struct {
	Prediction
	WeeklyRates    []float64      `json:"weekly_rates"`
	TrendDirection TrendDirection `json:"trend_direction"`
}

type DifficultyPrediction struct {
	Difficulty           Difficulty `json:"predicted_difficulty,omitempty"`
	Reason               string     `json:"reason,omitempty"`
	EarlyPerformanceRate float64    `json:"early_performance_rate"`
	DropoutRisk          float64    `json:"dropout_risk_score"`
	Variability          float64    `json:"performance_variability"`
	Recommendations      []string   `json:"recommendations,omitempty"`
	Confidence           Confidence `json:"confidence"`
}

// Sufficient reports whether enough history existed to classify the habit.
func (p DifficultyPrediction) Sufficient() bool {
	return p.Reason != ReasonInsufficientData
}

type MilestoneProjection struct {
	Days        int     `json:"days"`
	Probability float64 `json:"probability"`
	Reached     bool    `json:"reached"`
}

type ContinuationPrediction struct {
	Prediction
	Reason        string                `json:"reason,omitempty"`
	CurrentStreak int                   `json:"current_streak_length"`
	Momentum      Momentum              `json:"streak_momentum,omitempty"`
	Milestones    []MilestoneProjection `json:"milestone_predictions,omitempty"`
}

// StreakSummary pairs the live streak with the best run on record.
type StreakSummary struct {
	HabitID string       `json:"habit_id"`
	Cadence Cadence      `json:"cadence"`
	Current int          `json:"current"`
	Longest StreakResult `json:"longest"`
}

type WeeklyTrend struct {
	HabitID     string      `json:"habit_id"`
	WeeklyRates []float64   `json:"weekly_rates"`
	Trend       TrendResult `json:"trend"`
	Consistency float64     `json:"consistency"`
}
