package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

func TestAnalyticsSnapshot_Labels(t *testing.T) {
	tests := []struct {
		rate        float64
		streak      int
		difficulty  string
		consistency string
	}{
		{95, 10, "Easy", "Excellent"},
		{95, 6, "Easy", "Very Good"},
		{75, 5, "Moderate", "Very Good"},
		{60, 3, "Moderate", "Good"},
		{60, 2, "Moderate", "Needs Improvement"},
		{45, 0, "Challenging", "Needs Improvement"},
		{39.9, 9, "Difficult", "Just Started"},
	}

	for _, tt := range tests {
		s := domain.AnalyticsSnapshot{CompletionRate: tt.rate, CurrentStreak: tt.streak}
		assert.Equal(t, tt.difficulty, s.DifficultyLevel(), "rate %v", tt.rate)
		assert.Equal(t, tt.consistency, s.ConsistencyLabel(), "rate %v streak %d", tt.rate, tt.streak)
	}
}

func TestParseRankMetric(t *testing.T) {
	m, err := domain.ParseRankMetric(" Current_Streak ")
	require.NoError(t, err)
	assert.Equal(t, domain.RankByCurrentStreak, m)

	_, err = domain.ParseRankMetric("popularity")
	assert.ErrorIs(t, err, domain.ErrInvalidRankMetric)
}

func TestDifficultyPrediction_Sufficient(t *testing.T) {
	assert.False(t, domain.DifficultyPrediction{Reason: domain.ReasonInsufficientData}.Sufficient())
	assert.True(t, domain.DifficultyPrediction{Difficulty: domain.DifficultyEasy}.Sufficient())
}
