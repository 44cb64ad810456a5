package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsEndpoints(t *testing.T) {
	srv := setupServer()
	h := srv.createHabit(t, "user-1", "Run", "daily")
	srv.complete(t, "user-1", h.ID, "2024-01-10", "2024-01-15", "2024-01-16", "2024-01-17")

	base := "/api/v1/analytics/habits/" + h.ID

	t.Run("Snapshot over an explicit window", func(t *testing.T) {
		w := srv.do(http.MethodGet, base+"/snapshot?period_days=7", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		snap := decode[struct {
			HabitName        string  `json:"habit_name"`
			CurrentStreak    int     `json:"current_streak"`
			TotalCompletions int     `json:"total_completions"`
			CompletionRate   float64 `json:"completion_rate"`
			AverageWeekly    float64 `json:"average_weekly_completions"`
		}](t, w)
		assert.Equal(t, "Run", snap.HabitName)
		assert.Equal(t, 3, snap.CurrentStreak)
		assert.Equal(t, 4, snap.TotalCompletions)
		assert.InDelta(t, 300.0/7, snap.CompletionRate, 1e-9)
		assert.InDelta(t, 3.0, snap.AverageWeekly, 1e-9)
	})

	t.Run("Snapshot falls back to the configured window", func(t *testing.T) {
		w := srv.do(http.MethodGet, base+"/snapshot", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		snap := decode[struct {
			CompletionRate float64 `json:"completion_rate"`
		}](t, w)
		assert.InDelta(t, 400.0/28, snap.CompletionRate, 1e-9)
	})

	t.Run("Streaks", func(t *testing.T) {
		w := srv.do(http.MethodGet, base+"/streaks", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"habit_id": "`+h.ID+`",
			"cadence": "daily",
			"current": 3,
			"longest": {"length": 3, "start": "2024-01-15T00:00:00Z", "end": "2024-01-17T00:00:00Z"}
		}`, w.Body.String())
	})

	t.Run("Trend", func(t *testing.T) {
		w := srv.do(http.MethodGet, base+"/trend?weeks=3", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		trend := decode[struct {
			WeeklyRates []float64 `json:"weekly_rates"`
			Trend       struct {
				Direction string `json:"direction"`
			} `json:"trend"`
		}](t, w)
		assert.Len(t, trend.WeeklyRates, 3)
		assert.NotEmpty(t, trend.Trend.Direction)
	})

	t.Run("Persistence", func(t *testing.T) {
		w := srv.do(http.MethodGet, base+"/persistence", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		pred := decode[struct {
			Probability float64 `json:"probability"`
			Confidence  string  `json:"confidence"`
		}](t, w)
		assert.GreaterOrEqual(t, pred.Probability, 0.0)
		assert.LessOrEqual(t, pred.Probability, 1.0)
		assert.NotEmpty(t, pred.Confidence)
	})

	t.Run("Difficulty needs a week of history", func(t *testing.T) {
		w := srv.do(http.MethodGet, base+"/difficulty", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"reason":"insufficient_data"`)
	})

	t.Run("Continuation", func(t *testing.T) {
		w := srv.do(http.MethodGet, base+"/continuation", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"current_streak_length":3`)
	})

	t.Run("Fail: invalid windows", func(t *testing.T) {
		for _, path := range []string{
			base + "/snapshot?period_days=-1",
			base + "/snapshot?period_days=week",
			base + "/trend?weeks=0",
			base + "/trend?weeks=105",
			base + "/persistence?weeks=x",
		} {
			w := srv.do(http.MethodGet, path, "user-1", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})

	t.Run("Fail: other users see nothing", func(t *testing.T) {
		for _, ep := range []string{"snapshot", "streaks", "trend", "persistence", "difficulty", "continuation"} {
			w := srv.do(http.MethodGet, base+"/"+ep, "user-2", nil)
			assert.Equal(t, http.StatusNotFound, w.Code, ep)
		}
	})
}
