package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

const sampleExport = `
today = 2024-01-17

[[habits]]
id = "run"
title = "Morning run"
cadence = "daily"
completions = [2024-01-15, 2024-01-16, 2024-01-17, 2024-01-16]

[[habits]]
id = "review"
cadence = "weekly"
archived = true
completions = [2024-01-02, 2024-01-09]
`

func testEngine() *analytics.Engine {
	return analytics.NewEngine(analytics.FixedClock(time.Date(2024, 1, 17, 8, 0, 0, 0, time.UTC)))
}

func TestParseExport(t *testing.T) {
	exp, err := ParseExport([]byte(sampleExport))
	require.NoError(t, err)

	require.Len(t, exp.Habits, 2)
	assert.Equal(t, time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), exp.TodayTime())
	assert.Len(t, exp.Habits[0].Completions, 4)
	assert.True(t, exp.Habits[1].Archived)

	t.Run("No pinned date", func(t *testing.T) {
		exp, err := ParseExport([]byte(`[[habits]]
id = "x"`))
		require.NoError(t, err)
		assert.True(t, exp.TodayTime().IsZero())
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"Malformed TOML", `[[habits]`},
		{"Missing id", "[[habits]]\ntitle = \"nameless\""},
		{"Duplicate id", "[[habits]]\nid = \"a\"\n[[habits]]\nid = \"a\""},
		{"Not a date", "[[habits]]\nid = \"a\"\ncompletions = [17]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExport([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidExport)
		})
	}
}

func TestLoadExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o600))

	exp, err := LoadExport(path)
	require.NoError(t, err)
	assert.Len(t, exp.Habits, 2)

	_, err = LoadExport(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportHabit_Habit(t *testing.T) {
	archivedAt := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)

	h, dates, err := ExportHabit{ID: " gym "}.Habit(archivedAt)
	require.NoError(t, err)
	assert.Equal(t, "gym", h.ID)
	assert.Equal(t, "gym", h.Title)
	assert.Equal(t, domain.CadenceDaily, h.Cadence)
	assert.True(t, h.IsActive())
	assert.Empty(t, dates)

	h, _, err = ExportHabit{ID: "old", Cadence: "Weekly", Archived: true}.Habit(archivedAt)
	require.NoError(t, err)
	assert.Equal(t, domain.CadenceWeekly, h.Cadence)
	assert.False(t, h.IsActive())

	_, _, err = ExportHabit{ID: "bad", Cadence: "hourly"}.Habit(archivedAt)
	assert.ErrorIs(t, err, domain.ErrInvalidCadence)
}

func TestBuild(t *testing.T) {
	exp, err := ParseExport([]byte(sampleExport))
	require.NoError(t, err)

	rep, err := Build(testEngine(), exp, Options{PeriodDays: 7, Weeks: 4})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-17", rep.Today)
	require.Len(t, rep.Habits, 2)

	run := rep.Habits[0]
	assert.True(t, run.Active)
	assert.Equal(t, "Morning run", run.Snapshot.HabitName)
	assert.Equal(t, 3, run.Snapshot.CurrentStreak)
	assert.Equal(t, 3, run.Snapshot.TotalCompletions, "duplicate days count once")
	assert.InDelta(t, 300.0/7, run.Snapshot.CompletionRate, 1e-9)
	assert.Len(t, run.Trend.WeeklyRates, 4)
	assert.Len(t, run.Persistence.WeeklyRates, 4)
	assert.Equal(t, domain.ReasonInsufficientData, run.Difficulty.Reason)
	assert.Equal(t, 3, run.Continuation.CurrentStreak)
	assert.Equal(t, run.Snapshot.DifficultyLevel(), run.DifficultyLevel)

	review := rep.Habits[1]
	assert.False(t, review.Active)
	assert.Equal(t, "review", review.Snapshot.HabitName)

	assert.Equal(t, 1, rep.Summary.TotalHabits, "archived habits stay out of the summary")
	require.Len(t, rep.Rankings, 1)
	assert.Equal(t, "run", rep.Rankings[0].HabitID)
	assert.NotNil(t, rep.Insights)
	assert.NotNil(t, rep.Recommendations)
}

func TestBuild_Errors(t *testing.T) {
	exp := &Export{Habits: []ExportHabit{{ID: "x", Cadence: "fortnightly"}}}

	_, err := Build(testEngine(), exp, Options{PeriodDays: 28, Weeks: 4})
	assert.ErrorIs(t, err, domain.ErrInvalidCadence)

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"Negative period", Options{PeriodDays: -1, Weeks: 4}, domain.ErrNegativePeriod},
		{"Zero weeks", Options{PeriodDays: 28, Weeks: 0}, domain.ErrInvalidWindow},
		{"Too many weeks", Options{PeriodDays: 28, Weeks: 105}, domain.ErrInvalidWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(testEngine(), &Export{}, tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_EmptyExport(t *testing.T) {
	rep, err := Build(testEngine(), &Export{}, Options{PeriodDays: 28, Weeks: 4})
	require.NoError(t, err)

	assert.Empty(t, rep.Habits)
	assert.NotNil(t, rep.Rankings)
	assert.Zero(t, rep.Summary.TotalHabits)
}
