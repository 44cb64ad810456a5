package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/analytics"
)

// 2024-01-17 is a Wednesday; its ISO week starts on Monday 2024-01-15.
var today = time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func newEngine() *analytics.Engine {
	return analytics.NewEngine(analytics.FixedClock(today))
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"Wednesday", date(2024, 1, 17), date(2024, 1, 15)},
		{"Monday is its own week start", date(2024, 1, 15), date(2024, 1, 15)},
		{"Sunday belongs to the previous Monday", date(2024, 1, 21), date(2024, 1, 15)},
		{"Time of day is ignored", time.Date(2024, 1, 18, 23, 59, 0, 0, time.UTC), date(2024, 1, 15)},
		{"First week of the year", date(2024, 1, 3), date(2024, 1, 1)},
		{"Calendar date is read in its own zone", time.Date(2024, 1, 22, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)), date(2024, 1, 22)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.WeekStart(tt.in))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 7, analytics.DaysBetween(date(2024, 1, 10), date(2024, 1, 17)))
	assert.Equal(t, -7, analytics.DaysBetween(date(2024, 1, 17), date(2024, 1, 10)))
	assert.Equal(t, 0, analytics.DaysBetween(today, date(2024, 1, 17)))
	assert.Equal(t, 366, analytics.DaysBetween(date(2024, 1, 1), date(2025, 1, 1)), "2024 is a leap year")
}

func TestEngine_Today(t *testing.T) {
	assert.Equal(t, date(2024, 1, 17), newEngine().Today())
	assert.Equal(t, analytics.Day(time.Now()), analytics.NewEngine(nil).Today())
}
