package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewHabitEntry(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	inputDate := time.Date(2026, 1, 28, 0, 30, 0, 0, loc)
	entry := NewHabitEntry("habit-123", "user-456", inputDate, "  felt great  ")

	t.Run("Should set core identity fields correctly", func(t *testing.T) {
		assert.Equal(t, "habit-123", entry.HabitID)
		assert.Equal(t, "user-456", entry.UserID)
		assert.Equal(t, "felt great", entry.Notes)
	})

	t.Run("Should initialize versioning fields", func(t *testing.T) {
		assert.Equal(t, 1, entry.Version, "Version must always start at 1 for optimistic locking")
		assert.False(t, entry.CreatedAt.IsZero())
		assert.False(t, entry.UpdatedAt.IsZero())
		assert.Nil(t, entry.DeletedAt)
	})

	t.Run("Should keep the local calendar date at UTC midnight", func(t *testing.T) {
		assert.Equal(t, time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC), entry.CompletionDate)
		assert.Equal(t, "UTC", entry.CompletionDate.Location().String())
	})
}

func TestHabitEntry_Validate(t *testing.T) {
	valid := func() *HabitEntry {
		return NewHabitEntry("h1", "u1", time.Now(), "")
	}

	tests := []struct {
		name    string
		mutate  func(e *HabitEntry)
		wantErr bool
	}{
		{"Valid", func(e *HabitEntry) {}, false},
		{"Missing habit", func(e *HabitEntry) { e.HabitID = " " }, true},
		{"Missing user", func(e *HabitEntry) { e.UserID = "" }, true},
		{"Missing date", func(e *HabitEntry) { e.CompletionDate = time.Time{} }, true},
		{"Notes at the limit", func(e *HabitEntry) { e.Notes = strings.Repeat("n", MaxNotesLen) }, false},
		{"Notes too long", func(e *HabitEntry) { e.Notes = strings.Repeat("n", MaxNotesLen+1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			err := e.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEntry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompletionDates(t *testing.T) {
	deletedAt := time.Now()
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	entries := []*HabitEntry{
		{CompletionDate: d1},
		nil,
		{CompletionDate: d2, DeletedAt: &deletedAt},
		{CompletionDate: d2},
	}

	assert.Equal(t, []time.Time{d1, d2}, CompletionDates(entries))
	assert.Empty(t, CompletionDates(nil))
}
