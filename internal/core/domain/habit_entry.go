package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidEntry = errors.New("invalid habit entry data")
)

const MaxNotesLen = 500

type HabitEntry struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	CompletionDate time.Time `json:"completion_date" db:"completion_date"`
	Notes          string    `json:"notes" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CalendarDay drops the time of day, keeping the date as seen in t's own
// location, and returns it as UTC midnight.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewHabitEntry(habitID, userID string, date time.Time, notes string) *HabitEntry {
	now := time.Now().UTC()

	return &HabitEntry{
		HabitID:        habitID,
		UserID:         userID,
		CompletionDate: CalendarDay(date),
		Notes:          strings.TrimSpace(notes),

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *HabitEntry) Validate() error {
	if strings.TrimSpace(e.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEntry)
	}
	if e.CompletionDate.IsZero() {
		return fmt.Errorf("%w: completion_date is required", ErrInvalidEntry)
	}
	if utf8.RuneCountInString(e.Notes) > MaxNotesLen {
		return fmt.Errorf("%w: notes are too long (max %d chars)", ErrInvalidEntry, MaxNotesLen)
	}
	return nil
}

// CompletionDates extracts the raw completion dates the analytics engine works on.
func CompletionDates(entries []*HabitEntry) []time.Time {
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if e == nil || e.DeletedAt != nil {
			continue
		}
		dates = append(dates, e.CompletionDate)
	}
	return dates
}
