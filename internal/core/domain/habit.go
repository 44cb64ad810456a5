package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
	ErrUnauthorized       = errors.New("resource does not belong to user")
)

const (
	MaxTitleLen = 100
	MaxDescLen  = 500
)

type Habit struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description,omitempty" db:"description"`
	Cadence       Cadence    `json:"cadence" db:"cadence"`
	CurrentStreak int        `json:"current_streak" db:"current_streak"`
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	Version       int        `json:"version" db:"version"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func validateHabit(title, desc string, cadence Cadence) (string, string, error) {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return "", "", ErrHabitTitleEmpty
	}
	if utf8.RuneCountInString(trimmedTitle) > MaxTitleLen {
		return "", "", ErrHabitTitleTooLong
	}

	trimmedDesc := strings.TrimSpace(desc)
	if utf8.RuneCountInString(trimmedDesc) > MaxDescLen {
		return "", "", ErrHabitDescTooLong
	}

	if err := cadence.Validate(); err != nil {
		return "", "", err
	}

	return trimmedTitle, trimmedDesc, nil
}

func NewHabit(userID, title, description string, cadence Cadence) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanTitle, cleanDesc, err := validateHabit(title, description, cadence)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       cleanTitle,
		Description: cleanDesc,
		Cadence:     cadence,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (h *Habit) Update(title, description string, cadence Cadence) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	cleanTitle, cleanDesc, err := validateHabit(title, description, cadence)
	if err != nil {
		return err
	}

	h.Title = cleanTitle
	h.Description = cleanDesc
	h.Cadence = cadence
	h.UpdatedAt = time.Now().UTC()

	return nil
}

// IsActive reports whether the habit is currently tracked.
func (h *Habit) IsActive() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}

func (h *Habit) UpdateStreak(current, longest int) {
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}
