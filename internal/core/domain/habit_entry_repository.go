package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEntryNotFound = errors.New("habit entry not found")
	ErrEntryConflict = errors.New("habit already completed on this date")
	ErrInvalidRange  = errors.New("range start must not be after range end")
)

type HabitEntryRepository interface {
	// Create persists a new entry to the storage.
	// A second live entry for the same habit and day fails with ErrEntryConflict.
	Create(ctx context.Context, entry *HabitEntry) error

	// Delete performs a Soft Delete on the entry.
	// It requires userID to ensure the user actually owns the entry being deleted.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active (non-deleted) entry by its ID.
	GetByID(ctx context.Context, id string) (*HabitEntry, error)

	// ListByHabitID retrieves the full completion history of a habit.
	ListByHabitID(ctx context.Context, habitID string) ([]*HabitEntry, error)

	// ListByHabitIDWithRange retrieves entries within [from, to], both inclusive.
	ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*HabitEntry, error)
}
