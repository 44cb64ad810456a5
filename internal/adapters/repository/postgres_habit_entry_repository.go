package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

var _ domain.HabitEntryRepository = (*PostgresEntryRepository)(nil)

const entryColumns = `id, habit_id, user_id, completion_date, notes,
        version, created_at, updated_at, deleted_at`

type PostgresEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresEntryRepository(db *sqlx.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

func (r *PostgresEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO habit_entries (
			id, habit_id, user_id,
			completion_date, notes,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :habit_id, :user_id,
			:completion_date, :notes,
			:version, :created_at, :updated_at, :deleted_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		switch pgErrorCode(err) {
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReferenceMissing, entry.HabitID)
		case codeUniqueViolation:
			return domain.ErrEntryConflict
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	var entry domain.HabitEntry
	query := `SELECT ` + entryColumns + ` FROM habit_entries WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &entry, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	entry.CompletionDate = domain.CalendarDay(entry.CompletionDate)
	return &entry, nil
}

func (r *PostgresEntryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error) {
	return r.selectLive(ctx, `habit_id = $1`, habitID)
}

func (r *PostgresEntryRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	return r.selectLive(ctx, `habit_id = $1 AND completion_date BETWEEN $2 AND $3`,
		habitID, domain.CalendarDay(from), domain.CalendarDay(to))
}

// selectLive runs a date-ordered select of non-deleted entries matching cond.
func (r *PostgresEntryRepository) selectLive(ctx context.Context, cond string, args ...any) ([]*domain.HabitEntry, error) {
	entries := []*domain.HabitEntry{}
	query := `SELECT ` + entryColumns + ` FROM habit_entries
		WHERE ` + cond + ` AND deleted_at IS NULL
		ORDER BY completion_date ASC`

	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return normalizeDates(entries), nil
}

func (r *PostgresEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habit_entries
		SET deleted_at = $1, updated_at = $1, version = version + 1
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`,
		time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return oneRowAffected(res, domain.ErrEntryNotFound)
}

// normalizeDates pins DATE columns to UTC midnight whatever zone the driver used.
func normalizeDates(entries []*domain.HabitEntry) []*domain.HabitEntry {
	for _, e := range entries {
		e.CompletionDate = domain.CalendarDay(e.CompletionDate)
	}
	return entries
}
