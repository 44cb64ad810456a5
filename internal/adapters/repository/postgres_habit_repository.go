package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-analytics/internal/core/domain"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

const habitColumns = `id, user_id, title, description, cadence, current_streak, longest_streak,
        version, created_at, updated_at, archived_at, deleted_at`

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (
            id, user_id, title, description, cadence,
            current_streak, longest_streak,
            version, created_at, updated_at, archived_at, deleted_at
        ) VALUES (
            :id, :user_id, :title, :description, :cadence,
            :current_streak, :longest_streak,
            1, :created_at, :updated_at, :archived_at, NULL
        )`

	if _, err := r.db.NamedExecContext(ctx, query, h); err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	h.Version = 1
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var h domain.Habit
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND deleted_at IS NULL`

	if err := r.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return &h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits := []*domain.Habit{}
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := `
        UPDATE habits SET
            title = $1, description = $2, cadence = $3, archived_at = $4,
            updated_at = NOW(), version = version + 1
        WHERE id = $5 AND version = $6 AND deleted_at IS NULL
        RETURNING version, updated_at`

	var newVersion int
	var newUpdatedAt time.Time

	err := r.db.QueryRowContext(ctx, query,
		h.Title, h.Description, h.Cadence, h.ArchivedAt,
		h.ID, h.Version,
	).Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.missingOrConflict(ctx, h.ID)
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	h.Version = newVersion
	h.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresHabitRepository) missingOrConflict(ctx context.Context, id string) error {
	var count int
	existsQuery := `SELECT count(*) FROM habits WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &count, existsQuery, id); err != nil {
		return fmt.Errorf("existence check failed: %w", err)
	}

	if count == 0 {
		return domain.ErrHabitNotFound
	}
	return domain.ErrHabitConflict
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE habits
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete habit %s: %w", id, err)
	}
	return oneRowAffected(res, domain.ErrHabitNotFound)
}

// UpdateStreaks leaves the version alone.
func (r *PostgresHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE habits
        SET current_streak = $1, longest_streak = $2
        WHERE id = $3 AND deleted_at IS NULL`, current, longest, id)
	if err != nil {
		return fmt.Errorf("update streaks of %s: %w", id, err)
	}
	return oneRowAffected(res, domain.ErrHabitNotFound)
}
