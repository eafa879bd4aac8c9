package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/exercise-tracker/apiserver/types"
	"github.com/google/uuid"
)

// ExerciseRepository handles persistence for exercises in Postgres.
type ExerciseRepository struct {
	db *sql.DB
}

func NewExerciseRepository(db *sql.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	exercise.ID = uuid.NewString()
	exercise.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO exercises (id, user_id, username, description, duration, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		exercise.ID,
		exercise.UserID,
		exercise.Username,
		exercise.Description,
		exercise.Duration,
		exercise.Date,
		exercise.CreatedAt,
	).Scan(&exercise.ID); err != nil {
		return types.Exercise{}, err
	}
	return exercise, nil
}

// ListLog returns the description, duration and date of a user's exercises
// dated within [filter.From, filter.To], in insertion order.
func (r *ExerciseRepository) ListLog(ctx context.Context, filter types.LogFilter) ([]types.LogEntry, error) {
	query := `
		SELECT description, duration, date
		FROM exercises
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY seq`
	args := []any{filter.UserID, filter.From, filter.To}
	if filter.Limit > 0 {
		query += `
		LIMIT $4`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.LogEntry, 0)
	for rows.Next() {
		var entry types.LogEntry
		if err := rows.Scan(&entry.Description, &entry.Duration, &entry.Date); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
