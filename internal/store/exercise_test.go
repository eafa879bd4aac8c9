package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/exercise-tracker/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseRepositoryCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewExerciseRepository(db)

	mock.ExpectQuery("INSERT INTO exercises").
		WithArgs(sqlmock.AnyArg(), "user-1", "ada", "run", int64(30), "2024-01-05", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ex-1"))

	exercise, err := repo.Create(context.Background(), types.Exercise{
		UserID:      "user-1",
		Username:    "ada",
		Description: "run",
		Duration:    types.Minutes(30),
		Date:        "2024-01-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "ex-1", exercise.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseRepositoryCreateStoresInvalidDurationAsNull(t *testing.T) {
	db, mock := newMock(t)
	repo := NewExerciseRepository(db)

	mock.ExpectQuery("INSERT INTO exercises").
		WithArgs(sqlmock.AnyArg(), "user-1", "ada", "swim", nil, "2024-01-05", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ex-2"))

	_, err := repo.Create(context.Background(), types.Exercise{
		UserID:      "user-1",
		Username:    "ada",
		Description: "swim",
		Duration:    types.ParseDuration("abc"),
		Date:        "2024-01-05",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseRepositoryListLog(t *testing.T) {
	db, mock := newMock(t)
	repo := NewExerciseRepository(db)

	mock.ExpectQuery(`SELECT description, duration, date FROM exercises WHERE user_id = \$1 AND date >= \$2 AND date <= \$3 ORDER BY seq LIMIT \$4`).
		WithArgs("user-1", "2024-01-01", "2024-01-31", 2).
		WillReturnRows(sqlmock.NewRows([]string{"description", "duration", "date"}).
			AddRow("run", int64(30), "2024-01-05").
			AddRow("swim", nil, "2024-01-20"))

	entries, err := repo.ListLog(context.Background(), types.LogFilter{
		UserID: "user-1",
		From:   "2024-01-01",
		To:     "2024-01-31",
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.Minutes(30), entries[0].Duration)
	assert.False(t, entries[1].Duration.Valid)
	assert.Equal(t, "2024-01-20", entries[1].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseRepositoryListLogWithoutLimit(t *testing.T) {
	db, mock := newMock(t)
	repo := NewExerciseRepository(db)

	mock.ExpectQuery(`ORDER BY seq$`).
		WithArgs("user-1", types.EpochDate, "2024-12-31").
		WillReturnRows(sqlmock.NewRows([]string{"description", "duration", "date"}))

	entries, err := repo.ListLog(context.Background(), types.LogFilter{
		UserID: "user-1",
		From:   types.EpochDate,
		To:     "2024-12-31",
	})
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}
