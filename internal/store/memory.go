package store

import (
	"context"
	"sync"
	"time"

	"github.com/exercise-tracker/apiserver/types"
	"github.com/google/uuid"
)

// MemoryUserRepository keeps users in process memory. It backs the
// "memory" store driver and tests.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users []types.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]types.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	r.users = append(r.users, user)
	return user, nil
}

// MemoryExerciseRepository keeps exercises in process memory.
type MemoryExerciseRepository struct {
	mu        sync.Mutex
	exercises []types.Exercise
}

func NewMemoryExerciseRepository() *MemoryExerciseRepository {
	return &MemoryExerciseRepository{}
}

func (r *MemoryExerciseRepository) Create(_ context.Context, exercise types.Exercise) (types.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise.ID = uuid.NewString()
	exercise.CreatedAt = time.Now().UTC()
	r.exercises = append(r.exercises, exercise)
	return exercise, nil
}

func (r *MemoryExerciseRepository) ListLog(_ context.Context, filter types.LogFilter) ([]types.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]types.LogEntry, 0)
	for _, exercise := range r.exercises {
		if exercise.UserID != filter.UserID {
			continue
		}
		if exercise.Date < filter.From || exercise.Date > filter.To {
			continue
		}
		entries = append(entries, types.LogEntry{
			Description: exercise.Description,
			Duration:    exercise.Duration,
			Date:        exercise.Date,
		})
		if filter.Limit > 0 && len(entries) == filter.Limit {
			break
		}
	}
	return entries, nil
}
