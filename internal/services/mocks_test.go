package services

import (
	"context"
	"io"
	"sync"

	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/exercise-tracker/apiserver/types"
)

type mockUserRepo struct {
	GetByIDFn func(ctx context.Context, id string) (types.User, error)
	ListFn    func(ctx context.Context) ([]types.User, error)
	CreateFn  func(ctx context.Context, user types.User) (types.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserRepo) List(ctx context.Context) ([]types.User, error) {
	return m.ListFn(ctx)
}

func (m *mockUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	return m.CreateFn(ctx, user)
}

type mockExerciseRepo struct {
	CreateFn  func(ctx context.Context, exercise types.Exercise) (types.Exercise, error)
	ListLogFn func(ctx context.Context, filter types.LogFilter) ([]types.LogEntry, error)
}

func (m *mockExerciseRepo) Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	return m.CreateFn(ctx, exercise)
}

func (m *mockExerciseRepo) ListLog(ctx context.Context, filter types.LogFilter) ([]types.LogEntry, error) {
	return m.ListLogFn(ctx, filter)
}

type publishedEvent struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.events = append(m.events, publishedEvent{channel: channel, data: data, attrs: attrs})
	return "msg-1", nil
}

type countingRecorder struct {
	users, exercises, published, failed, exported int
}

func (r *countingRecorder) UserCreated() { r.users++ }
func (r *countingRecorder) ExerciseLogged() { r.exercises++ }
func (r *countingRecorder) EventPublished(string) { r.published++ }
func (r *countingRecorder) EventFailed(string) { r.failed++ }
func (r *countingRecorder) LogExported() { r.exported++ }

type mockObjectStore struct {
	*storage.MemoryBackend
	last   storage.Object
	putErr error
	getErr error
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{MemoryBackend: storage.NewMemoryBackend("exports")}
}

func (m *mockObjectStore) Put(ctx context.Context, obj storage.Object) (storage.ObjectInfo, error) {
	if m.putErr != nil {
		return storage.ObjectInfo{}, m.putErr
	}
	m.last = obj
	return m.MemoryBackend.Put(ctx, obj)
}

func (m *mockObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.MemoryBackend.Get(ctx, key)
}
