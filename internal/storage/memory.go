package storage

import (
	"bytes"
	"context"
	"io"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultMemoryBucket = "exercise-logs"

type memoryObject struct {
	data []byte
	info ObjectInfo
}

// MemoryBackend keeps objects in process memory. It backs
// STORAGE_DRIVER=memory and tests.
type MemoryBackend struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memoryObject
	now     func() time.Time
}

func NewMemoryBackend(bucket string) *MemoryBackend {
	if strings.TrimSpace(bucket) == "" {
		bucket = defaultMemoryBucket
	}
	return &MemoryBackend{
		bucket:  bucket,
		objects: map[string]memoryObject{},
		now:     time.Now,
	}
}

func (m *MemoryBackend) EnsureBucket(context.Context) error { return nil }

func (m *MemoryBackend) Put(_ context.Context, obj Object) (ObjectInfo, error) {
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return ObjectInfo{}, err
	}

	info := ObjectInfo{
		Key:          obj.Key,
		Size:         int64(len(data)),
		ContentType:  obj.ContentType,
		LastModified: m.now().UTC(),
		Metadata:     maps.Clone(obj.Metadata),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.Key] = memoryObject{data: data, info: info}
	return info, nil
}

func (m *MemoryBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *MemoryBackend) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]ObjectInfo, 0)
	for key, obj := range m.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, obj.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryBackend) Bucket() string { return m.bucket }

func (m *MemoryBackend) Close() error { return nil }
