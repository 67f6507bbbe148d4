package storage

import (
	"context"
	"sync"
)

// MockStore wraps a Memory store with call hooks and error injection so tests
// can drive the storage failure paths (corrupt reads, quota errors).
type MockStore struct {
	*Memory

	mu sync.Mutex

	// Hooks for test assertions
	GetCalls    int
	SetCalls    int
	DeleteCalls int
	LastSetKey  string

	// Error injection for testing error paths
	GetErr    error
	SetErr    error
	DeleteErr error
}

// Compile-time check that MockStore implements Store
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new mock store for testing
func NewMockStore() *MockStore {
	return &MockStore{Memory: NewMemory(0)}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	m.GetCalls++
	err := m.GetErr
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return m.Memory.Get(ctx, key)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.SetCalls++
	m.LastSetKey = key
	err := m.SetErr
	m.mu.Unlock()

	if err != nil {
		return err
	}
	return m.Memory.Set(ctx, key, value)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.DeleteCalls++
	err := m.DeleteErr
	m.mu.Unlock()

	if err != nil {
		return err
	}
	return m.Memory.Delete(ctx, key)
}

// Raw writes value without hooks or quota. Used to plant corrupt blobs.
func (m *MockStore) Raw(key string, value []byte) {
	m.Memory.mu.Lock()
	defer m.Memory.mu.Unlock()
	m.Memory.data[key] = value
}

// Has reports whether key is present.
func (m *MockStore) Has(key string) bool {
	m.Memory.mu.RLock()
	defer m.Memory.mu.RUnlock()
	_, ok := m.Memory.data[key]
	return ok
}
