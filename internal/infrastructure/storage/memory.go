package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Used by tests and the memory backend.
type Memory struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota quota
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store. quotaBytes of 0 disables the quota.
func NewMemory(quotaBytes int) *Memory {
	return &Memory{
		data:  make(map[string][]byte),
		quota: quota(quotaBytes),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if err := m.quota.check(key, value); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
