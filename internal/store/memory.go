package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and the offline demo backend.
type Memory struct {
	mu      sync.RWMutex
	data    map[string][]byte
	failErr error
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// FailWith makes every subsequent operation fail with a StorageError wrapping
// err; pass nil to restore normal behavior. Tests use this to simulate a
// broken device store.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, false, &StorageError{Op: "get", Key: key, Err: m.failErr}
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := append([]byte(nil), v...)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return &StorageError{Op: "set", Key: key, Err: m.failErr}
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return &StorageError{Op: "remove", Key: key, Err: m.failErr}
	}
	delete(m.data, key)
	return nil
}
