package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and single-node development.
// Values are copied on the way in and out so callers can't alias internals.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, k Key) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[k.Encode()]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Has(_ context.Context, k Key) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[k.Encode()]
	return ok, nil
}

func (m *Memory) Set(_ context.Context, k Key, v []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[k.Encode()] = clone(v)
	return nil
}

func (m *Memory) Apply(_ context.Context, puts []Put) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range puts {
		m.data[p.Key.Encode()] = clone(p.Value)
	}
	return nil
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func clone(v []byte) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
