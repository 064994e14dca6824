package storage

import (
	"context"
	"sync"

	"github.com/mcdev12/debatify/go/internal/timer"
)

// MemoryStore holds the record in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return nil, timer.ErrNoRecord
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStore) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data, m.set = nil, false
	return nil
}
