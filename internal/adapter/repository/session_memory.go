package repository

import (
	"context"
	"sync"

	"clearvide/internal/domain"
)

// MemoryKV keeps session values in process memory. State is lost on
// restart.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, session, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[session][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, session, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[session] == nil {
		m.data[session] = map[string][]byte{}
	}
	m.data[session][key] = append([]byte(nil), value...)
	return nil
}
