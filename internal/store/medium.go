package store

import (
	"context"
	"sync"
)

// Medium is the raw key/value persistence the store writes snapshots to.
// Load reports ok=false when nothing has been saved under key.
type Medium interface {
	Save(ctx context.Context, key string, payload []byte) error
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
}

// MemoryMedium keeps snapshots in process memory.
type MemoryMedium struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: map[string][]byte{}}
}

func (m *MemoryMedium) Save(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryMedium) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}
