package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSnapshot is returned by a Snapshotter when nothing is stored under the key.
var ErrNoSnapshot = errors.New("cart snapshot not found")

// Snapshotter persists serialized cart snapshots under a named key.
type Snapshotter interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// MemorySnapshotter keeps snapshots in process memory.
type MemorySnapshotter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Snapshotter = (*MemorySnapshotter)(nil)

func NewMemorySnapshotter() *MemorySnapshotter {
	return &MemorySnapshotter{data: make(map[string][]byte)}
}

func (m *MemorySnapshotter) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), data...), nil
}

func (m *MemorySnapshotter) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), data...)
	return nil
}
