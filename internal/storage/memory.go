package storage

import (
	"context"

	"github.com/google/uuid"
)

// MemoryStorage implements Storage in memory, for tests and for running
// without Redis.
type MemoryStorage struct {
	slots map[uuid.UUID]map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[uuid.UUID]map[string]string)}
}

func (m *MemoryStorage) SaveVars(_ context.Context, slot uuid.UUID, snapshot map[string]string) error {
	copied := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		copied[k] = v
	}
	m.slots[slot] = copied
	return nil
}

func (m *MemoryStorage) LoadVars(_ context.Context, slot uuid.UUID) (map[string]string, error) {
	snapshot, ok := m.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	copied := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		copied[k] = v
	}
	return copied, nil
}

func (m *MemoryStorage) DeleteVars(_ context.Context, slot uuid.UUID) error {
	delete(m.slots, slot)
	return nil
}

func (m *MemoryStorage) Ping(context.Context) error { return nil }
func (m *MemoryStorage) Close() error               { return nil }
