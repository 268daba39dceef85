package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process StateStore for dry runs and tests
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	messages map[string][][]byte
}

// NewMemoryStore builds an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string][]byte),
		messages: make(map[string][][]byte),
	}
}

// Put writes one key
func (m *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.values[key] = cp
	return nil
}

// Get reads one key
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

// Publish appends the message to the channel's history
func (m *MemoryStore) Publish(ctx context.Context, channel string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(message))
	copy(cp, message)
	m.messages[channel] = append(m.messages[channel], cp)
	return nil
}

// Messages returns everything published on a channel (test helper)
func (m *MemoryStore) Messages(channel string) [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.messages[channel]
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
