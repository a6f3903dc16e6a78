package store

import (
	"context"
	"sync"
)

// memory implements Store using an in-memory map. It is the default backend
// and the one used by tests; state does not survive a restart.
type memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		values: make(map[string][]byte),
	}
}

func (s *memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *memory) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}
