package memory

import (
	"context"
	"sync"
)

// KVStore is an in-memory implementation of app.KVStore.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVStore() *KVStore {
	return &KVStore{
		values: make(map[string]string),
	}
}

// NewKVStoreWith seeds the store with values (useful for tests/demos).
func NewKVStoreWith(values map[string]string) *KVStore {
	s := NewKVStore()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *KVStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

// Dump returns a copy of every stored value.
func (s *KVStore) Dump() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
