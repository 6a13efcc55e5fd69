package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a map-backed Store used by tests and by local development
// runs without a database. It honors the same contract as PostgresStore,
// including descending key order from ListKeys.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Value
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Value)}
}

func (s *MemoryStore) Put(_ context.Context, key string, value Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Value, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	return value, ok, nil
}

func (s *MemoryStore) GetOrPut(_ context.Context, key string, value Value) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		return existing, nil
	}
	s.records[key] = value
	return value, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.records {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

var _ Store = (*MemoryStore)(nil)
