package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// memoryStore keeps values for the lifetime of the process. Used when no
// storage path is configured and throughout the tests.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]json.RawMessage)}
}

func (s *memoryStore) Get(_ context.Context, key string, value interface{}) (bool, error) {

	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal stored value for key %s: %w", key, err)
	}

	return true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value interface{}) error {

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {

	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
