package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
)

// Store implements ports.StorageBackend in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Set persists the bytes in memory. Copies on write so the caller cannot
// mutate stored data through the slice.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	copied := append([]byte(nil), data...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Get retrieves the bytes from memory.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, domain.ErrInteractionNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns stored keys with the given prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
