package persistence

import (
	"context"
	"sync"
)

// memoryStore keeps documents in process memory. Nothing survives a
// restart; meant for tests and throwaway dev runs.
type memoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore() Store {
	return &memoryStore{docs: map[string][]byte{}}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.docs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.docs[key] = stored
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
