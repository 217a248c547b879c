package blob

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral use.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]string

	// FailLoads forces Load to report an error, for exercising the
	// fail-open recovery path.
	FailLoads bool
	// FailSaves forces Save to report an error.
	FailSaves bool
}

// NewMemory creates an empty in-memory blob store.
func NewMemory() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]string)}
}

var _ Store = (*MemoryStore)(nil)

// errForced is returned when a failure mode is enabled.
type forcedError struct{}

func (forcedError) Error() string { return "blob store failure injected" }

func (s *MemoryStore) Load(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailLoads {
		return "", false, forcedError{}
	}
	value, ok := s.blobs[key]
	return value, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return forcedError{}
	}
	s.blobs[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
