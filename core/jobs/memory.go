package jobs

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps jobs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: map[string]Job{}}
}

// Save inserts or replaces j.
func (s *MemoryStore) Save(_ context.Context, j Job) error {
	if j.ID == "" {
		return fmt.Errorf("save job: empty id")
	}
	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()
	return nil
}

// Get returns the job with id or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return j, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, q Query) ([]Job, error) {
	s.mu.RLock()
	all := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		all = append(all, j)
	}
	s.mu.RUnlock()
	return Page(all, q), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
