package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/roadcast/core/jobs"
)

// MockPublisher records published jobs. It is used in tests.
type MockPublisher struct {
	mu        sync.Mutex
	Jobs      []jobs.Job
	FailRoads map[int]bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailRoads: make(map[int]bool)}
}

// PublishJob records j or returns an error if configured to fail for its road.
func (m *MockPublisher) PublishJob(_ context.Context, j jobs.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRoads[j.RoadID] {
		return fmt.Errorf("publish prediction %s: broker unavailable", j.ID)
	}
	m.Jobs = append(m.Jobs, j)
	return nil
}

// Published returns a copy of the recorded jobs.
func (m *MockPublisher) Published() []jobs.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]jobs.Job, len(m.Jobs))
	copy(out, m.Jobs)
	return out
}
