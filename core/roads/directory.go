package roads

import (
	"sort"
	"sync"
)

// Directory resolves road ids to segment metadata.
type Directory interface {
	Lookup(roadID int) (Segment, bool)
	List() []Segment
	Register(seg Segment)
	// EnsureRoad registers a bare segment for roadID unless one exists.
	EnsureRoad(roadID int)
}

// Memory is an in-process Directory safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	roads map[int]Segment
}

// NewMemory returns a directory seeded with segs. Later duplicates win.
func NewMemory(segs ...Segment) *Memory {
	m := &Memory{roads: make(map[int]Segment, len(segs))}
	for _, s := range segs {
		m.roads[s.RoadID] = s
	}
	return m
}

// Lookup returns the segment registered for roadID.
func (m *Memory) Lookup(roadID int) (Segment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.roads[roadID]
	return s, ok
}

// List returns every segment ordered by road id.
func (m *Memory) List() []Segment {
	m.mu.RLock()
	out := make([]Segment, 0, len(m.roads))
	for _, s := range m.roads {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].RoadID < out[j].RoadID })
	return out
}

// Register inserts or replaces seg.
func (m *Memory) Register(seg Segment) {
	m.mu.Lock()
	m.roads[seg.RoadID] = seg
	m.mu.Unlock()
}

// EnsureRoad implements Directory.
func (m *Memory) EnsureRoad(roadID int) {
	m.mu.Lock()
	if _, ok := m.roads[roadID]; !ok {
		m.roads[roadID] = Segment{RoadID: roadID}
	}
	m.mu.Unlock()
}
