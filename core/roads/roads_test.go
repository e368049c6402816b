package roads

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Road #7", Segment{RoadID: 7}.DisplayName())
	assert.Equal(t, "Ring Road", Segment{RoadID: 7, Name: "Ring Road"}.DisplayName())
}

func TestMemoryDirectory(t *testing.T) {
	d := NewMemory(Segment{RoadID: 3, Name: "C"}, Segment{RoadID: 1, Name: "A"})
	d.EnsureRoad(2)
	d.EnsureRoad(3)

	s, ok := d.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "C", s.Name, "EnsureRoad must not overwrite")

	ids := []int{}
	for _, s := range d.List() {
		ids = append(ids, s.RoadID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)

	d.Register(Segment{RoadID: 2, Name: "B", Region: "North"})
	s, _ = d.Lookup(2)
	assert.Equal(t, "North", s.Region)

	_, ok = d.Lookup(99)
	assert.False(t, ok)
}

func TestMemoryConcurrentEnsure(t *testing.T) {
	d := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.EnsureRoad(i % 5)
			_ = d.List()
		}(i)
	}
	wg.Wait()
	assert.Len(t, d.List(), 5)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads.yaml")
	doc := "roads:\n  - road_id: 1\n    name: Main Street\n    region: North\n  - road_id: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	d, err := NewMemoryFromFile(path)
	require.NoError(t, err)
	s, ok := d.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, Segment{RoadID: 1, Name: "Main Street", Region: "North"}, s)
	s, _ = d.Lookup(2)
	assert.Equal(t, "Road #2", s.DisplayName())

	_, err = NewMemoryFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty, err := NewMemoryFromFile("")
	require.NoError(t, err)
	assert.Empty(t, empty.List())
}
