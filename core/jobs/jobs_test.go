package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleJobs() []Job {
	t0 := time.Date(2016, 8, 1, 0, 0, 0, 0, time.UTC)
	var out []Job
	for i := 0; i < 5; i++ {
		out = append(out, Job{
			ID:        fmt.Sprintf("job-%d", i),
			RoadID:    i % 2,
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func ids(js []Job) []string {
	out := make([]string, len(js))
	for i, j := range js {
		out[i] = j.ID
	}
	return out
}

func TestPage(t *testing.T) {
	road := 0
	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{"all newest first", Query{}, []string{"job-4", "job-3", "job-2", "job-1", "job-0"}},
		{"road filter", Query{RoadID: &road}, []string{"job-4", "job-2", "job-0"}},
		{"offset and limit", Query{Offset: 1, Limit: 2}, []string{"job-3", "job-2"}},
		{"offset past end", Query{Offset: 10}, []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ids(Page(sampleJobs(), c.q)))
		})
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Offset: -3, Limit: 0}.Normalize()
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, MaxLimit, Query{Limit: 10_000}.Normalize().Limit)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, j := range sampleJobs() {
		require.NoError(t, s.Save(ctx, j))
	}
	j, err := s.Get(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, 0, j.RoadID)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := s.List(ctx, Query{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"job-4", "job-3"}, ids(list))

	assert.Error(t, s.Save(ctx, Job{}))
	assert.NoError(t, s.Close())
}
