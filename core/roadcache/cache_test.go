package roadcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/roadcast/core/events"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/internal/eventbus"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type stubLoader struct {
	data  map[int]model.Series
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (l *stubLoader) Load(ctx context.Context, roadID int) (model.Series, error) {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.err != nil {
		return nil, l.err
	}
	return l.data[roadID], nil
}

func mkSeries(speeds ...float64) model.Series {
	out := make(model.Series, len(speeds))
	for i, v := range speeds {
		out[i] = model.SpeedPoint{Timestamp: int64(i) * model.SlotDuration, Speed: v}
	}
	return out
}

func TestCacheHitAfterMiss(t *testing.T) {
	loader := &stubLoader{data: map[int]model.Series{1: mkSeries(10, 20)}}
	c := New(loader, Options{MaxRoads: 2})

	s, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, s, 2)
	_, err = c.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int32(1), loader.calls.Load())
	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, 1, st.Size)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	clock := newFakeClock()
	loader := &stubLoader{data: map[int]model.Series{
		1: mkSeries(10), 2: mkSeries(20), 3: mkSeries(30),
	}}
	c := New(loader, Options{MaxRoads: 2, Clock: clock.Now})
	ctx := context.Background()

	for _, id := range []int{1, 2, 1, 3} {
		_, err := c.Get(ctx, id)
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	assert.Equal(t, []int{1, 3}, c.Keys())
	assert.False(t, c.Contains(2))
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCacheEvictionTieBreaksByAccessOrder(t *testing.T) {
	clock := newFakeClock()
	loader := &stubLoader{data: map[int]model.Series{
		1: mkSeries(10), 2: mkSeries(20), 3: mkSeries(30),
	}}
	c := New(loader, Options{MaxRoads: 2, Clock: clock.Now})
	for _, id := range []int{1, 2, 3} {
		_, err := c.Get(context.Background(), id)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{2, 3}, c.Keys())
}

func TestCacheDoesNotStoreEmptyResult(t *testing.T) {
	loader := &stubLoader{data: map[int]model.Series{}}
	c := New(loader, Options{})

	s, err := c.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, s)
	assert.Equal(t, 0, c.Len())

	_, err = c.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestCachePropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	c := New(&stubLoader{err: boom}, Options{})
	_, err := c.Get(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCacheClear(t *testing.T) {
	loader := &stubLoader{data: map[int]model.Series{1: mkSeries(10)}}
	c := New(loader, Options{})
	_, err := c.Get(context.Background(), 1)
	require.NoError(t, err)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, err = c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestCacheCoalescesConcurrentMisses(t *testing.T) {
	loader := &stubLoader{data: map[int]model.Series{7: mkSeries(10)}, gate: make(chan struct{})}
	c := New(loader, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Get(context.Background(), 7)
			assert.NoError(t, err)
			assert.Len(t, s, 1)
		}()
	}
	// Give the goroutines time to join the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCacheSharedLoadSurvivesCallerCancel(t *testing.T) {
	loader := &stubLoader{data: map[int]model.Series{7: mkSeries(10, 20)}, gate: make(chan struct{})}
	c := New(loader, Options{})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA, 7)
		errA <- err
	}()
	require.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		s   model.Series
		err error
	}
	resB := make(chan result, 1)
	go func() {
		s, err := c.Get(context.Background(), 7)
		resB <- result{s, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(loader.gate)
	got := <-resB
	require.NoError(t, got.err)
	assert.Len(t, got.s, 2)
	assert.Equal(t, int32(1), loader.calls.Load())
	assert.True(t, c.Contains(7))
}

func TestCacheStaysBoundedUnderConcurrency(t *testing.T) {
	data := map[int]model.Series{}
	for id := 0; id < 50; id++ {
		data[id] = mkSeries(float64(id + 1))
	}
	c := New(&stubLoader{data: data}, Options{MaxRoads: 5})

	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = c.Get(context.Background(), (w*7+i)%50)
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 5)
}

func TestCachePublishesEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	c := New(&stubLoader{data: map[int]model.Series{1: mkSeries(10, 20)}}, Options{Bus: bus})
	_, err := c.Get(context.Background(), 1)
	require.NoError(t, err)

	var got []events.CacheAction
	timeout := time.After(time.Second)
	for len(got) < 2 {
		select {
		case e := <-sub:
			got = append(got, e.(events.CacheEvent).Action)
		case <-timeout:
			t.Fatalf("received only %v", got)
		}
	}
	assert.Equal(t, []events.CacheAction{events.CacheMiss, events.CacheLoad}, got)
}

type listRoads []int

func (l listRoads) RoadIDs(context.Context) ([]int, error) { return l, nil }

func TestAllKnownRoadIDs(t *testing.T) {
	c := New(&stubLoader{}, Options{Roads: listRoads{3, 5}})
	ids, err := c.AllKnownRoadIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, ids)

	ids, err = New(&stubLoader{}, Options{}).AllKnownRoadIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
