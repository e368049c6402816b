package roadcache

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kilianp07/roadcast/core/events"
	"github.com/kilianp07/roadcast/core/logger"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/internal/eventbus"
)

// DefaultMaxRoads is the capacity used when Options.MaxRoads is not positive.
const DefaultMaxRoads = 20

// Loader reads the full series of a road from the underlying store.
type Loader interface {
	Load(ctx context.Context, roadID int) (model.Series, error)
}

// RoadLister enumerates every road id present in the underlying store.
type RoadLister interface {
	RoadIDs(ctx context.Context) ([]int, error)
}

// Options configures a Cache.
type Options struct {
	MaxRoads int
	// Clock returns the time recorded as last access. Defaults to time.Now.
	Clock  func() time.Time
	Roads  RoadLister
	Bus    eventbus.EventBus
	Logger logger.Logger
}

type access struct {
	at  time.Time
	seq uint64
}

func (a access) before(b access) bool {
	if a.at.Equal(b.at) {
		return a.seq < b.seq
	}
	return a.at.Before(b.at)
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Size      int    `json:"size"`
	MaxRoads  int    `json:"max_roads"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Loads     uint64 `json:"loads"`
	Evictions uint64 `json:"evictions"`
}

// Cache maps road ids to their loaded series.
type Cache struct {
	loader Loader
	roads  RoadLister
	max    int
	now    func() time.Time
	bus    eventbus.EventBus
	log    logger.Logger
	group  singleflight.Group

	mu     sync.Mutex
	series map[int]model.Series
	access map[int]access
	seq    uint64
	gen    uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	loads     atomic.Uint64
	evictions atomic.Uint64
}

// New creates an empty Cache backed by loader.
func New(loader Loader, opts Options) *Cache {
	if opts.MaxRoads <= 0 {
		opts.MaxRoads = DefaultMaxRoads
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	return &Cache{
		loader: loader,
		roads:  opts.Roads,
		max:    opts.MaxRoads,
		now:    opts.Clock,
		bus:    opts.Bus,
		log:    opts.Logger,
		series: map[int]model.Series{},
		access: map[int]access{},
	}
}

// touch records an access to roadID. c.mu must be held.
func (c *Cache) touch(roadID int) {
	c.seq++
	c.access[roadID] = access{at: c.now(), seq: c.seq}
}

// Get returns the series of roadID, loading it on a miss. The returned series
// is shared and must not be modified. Empty results are returned but never cached.
func (c *Cache) Get(ctx context.Context, roadID int) (model.Series, error) {
	c.mu.Lock()
	c.touch(roadID)
	s, ok := c.series[roadID]
	gen := c.gen
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
		c.publish(events.CacheEvent{Action: events.CacheHit, RoadID: roadID})
		return s, nil
	}
	c.misses.Add(1)
	c.publish(events.CacheEvent{Action: events.CacheMiss, RoadID: roadID})

	// The shared load is detached from any single caller; each caller only
	// stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.Itoa(roadID), func() (any, error) {
		start := time.Now()
		s, err := c.loader.Load(loadCtx, roadID)
		if err != nil {
			return nil, err
		}
		c.loads.Add(1)
		c.publish(events.CacheEvent{Action: events.CacheLoad, RoadID: roadID, Points: len(s), Duration: time.Since(start)})
		return s, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		c.forget(roadID)
		return nil, ctx.Err()
	}
	if res.Err != nil {
		c.forget(roadID)
		return nil, res.Err
	}
	v := res.Val
	s = v.(model.Series)
	c.store(roadID, s, gen)
	return s, nil
}

// forget drops the access entry of a road that was never stored.
func (c *Cache) forget(roadID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, cached := c.series[roadID]; !cached {
		delete(c.access, roadID)
	}
}

// store inserts a non-empty series and evicts under the same lock. A Clear that
// happened while the series was loading wins: the stale result is not stored.
func (c *Cache) store(roadID int, s model.Series, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(s) == 0 || gen != c.gen {
		if _, cached := c.series[roadID]; !cached {
			delete(c.access, roadID)
		}
		return
	}
	c.series[roadID] = s
	c.touch(roadID)
	c.evictLocked()
}

// evictLocked removes the least recently accessed roads until the cache fits
// its capacity. c.mu must be held.
func (c *Cache) evictLocked() {
	if len(c.series) <= c.max {
		return
	}
	ids := make([]int, 0, len(c.series))
	for id := range c.series {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return c.access[ids[i]].before(c.access[ids[j]]) })
	remove := len(c.series) - c.max
	for _, id := range ids[:remove] {
		delete(c.series, id)
		delete(c.access, id)
		c.evictions.Add(1)
		c.log.Debugf("evicted road %d", id)
		c.publish(events.CacheEvent{Action: events.CacheEvict, RoadID: id})
	}
}

// Clear drops every cached series and access time.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.series = map[int]model.Series{}
	c.access = map[int]access{}
	c.gen++
	c.mu.Unlock()
	c.publish(events.CacheEvent{Action: events.CacheClear})
}

// Contains reports whether roadID is cached without counting as an access.
func (c *Cache) Contains(roadID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.series[roadID]
	return ok
}

// Keys returns the cached road ids in ascending order.
func (c *Cache) Keys() []int {
	c.mu.Lock()
	ids := make([]int, 0, len(c.series))
	for id := range c.series {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	sort.Ints(ids)
	return ids
}

// Len returns the number of cached roads.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.series)
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Size:      c.Len(),
		MaxRoads:  c.max,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Loads:     c.loads.Load(),
		Evictions: c.evictions.Load(),
	}
}

// AllKnownRoadIDs lists every road id in the underlying store, independently of
// what is cached.
func (c *Cache) AllKnownRoadIDs(ctx context.Context) ([]int, error) {
	if c.roads == nil {
		return []int{}, nil
	}
	return c.roads.RoadIDs(ctx)
}

func (c *Cache) publish(ev events.CacheEvent) {
	if c.bus == nil {
		return
	}
	ev.Time = c.now()
	c.bus.Publish(ev)
}
