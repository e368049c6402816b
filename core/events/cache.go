package events

import "time"

// CacheAction identifies what happened to a cache entry.
type CacheAction string

const (
	CacheHit   CacheAction = "hit"
	CacheMiss  CacheAction = "miss"
	CacheLoad  CacheAction = "load"
	CacheEvict CacheAction = "evict"
	CacheClear CacheAction = "clear"
)

// CacheEvent is published by the road cache. Points and Duration are only set
// for load events; RoadID is zero for clear events.
type CacheEvent struct {
	Action   CacheAction
	RoadID   int
	Points   int
	Duration time.Duration
	Time     time.Time
}
