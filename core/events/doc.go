// Package events defines the road data events emitted on the event bus.
//
// Available event types:
//   - CacheEvent: cache hit, miss, load, eviction or clear
//   - PredictionEvent: a finished prediction job
package events
