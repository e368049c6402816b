package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/roadcast/core/events"
	coremetrics "github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/core/roadcache"
	"github.com/kilianp07/roadcast/internal/eventbus"
)

// CacheStats exposes the cache counters used to refresh size gauges.
type CacheStats interface {
	Stats() roadcache.Stats
}

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled. stats may be nil.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, stats CacheStats) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(sink, stats, ev)
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, stats CacheStats, ev eventbus.Event) {
	switch e := ev.(type) {
	case events.CacheEvent:
		if r, ok := sink.(coremetrics.CacheRecorder); ok {
			_ = r.RecordCacheEvent(coremetrics.CacheRecord{
				Action:   string(e.Action),
				RoadID:   e.RoadID,
				Points:   e.Points,
				Duration: e.Duration,
				Time:     eventTime(e.Time),
			})
		}
		if r, ok := sink.(coremetrics.CacheSizeRecorder); ok && stats != nil {
			st := stats.Stats()
			_ = r.RecordCacheSize(st.Size, st.MaxRoads)
		}
	case events.PredictionEvent:
		_ = sink.RecordPrediction(coremetrics.PredictionRecord{
			JobID:     e.JobID,
			RoadID:    e.RoadID,
			Predictor: e.Predictor,
			Steps:     e.Steps,
			Cost:      e.Cost,
			Points:    e.Points,
			Failed:    e.Err != nil,
			Time:      eventTime(e.Time),
		})
	}
}

func eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
