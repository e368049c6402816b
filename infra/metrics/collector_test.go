package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/roadcast/core/events"
	coremetrics "github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/core/roadcache"
	"github.com/kilianp07/roadcast/internal/eventbus"
)

type recordingSink struct {
	mu          sync.Mutex
	predictions []coremetrics.PredictionRecord
	cache       []coremetrics.CacheRecord
	size        int
}

func (r *recordingSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictions = append(r.predictions, rec)
	return nil
}

func (r *recordingSink) RecordCacheEvent(rec coremetrics.CacheRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = append(r.cache, rec)
	return nil
}

func (r *recordingSink) RecordCacheSize(size, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = size
	return nil
}

func (r *recordingSink) counts() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.predictions), len(r.cache), r.size
}

type fixedStats struct{}

func (fixedStats) Stats() roadcache.Stats { return roadcache.Stats{Size: 4, MaxRoads: 20} }

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink, fixedStats{})

	// The collector subscribes synchronously, so events published now are seen.
	bus.Publish(events.CacheEvent{Action: events.CacheLoad, RoadID: 1, Points: 10})
	bus.Publish(events.PredictionEvent{JobID: "j", Predictor: "BASELINE"})
	bus.Publish(events.PredictionEvent{Predictor: "BASELINE", Err: errors.New("no data")})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		p, c, s := sink.counts()
		if p == 2 && c == 1 && s == 4 {
			sink.mu.Lock()
			failed := sink.predictions[1].Failed
			sink.mu.Unlock()
			if !failed {
				t.Fatalf("second prediction should be marked failed")
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	p, c, s := sink.counts()
	t.Fatalf("events not collected: predictions=%d cache=%d size=%d", p, c, s)
}
