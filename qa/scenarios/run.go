package scenarios

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/roadcast/core/dashboard"
	"github.com/kilianp07/roadcast/core/forecast"
	"github.com/kilianp07/roadcast/core/jobs"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/prediction"
	"github.com/kilianp07/roadcast/core/roadcache"
	"github.com/kilianp07/roadcast/core/roads"
	"github.com/kilianp07/roadcast/infra/logger"
	"github.com/kilianp07/roadcast/infra/metrics"
	"github.com/kilianp07/roadcast/infra/mqtt"
	"github.com/kilianp07/roadcast/internal/eventbus"
)

type scenarioData map[int]model.Series

func (d scenarioData) Load(_ context.Context, id int) (model.Series, error) { return d[id].Clone(), nil }

func (d scenarioData) RoadIDs(context.Context) ([]int, error) {
	ids := make([]int, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	data := scenarioData{}
	dir := roads.NewMemory()
	for _, r := range sc.Roads {
		data[r.ID] = r.Series(sc.BaseTime)
		if r.Name != "" || r.Region != "" {
			dir.Register(r.Segment())
		}
	}

	bus := eventbus.New()
	defer bus.Close()
	cache := roadcache.New(data, roadcache.Options{MaxRoads: sc.MaxRoads, Roads: data, Bus: bus, Logger: logger.NopLogger{}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartEventCollector(ctx, bus, sink, cache)

	pub := mqtt.NewMockPublisher()
	for _, id := range sc.FailPublish {
		pub.FailRoads[id] = true
	}
	svc, err := forecast.NewService(forecast.Options{
		Cache:     cache,
		Directory: dir,
		Predictor: prediction.NewBaseline(),
		Store:     jobs.NewMemoryStore(),
		Publisher: pub,
		Bus:       bus,
		Logger:    logger.NopLogger{},
	})
	if err != nil {
		t.Fatalf("forecast service: %v", err)
	}

	failures := 0
	for _, req := range sc.Requests {
		if _, err := svc.Predict(ctx, forecast.Request{RoadID: req.Road, HorizonSteps: req.Steps}); err != nil {
			failures++
		}
	}
	stored, err := svc.Jobs(ctx, jobs.Query{Limit: jobs.MaxLimit})
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}

	if failures != sc.Expected.Failures {
		t.Errorf("scenario %s expected %d failures, got %d", sc.Name, sc.Expected.Failures, failures)
	}
	if len(stored) != sc.Expected.Jobs {
		t.Errorf("scenario %s expected %d jobs, got %d", sc.Name, sc.Expected.Jobs, len(stored))
	}
	if got := len(pub.Published()); got != sc.Expected.Published {
		t.Errorf("scenario %s expected %d published, got %d", sc.Name, sc.Expected.Published, got)
	}
	if sc.Expected.CacheSize > 0 && cache.Len() != sc.Expected.CacheSize {
		t.Errorf("scenario %s expected cache size %d, got %d", sc.Name, sc.Expected.CacheSize, cache.Len())
	}

	ids, err := cache.AllKnownRoadIDs(ctx)
	if err != nil {
		t.Fatalf("road ids: %v", err)
	}
	avgs, err := dashboard.CacheAverages(ctx, cache, dir, ids)
	if err != nil {
		t.Fatalf("averages: %v", err)
	}
	sum := dashboard.Aggregate(avgs, model.DefaultThresholds(), dashboard.DefaultTopN)
	if sum.CongestedCount != sc.Expected.CongestedCount {
		t.Errorf("scenario %s expected %d congested, got %d", sc.Name, sc.Expected.CongestedCount, sum.CongestedCount)
	}
	if sc.Expected.MostCongested != 0 && (sum.MostCongested == nil || sum.MostCongested.RoadID != sc.Expected.MostCongested) {
		t.Errorf("scenario %s expected road %d most congested, got %+v", sc.Name, sc.Expected.MostCongested, sum.MostCongested)
	}

	// The collector runs asynchronously; wait until every request is counted.
	want := float64(len(sc.Requests))
	deadline := time.Now().Add(2 * time.Second)
	for counterTotal(t, reg, "roadcast_predictions_total") != want {
		if time.Now().After(deadline) {
			t.Errorf("scenario %s expected %v recorded predictions, got %v",
				sc.Name, want, counterTotal(t, reg, "roadcast_predictions_total"))
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func counterTotal(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
