package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/infra/logger"
)

// InfluxSink writes prediction jobs, forecast points and cache loads to an
// InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPrediction writes one prediction_job point and one predicted_speed
// point per forecast step. Failed requests only produce the job point.
func (s *InfluxSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	road := strconv.Itoa(rec.RoadID)
	points := make([]*write.Point, 0, len(rec.Points)+1)
	points = append(points, write.NewPointWithMeasurement("prediction_job").
		AddTag("road_id", road).
		AddTag("predictor", rec.Predictor).
		AddTag("status", statusTag(rec.Failed)).
		AddField("job_id", rec.JobID).
		AddField("steps", rec.Steps).
		AddField("cost_ms", round3(float64(rec.Cost.Microseconds())/1000)).
		SetTime(rec.Time))
	for _, p := range rec.Points {
		points = append(points, write.NewPointWithMeasurement("predicted_speed").
			AddTag("road_id", road).
			AddTag("predictor", rec.Predictor).
			AddTag("congestion_level", p.Level.String()).
			AddField("job_id", rec.JobID).
			AddField("speed", round3(p.PredictedSpeed)).
			SetTime(time.UnixMilli(p.Timestamp)))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordCacheEvent persists road loads with their size and duration. Other
// cache actions are left to Prometheus.
func (s *InfluxSink) RecordCacheEvent(rec coremetrics.CacheRecord) error {
	if rec.Action != "load" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("road_load").
		AddTag("road_id", strconv.Itoa(rec.RoadID)).
		AddTag("component", "roadcache").
		AddField("points", rec.Points).
		AddField("duration_ms", round3(float64(rec.Duration.Microseconds())/1000)).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func statusTag(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
