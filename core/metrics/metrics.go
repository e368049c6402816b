package metrics

import (
	"time"

	"github.com/kilianp07/roadcast/core/model"
)

// PredictionRecord describes one prediction request, successful or not.
type PredictionRecord struct {
	JobID     string
	RoadID    int
	Predictor string
	Steps     int
	Cost      time.Duration
	Points    []model.PredictionPoint
	Failed    bool
	Time      time.Time
}

// MetricsSink records prediction activity for observability purposes.
type MetricsSink interface {
	RecordPrediction(rec PredictionRecord) error
}

// CacheRecord captures a road cache event.
type CacheRecord struct {
	Action   string
	RoadID   int
	Points   int
	Duration time.Duration
	Time     time.Time
}

// CacheRecorder records road cache events.
type CacheRecorder interface {
	RecordCacheEvent(rec CacheRecord) error
}

// CacheSizeRecorder records the number of cached roads against the capacity.
type CacheSizeRecorder interface {
	RecordCacheSize(size, capacity int) error
}

// RequestRecord captures one HTTP request served by the API.
type RequestRecord struct {
	Route    string
	Method   string
	Status   int
	Duration time.Duration
	Time     time.Time
}

// RequestRecorder records API requests.
type RequestRecorder interface {
	RecordRequest(rec RequestRecord) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionRecord) error { return nil }
func (NopSink) RecordCacheEvent(CacheRecord) error      { return nil }
func (NopSink) RecordCacheSize(int, int) error          { return nil }
func (NopSink) RecordRequest(RequestRecord) error       { return nil }
