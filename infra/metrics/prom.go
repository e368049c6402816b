package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/roadcast/core/metrics"
)

// PromSink records prediction, cache and API activity in Prometheus metrics.
type PromSink struct {
	predictions   *prometheus.CounterVec
	predictionDur *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	cacheLoadDur  prometheus.Histogram
	cacheRoads    prometheus.Gauge
	cacheCapacity prometheus.Gauge
	requests      *prometheus.CounterVec
	requestDur    *prometheus.HistogramVec
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register adds c to reg, reusing an identical collector already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var (
		s   PromSink
		err error
	)
	if s.predictions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadcast_predictions_total",
		Help: "Total number of prediction requests",
	}, []string{"predictor", "status"})); err != nil {
		return nil, err
	}
	if s.predictionDur, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadcast_prediction_duration_seconds",
		Help:    "Time spent computing a forecast",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"predictor"})); err != nil {
		return nil, err
	}
	if s.cacheEvents, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadcast_cache_events_total",
		Help: "Road cache events by action",
	}, []string{"action"})); err != nil {
		return nil, err
	}
	if s.cacheLoadDur, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roadcast_cache_load_duration_seconds",
		Help:    "Time to load a road series from the data files",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.cacheRoads, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roadcast_cache_roads",
		Help: "Number of roads currently cached",
	})); err != nil {
		return nil, err
	}
	if s.cacheCapacity, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roadcast_cache_capacity_roads",
		Help: "Maximum number of cached roads",
	})); err != nil {
		return nil, err
	}
	if s.requests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roadcast_http_requests_total",
		Help: "API requests by route, method and status",
	}, []string{"route", "method", "status"})); err != nil {
		return nil, err
	}
	if s.requestDur, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadcast_http_request_duration_seconds",
		Help:    "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})); err != nil {
		return nil, err
	}
	return &s, nil
}

// RecordPrediction counts the request and observes its cost.
func (s *PromSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	status := "ok"
	if rec.Failed {
		status = "error"
	}
	s.predictions.WithLabelValues(rec.Predictor, status).Inc()
	if !rec.Failed {
		s.predictionDur.WithLabelValues(rec.Predictor).Observe(rec.Cost.Seconds())
	}
	return nil
}

// RecordCacheEvent counts the event; load events also feed the latency histogram.
func (s *PromSink) RecordCacheEvent(rec coremetrics.CacheRecord) error {
	s.cacheEvents.WithLabelValues(rec.Action).Inc()
	if rec.Action == "load" {
		s.cacheLoadDur.Observe(rec.Duration.Seconds())
	}
	return nil
}

// RecordCacheSize sets the cache gauges.
func (s *PromSink) RecordCacheSize(size, capacity int) error {
	s.cacheRoads.Set(float64(size))
	s.cacheCapacity.Set(float64(capacity))
	return nil
}

// RecordRequest counts the request and observes its latency.
func (s *PromSink) RecordRequest(rec coremetrics.RequestRecord) error {
	s.requests.WithLabelValues(rec.Route, rec.Method, strconv.Itoa(rec.Status)).Inc()
	s.requestDur.WithLabelValues(rec.Route).Observe(rec.Duration.Seconds())
	return nil
}
