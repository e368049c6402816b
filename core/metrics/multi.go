package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordPrediction(rec PredictionRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordCacheEvent forwards cache events to sinks supporting them.
func (m *MultiSink) RecordCacheEvent(rec CacheRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(CacheRecorder); ok {
			if err := r.RecordCacheEvent(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCacheSize forwards cache size gauges.
func (m *MultiSink) RecordCacheSize(size, capacity int) error {
	for _, s := range m.Sinks {
		if r, ok := s.(CacheSizeRecorder); ok {
			if err := r.RecordCacheSize(size, capacity); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRequest forwards API request records.
func (m *MultiSink) RecordRequest(rec RequestRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(RequestRecorder); ok {
			if err := r.RecordRequest(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
