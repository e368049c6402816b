// Package metrics defines the sinks that record prediction, cache and HTTP
// activity. Sinks like PromSink and InfluxSink (infra/metrics) implement
// MetricsSink plus any optional recorder interface they support, and can be
// combined with NewMultiSink. The factory helpers return a MultiSink
// automatically when multiple sinks are configured.
package metrics
