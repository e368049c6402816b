// Package infra contains technical adapters: zerolog logging, Prometheus and
// InfluxDB metrics sinks, Sentry monitoring, the MQTT publisher and the
// prediction job stores. These packages should depend only on the interfaces
// defined in the core packages.
package infra
