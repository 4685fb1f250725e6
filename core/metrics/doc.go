// Package metrics defines the sinks aggregation runs are reported to. Sinks
// like PromSink and InfluxSink live in infra/metrics and register themselves
// with the factory; NewMetricsSink combines several configured sinks into a
// MultiSink. Optional recorder interfaces let a sink opt into daily totals.
package metrics
