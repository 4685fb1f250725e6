package metrics

import "github.com/kilianp07/examgrid/core/factory"

// Config defines settings for metrics sinks. PrometheusAddr enables the
// /metrics endpoint when non-empty.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks"`
	PrometheusAddr string                 `json:"prometheus_addr"`
}
