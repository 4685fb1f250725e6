package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/examgrid/core/metrics"
)

// PromSink records report runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	processed *prometheus.GaugeVec
	skipped   *prometheus.GaugeVec
	companies *prometheus.GaugeVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "examgrid_runs_total",
		Help: "Total number of report requests",
	}, []string{"kind", "outcome", "cache"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "examgrid_run_duration_seconds",
		Help:    "Time spent serving a report request",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	processed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "examgrid_records_processed",
		Help: "Records that contributed to the last computed report",
	}, []string{"kind"})
	skipped := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "examgrid_records_skipped",
		Help: "Records skipped in the last computed report",
	}, []string{"kind"})
	companies := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "examgrid_companies",
		Help: "Companies shown in the last computed report",
	}, []string{"kind"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if processed, err = register(reg, processed); err != nil {
		return nil, err
	}
	if skipped, err = register(reg, skipped); err != nil {
		return nil, err
	}
	if companies, err = register(reg, companies); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, duration: duration, processed: processed, skipped: skipped, companies: companies}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun counts the run and, for computed runs, updates the gauges.
func (s *PromSink) RecordRun(r coremetrics.RunResult) error {
	cache := "miss"
	if r.CacheHit {
		cache = "hit"
	}
	s.runs.WithLabelValues(r.Kind, r.Outcome, cache).Inc()
	s.duration.WithLabelValues(r.Kind).Observe(r.Duration.Seconds())
	if r.CacheHit || r.Outcome != coremetrics.OutcomeSuccess {
		return nil
	}
	s.processed.WithLabelValues(r.Kind).Set(float64(r.Processed))
	s.skipped.WithLabelValues(r.Kind).Set(float64(r.Skipped))
	s.companies.WithLabelValues(r.Kind).Set(float64(r.Companies))
	return nil
}

func boolLabel(b bool) string { return strconv.FormatBool(b) }
