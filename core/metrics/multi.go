package metrics

import "errors"

// MultiSink fans records out to several sinks. A failing sink does not keep
// the others from recording.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks and joins their errors.
func (m *MultiSink) RecordRun(r RunResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordRun(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordDailyHeadcount forwards daily totals to the sinks supporting them.
func (m *MultiSink) RecordDailyHeadcount(runID string, days []DailyHeadcount) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(DailyHeadcountRecorder); ok {
			if err := rec.RecordDailyHeadcount(runID, days); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks holding resources, such as the Influx writer.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
