package metrics

import "time"

// RunResult describes one finished report request.
type RunResult struct {
	RunID     string
	Kind      string
	Year      int
	Month     int
	Outcome   string
	CacheHit  bool
	Duration  time.Duration
	Records   int
	Processed int
	Skipped   int
	Companies int
	Error     string
	Time      time.Time
}

// Outcomes reported in RunResult.Outcome.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeBudget   = "budget_exceeded"
	OutcomeCanceled = "canceled"
)

// MetricsSink records report runs for observability purposes.
type MetricsSink interface {
	RecordRun(r RunResult) error
}

// DailyHeadcount is the number of people examined on one day.
type DailyHeadcount struct {
	Day    time.Time
	People int
}

// DailyHeadcountRecorder is implemented by sinks able to store per-day totals.
type DailyHeadcountRecorder interface {
	RecordDailyHeadcount(runID string, days []DailyHeadcount) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error                           { return nil }
func (NopSink) RecordDailyHeadcount(string, []DailyHeadcount) error { return nil }
