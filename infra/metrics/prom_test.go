package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/examgrid/core/metrics"
)

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	runs := []coremetrics.RunResult{
		{Kind: "timeline", Outcome: coremetrics.OutcomeSuccess, Duration: 20 * time.Millisecond, Processed: 12, Skipped: 3, Companies: 7},
		{Kind: "timeline", Outcome: coremetrics.OutcomeSuccess, CacheHit: true, Processed: 99},
		{Kind: "clinical", Outcome: coremetrics.OutcomeFailure},
	}
	for _, r := range runs {
		if err := sink.RecordRun(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if v := testutil.ToFloat64(sink.runs.WithLabelValues("timeline", "success", "miss")); v != 1 {
		t.Fatalf("miss counter = %v", v)
	}
	if v := testutil.ToFloat64(sink.runs.WithLabelValues("timeline", "success", "hit")); v != 1 {
		t.Fatalf("hit counter = %v", v)
	}
	if v := testutil.ToFloat64(sink.runs.WithLabelValues("clinical", "failure", "miss")); v != 1 {
		t.Fatalf("failure counter = %v", v)
	}
	// cache hits do not overwrite the gauges
	if v := testutil.ToFloat64(sink.processed.WithLabelValues("timeline")); v != 12 {
		t.Fatalf("processed gauge = %v", v)
	}
	if v := testutil.ToFloat64(sink.companies.WithLabelValues("timeline")); v != 7 {
		t.Fatalf("companies gauge = %v", v)
	}
	if n := testutil.CollectAndCount(sink.duration); n != 2 {
		t.Fatalf("expected 2 duration series, got %d", n)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	b, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	_ = a.RecordRun(coremetrics.RunResult{Kind: "timeline", Outcome: "success"})
	_ = b.RecordRun(coremetrics.RunResult{Kind: "timeline", Outcome: "success"})
	if v := testutil.ToFloat64(a.runs.WithLabelValues("timeline", "success", "miss")); v != 2 {
		t.Fatalf("expected shared counter, got %v", v)
	}
}
