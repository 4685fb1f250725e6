package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/kilianp07/examgrid/core/events"
	coremetrics "github.com/kilianp07/examgrid/core/metrics"
	"github.com/kilianp07/examgrid/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				collect(sink, ev)
			}
		}
	}()
}

func collect(sink coremetrics.MetricsSink, ev eventbus.Event) {
	switch e := ev.(type) {
	case events.RunEvent:
		errStr := ""
		if e.Err != nil {
			errStr = e.Err.Error()
		}
		_ = sink.RecordRun(coremetrics.RunResult{
			RunID:     e.RunID,
			Kind:      e.Kind,
			Year:      e.Year,
			Month:     e.Month,
			Outcome:   e.Outcome,
			CacheHit:  e.CacheHit,
			Duration:  e.Duration,
			Records:   e.Records,
			Processed: e.Processed,
			Skipped:   e.Skipped,
			Companies: e.Companies,
			Error:     errStr,
			Time:      time.Now(),
		})
	case events.DailyTotalsEvent:
		if r, ok := sink.(coremetrics.DailyHeadcountRecorder); ok {
			_ = r.RecordDailyHeadcount(e.RunID, dailyHeadcounts(e.Totals))
		}
	}
}

func dailyHeadcounts(totals map[string]int) []coremetrics.DailyHeadcount {
	out := make([]coremetrics.DailyHeadcount, 0, len(totals))
	for k, v := range totals {
		d, err := time.Parse("2006-01-02", k)
		if err != nil {
			continue
		}
		out = append(out, coremetrics.DailyHeadcount{Day: d, People: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}
