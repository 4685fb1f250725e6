package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/examgrid/core/events"
	coremetrics "github.com/kilianp07/examgrid/core/metrics"
	"github.com/kilianp07/examgrid/internal/eventbus"
)

type memSink struct {
	mu   sync.Mutex
	runs []coremetrics.RunResult
	days []coremetrics.DailyHeadcount
}

func (m *memSink) RecordRun(r coremetrics.RunResult) error {
	m.mu.Lock()
	m.runs = append(m.runs, r)
	m.mu.Unlock()
	return nil
}

func (m *memSink) RecordDailyHeadcount(_ string, d []coremetrics.DailyHeadcount) error {
	m.mu.Lock()
	m.days = append(m.days, d...)
	m.mu.Unlock()
	return nil
}

func (m *memSink) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs), len(m.days)
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sink := &memSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink)

	// the collector subscribes synchronously, so nothing is lost
	bus.Publish(events.RunEvent{RunID: "r1", Kind: "timeline", Outcome: "failure", Err: errors.New("boom")})
	bus.Publish(events.DailyTotalsEvent{RunID: "r1", Totals: map[string]int{"2025-08-05": 4, "2025-08-04": 3, "bad": 1}})

	deadline := time.Now().Add(2 * time.Second)
	for {
		runs, days := sink.counts()
		if runs == 1 && days == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("events not collected: runs=%d days=%d", runs, days)
		}
		time.Sleep(5 * time.Millisecond)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.runs[0].Error != "boom" {
		t.Fatalf("error not forwarded: %+v", sink.runs[0])
	}
	if sink.days[0].Day.Day() != 4 || sink.days[1].People != 4 {
		t.Fatalf("daily totals not sorted: %+v", sink.days)
	}
}

func TestStartEventCollectorNil(t *testing.T) {
	StartEventCollector(context.Background(), nil, &memSink{})
	StartEventCollector(context.Background(), eventbus.New(), nil)
}
