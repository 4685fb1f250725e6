// Package runlog records every report request so past runs can be audited
// and replayed. Records are append-only.
package runlog

import (
	"context"
	"encoding/json"
	"time"
)

// Params echoes the request that produced a run.
type Params struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Shift    string `json:"shift,omitempty"`
	Window   string `json:"window,omitempty"`
	Company  string `json:"company,omitempty"`
	Employee string `json:"employee,omitempty"`
	Priority bool   `json:"priority,omitempty"`
}

// Record captures one report run and its outcome.
type Record struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      string          `json:"kind"`
	Params    Params          `json:"params"`
	Summary   json.RawMessage `json:"summary,omitempty"`
	CacheHit  bool            `json:"cache_hit"`
	Duration  time.Duration   `json:"duration_ns"`
	Error     string          `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Zero fields match anything.
type Query struct {
	Start time.Time
	End   time.Time
	Kind  string
	Year  int
	Month int
	Limit int
}

// Match reports whether r satisfies every filter set on q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Year != 0 && r.Params.Year != q.Year {
		return false
	}
	if q.Month != 0 && r.Params.Month != q.Month {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) Append(context.Context, Record) error           { return nil }
func (Nop) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (Nop) Close() error                                   { return nil }

// limit keeps the most recent n records of a timestamp-ordered slice.
func limit(recs []Record, n int) []Record {
	if n <= 0 || len(recs) <= n {
		return recs
	}
	return recs[len(recs)-n:]
}
