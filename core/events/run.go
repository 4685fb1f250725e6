package events

import "time"

// RunEvent is published once per report request, cached or not.
type RunEvent struct {
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
	Err       error
}

// DailyTotalsEvent carries the grand total of people examined per day.
// Totals is keyed by YYYY-MM-DD.
type DailyTotalsEvent struct {
	RunID  string
	Year   int
	Month  int
	Totals map[string]int
}
