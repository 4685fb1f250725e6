package model

import (
	"strings"
	"time"
)

// ExamRecord is one typed scheduling row. It is produced once at ingestion
// from the raw sheet and never re-parsed downstream.
type ExamRecord struct {
	// Row is the 1-based sheet row the record was decoded from.
	Row int

	Company string
	// Start and End are calendar dates at midnight UTC. The zero value means
	// the cell was empty or unparseable.
	Start time.Time
	End   time.Time
	// ExplicitDates is the raw comma-separated "M/D" list; when non-empty it
	// overrides the Start..End range.
	ExplicitDates string

	TotalDaysPlanned int
	Morning          int
	Afternoon        int
	Headcount        int

	Status   Status
	Employee string
	// PriorityMark is the raw marker cell; "x" flags a priority (gold) company.
	PriorityMark string

	Clinical  Clinical
	BloodDraw time.Time
	Notes     string
}

// Priority reports whether the record carries the gold marker.
func (r ExamRecord) Priority() bool {
	return strings.EqualFold(strings.TrimSpace(r.PriorityMark), "x")
}

// HasRequired reports whether the fields needed for aggregation are present.
func (r ExamRecord) HasRequired() bool {
	return strings.TrimSpace(r.Company) != "" &&
		!r.Start.IsZero() && !r.End.IsZero() &&
		r.Headcount > 0
}
