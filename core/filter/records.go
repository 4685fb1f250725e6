// Package filter holds the pre-aggregation record filter and the
// post-aggregation time-window filter.
package filter

import (
	"strings"

	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/internal/textnorm"
)

// Criteria are AND-combined. Empty search strings match everything.
// Priority partitions the records: true keeps only flagged records, false
// only unflagged ones.
type Criteria struct {
	Company  string
	Employee string
	Priority bool
}

// Stats counts why records were dropped.
type Stats struct {
	Input      int
	Incomplete int
	Company    int
	Employee   int
	Priority   int
}

// Kept returns the number of records surviving the filter.
func (s Stats) Kept() int {
	return s.Input - s.Incomplete - s.Company - s.Employee - s.Priority
}

// Records returns the records matching c, in input order.
func Records(recs []model.ExamRecord, c Criteria) ([]model.ExamRecord, Stats) {
	st := Stats{Input: len(recs)}
	company := textnorm.Fold(c.Company)
	employee := textnorm.Fold(c.Employee)
	out := make([]model.ExamRecord, 0, len(recs))
	for _, r := range recs {
		switch {
		case !r.HasRequired():
			st.Incomplete++
		case company != "" && !strings.Contains(textnorm.Fold(r.Company), company):
			st.Company++
		case employee != "" && !strings.Contains(textnorm.Fold(r.Employee), employee):
			st.Employee++
		case r.Priority() != c.Priority:
			st.Priority++
		default:
			out = append(out, r)
		}
	}
	return out, st
}
