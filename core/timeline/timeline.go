// Package timeline turns an aggregate into the company-by-day grid and its
// statistics.
package timeline

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/examgrid/core/aggregator"
	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
)

// Build returns the grid for the aggregate's target month. Rows are ordered
// in-progress first, then by period total descending, then by name.
func Build(agg *aggregator.Aggregate) model.Timeline {
	year, month := agg.Params.Year, agg.Params.Month
	n := dates.DaysIn(year, month)
	tl := model.Timeline{
		Dates:    make([]int, n),
		Weekdays: make([]string, n),
		Rows:     make([]model.TimelineRow, 0, len(agg.Details)),
		Totals:   make([]int, n),
	}
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		d := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)
		tl.Dates[i] = i + 1
		tl.Weekdays[i] = d.Weekday().String()[:3]
		keys[i] = dates.FormatKey(d)
	}
	for company, det := range agg.Details {
		row := model.TimelineRow{
			Company:       company,
			Employee:      det.Employee,
			Days:          make([]int, n),
			Total:         agg.CompanyTotals[company],
			Status:        det.Status,
			StartDate:     det.StartDate,
			EndDate:       det.EndDate,
			ExplicitDates: det.ExplicitDates,
			BloodDrawDate: det.BloodDrawDate,
			Priority:      det.Priority,
		}
		days := agg.DayMaps[company]
		for i, k := range keys {
			row.Days[i] = days[k]
			tl.Totals[i] += days[k]
		}
		tl.Rows = append(tl.Rows, row)
	}
	Sort(tl.Rows)
	return tl
}

// Sort orders rows in place: in-progress before completed, then period total
// descending, then company name.
func Sort(rows []model.TimelineRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Status != b.Status {
			return a.Status < b.Status
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Company < b.Company
	})
}

// Stats holds grid-wide figures.
type Stats struct {
	MaxPeoplePerDay int
	AveragePerDay   int
	TotalPeople     int
}

// Compute returns the statistics of tl. The average is taken over every day
// of the month, rest days included, and rounded half away from zero.
func Compute(tl model.Timeline) Stats {
	if len(tl.Totals) == 0 {
		return Stats{}
	}
	col := make([]float64, len(tl.Totals))
	for i, v := range tl.Totals {
		col[i] = float64(v)
	}
	sum := floats.Sum(col)
	return Stats{
		MaxPeoplePerDay: int(floats.Max(col)),
		AveragePerDay:   int(math.Round(sum / float64(len(col)))),
		TotalPeople:     int(sum),
	}
}

// Summarize builds the result summary of tl.
func Summarize(agg *aggregator.Aggregate, tl model.Timeline, window model.Window) model.Summary {
	st := Compute(tl)
	s := model.Summary{
		TotalCompanies:   len(tl.Rows),
		CurrentMonth:     int(agg.Params.Month),
		CurrentYear:      agg.Params.Year,
		MaxPeoplePerDay:  st.MaxPeoplePerDay,
		AveragePerDay:    st.AveragePerDay,
		TotalPeople:      st.TotalPeople,
		TotalRecords:     agg.TotalRecords,
		ProcessedRecords: agg.Processed,
		ShiftFilter:      agg.Params.Shift,
		TimeWindow:       window,
	}
	for _, r := range tl.Rows {
		if r.Status.Completed() {
			s.CompletedCompanies++
		} else {
			s.PendingCompanies++
		}
	}
	return s
}
