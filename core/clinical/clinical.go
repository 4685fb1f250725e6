// Package clinical re-indexes an aggregate by day to report the clinical
// sub-counters examined on each working day of the month.
package clinical

import (
	"time"

	"github.com/kilianp07/examgrid/core/aggregator"
	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
)

// Rollup lists every non-rest day of the aggregate's month in ascending
// order. Each processed record adds its counters to every day it resolved
// to. A day's Max is the largest counter of that day, raised to 1 when any
// company was examined that day so the front-end always draws a bar.
func Rollup(agg *aggregator.Aggregate, cal dates.Calendar) *model.ClinicalResult {
	year, month := agg.Params.Year, agg.Params.Month
	counters := make(map[string]model.Clinical)
	examined := make(map[string]bool)
	for _, c := range agg.Contributions {
		for _, k := range c.Resolution.Keys() {
			sum := counters[k]
			sum.Add(c.Record.Clinical)
			counters[k] = sum
			examined[k] = true
		}
	}

	res := &model.ClinicalResult{
		Success: true,
		Data:    []model.ClinicalDay{},
		Columns: model.ClinicalColumns,
		Summary: model.ClinicalSummary{
			Month:            int(month),
			Year:             year,
			Companies:        len(agg.Details),
			TotalRecords:     agg.TotalRecords,
			ProcessedRecords: agg.Processed,
		},
	}
	n := dates.DaysIn(year, month)
	for i := 1; i <= n; i++ {
		d := time.Date(year, month, i, 0, 0, 0, 0, time.UTC)
		if cal.IsRestDay(d) {
			continue
		}
		key := dates.FormatKey(d)
		day := model.ClinicalDay{
			Date:     d.Format(dates.DisplayLayout),
			DateKey:  key,
			Counters: counters[key],
		}
		day.Max = day.Counters.Max()
		if examined[key] {
			day.Max = max(day.Max, 1)
			res.Summary.ActiveDays++
		}
		res.Summary.Totals.Add(day.Counters)
		res.Data = append(res.Data, day)
	}
	res.Summary.Days = len(res.Data)
	return res
}
