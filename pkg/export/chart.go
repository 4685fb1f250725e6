package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/examgrid/core/model"
)

// WriteChartHTML renders the per-day grand totals of res as a bar chart page.
func WriteChartHTML(w io.Writer, res *model.Result) error {
	bar := charts.NewBar()
	s := res.Summary
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Exam headcount %02d/%d", s.CurrentMonth, s.CurrentYear),
			Subtitle: fmt.Sprintf("shift: %s, max %d/day, avg %d/day", s.ShiftFilter, s.MaxPeoplePerDay, s.AveragePerDay),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "People"}),
	)

	tl := res.Timeline
	xAxis := make([]string, len(tl.Dates))
	data := make([]opts.BarData, len(tl.Dates))
	for i, d := range tl.Dates {
		label := strconv.Itoa(d)
		if i < len(tl.Weekdays) {
			label += " " + tl.Weekdays[i]
		}
		xAxis[i] = label
		v := 0
		if i < len(tl.Totals) {
			v = tl.Totals[i]
		}
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(xAxis).AddSeries("People", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
