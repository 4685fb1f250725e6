// Package export renders report results as JSON, CSV or an HTML chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/examgrid/core/model"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes the timeline grid: company, employee, status, one column
// per day of month and the row total, followed by a TOTAL row.
func WriteCSV(w io.Writer, res *model.Result) error {
	cw := csv.NewWriter(w)
	tl := res.Timeline
	header := []string{"company", "employee", "status"}
	for _, d := range tl.Dates {
		header = append(header, strconv.Itoa(d))
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range tl.Rows {
		rec := []string{row.Company, row.Employee, row.Status.String()}
		rec = appendInts(rec, row.Days)
		rec = append(rec, strconv.Itoa(row.Total))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	totals := make([]int, len(tl.Dates))
	copy(totals, tl.Totals)
	grand := 0
	for _, v := range totals {
		grand += v
	}
	rec := appendInts([]string{"TOTAL", "", ""}, totals)
	if err := cw.Write(append(rec, strconv.Itoa(grand))); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteClinicalCSV writes one line per day with the 18 clinical counters in
// column order, headed by their labels.
func WriteClinicalCSV(w io.Writer, res *model.ClinicalResult) error {
	cw := csv.NewWriter(w)
	header := []string{"date", "max"}
	for _, c := range model.ClinicalColumns {
		header = append(header, c.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range res.Data {
		rec := []string{d.DateKey, strconv.Itoa(d.Max)}
		rec = appendInts(rec, d.Counters[:])
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func appendInts(dst []string, vs []int) []string {
	for _, v := range vs {
		dst = append(dst, strconv.Itoa(v))
	}
	return dst
}
