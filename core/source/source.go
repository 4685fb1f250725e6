// Package source defines the row source the schedule sheet is read from.
// Concrete sources (xlsx, xls, csv, http) live in infra/source and register
// themselves with the factory on import.
package source

import (
	"context"
	"errors"
	"strings"

	"github.com/kilianp07/examgrid/core/factory"
)

// ErrEmptySheet is returned when a sheet has no header row.
var ErrEmptySheet = errors.New("sheet has no header row")

// Table is a raw sheet: one header row and data rows of raw cell values.
// Cells are string, float64, int, time.Time or nil depending on the source.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Record returns row i as a header -> raw value mapping. Duplicate headers
// keep the first column.
func (t Table) Record(i int) map[string]any {
	out := make(map[string]any, len(t.Headers))
	if i < 0 || i >= len(t.Rows) {
		return out
	}
	row := t.Rows[i]
	for j, h := range t.Headers {
		if _, dup := out[h]; dup {
			continue
		}
		if j < len(row) {
			out[h] = row[j]
		} else {
			out[h] = nil
		}
	}
	return out
}

// FromStrings builds a table from a matrix whose first row is the header.
// Blank rows are dropped.
func FromStrings(name string, rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ErrEmptySheet
	}
	t := Table{Name: name, Headers: make([]string, len(rows[0]))}
	for i, h := range rows[0] {
		t.Headers[i] = strings.TrimSpace(h)
	}
	for _, r := range rows[1:] {
		if blank(r) {
			continue
		}
		cells := make([]any, len(r))
		for i, c := range r {
			cells[i] = c
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func blank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Source yields the current schedule sheet.
type Source interface {
	Fetch(ctx context.Context) (Table, error)
}

// Static serves a fixed table. It is used by tests and the prewarm job.
type Static struct {
	Table Table
}

func (s Static) Fetch(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	return s.Table, nil
}

// Func adapts a function to Source.
type Func func(ctx context.Context) (Table, error)

func (f Func) Fetch(ctx context.Context) (Table, error) { return f(ctx) }

var registry = factory.NewRegistry[Source]()

// Register adds a source factory identified by name.
func Register(name string, f factory.Factory[Source]) error {
	return registry.Register(name, f)
}

// New creates a Source from its module configuration.
func New(cfg factory.ModuleConfig) (Source, error) {
	return registry.Create(cfg)
}
