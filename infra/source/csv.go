package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	coresource "github.com/kilianp07/examgrid/core/source"
)

// CSV reads a comma (or Comma) separated export on every Fetch.
type CSV struct {
	Path  string
	Comma rune
}

func (c CSV) Fetch(ctx context.Context) (coresource.Table, error) {
	if err := ctx.Err(); err != nil {
		return coresource.Table{}, err
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return coresource.Table{}, err
	}
	defer func() { _ = f.Close() }()
	return ParseCSV(f, c.Comma)
}

// ParseCSV reads a CSV export from r. A UTF-8 byte order mark is ignored.
func ParseCSV(r io.Reader, comma rune) (coresource.Table, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return coresource.Table{}, err
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = trimBOM(rows[0][0])
	}
	return coresource.FromStrings("csv", skipTitleRows(rows))
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
