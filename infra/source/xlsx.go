// Package source provides the concrete row sources: local xlsx, xls and csv
// files and a remote export fetched over HTTP. Importing the package
// registers every source with core/source.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	coresource "github.com/kilianp07/examgrid/core/source"
)

// XLSX reads one sheet of an .xlsx workbook on every Fetch.
type XLSX struct {
	Path  string
	Sheet string
}

func (x XLSX) Fetch(ctx context.Context) (coresource.Table, error) {
	if err := ctx.Err(); err != nil {
		return coresource.Table{}, err
	}
	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return coresource.Table{}, fmt.Errorf("open %s: %w", x.Path, err)
	}
	defer func() { _ = f.Close() }()
	return readWorkbook(f, x.Sheet)
}

// ParseXLSX reads a workbook from r.
func ParseXLSX(r io.Reader, sheet string) (coresource.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return coresource.Table{}, err
	}
	defer func() { _ = f.Close() }()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) (coresource.Table, error) {
	name := sheet
	if name == "" {
		name = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return coresource.Table{}, fmt.Errorf("worksheet %q not found", name)
	}
	if name == "" {
		return coresource.Table{}, fmt.Errorf("no worksheet found")
	}
	// Raw values keep dates as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return coresource.Table{}, err
	}
	rows = skipTitleRows(rows)
	return coresource.FromStrings(name, rows)
}

// Sheets often start with a title block above the header row. The header is
// taken to be the first row with at least three non-blank cells.
func skipTitleRows(rows [][]string) [][]string {
	for i, r := range rows {
		n := 0
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				n++
			}
		}
		if n >= 3 {
			return rows[i:]
		}
	}
	return rows
}

func readAllBytes(r io.Reader) (*bytes.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}
