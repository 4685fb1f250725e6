package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/extrame/xls"

	coresource "github.com/kilianp07/examgrid/core/source"
)

const maxXLSRows = 100000

// XLS reads the first sheet of a legacy .xls workbook on every Fetch.
type XLS struct {
	Path    string
	Charset string
}

func (x XLS) Fetch(ctx context.Context) (coresource.Table, error) {
	if err := ctx.Err(); err != nil {
		return coresource.Table{}, err
	}
	f, err := os.Open(x.Path)
	if err != nil {
		return coresource.Table{}, err
	}
	defer func() { _ = f.Close() }()
	return ParseXLS(f, x.Charset)
}

// ParseXLS reads a legacy workbook from r. Workbooks with several sheets
// are read from the first one.
func ParseXLS(r io.Reader, charset string) (coresource.Table, error) {
	if charset == "" {
		charset = "utf-8"
	}
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		br, err := readAllBytes(r)
		if err != nil {
			return coresource.Table{}, err
		}
		rs = br
	}
	wb, err := xls.OpenReader(rs, charset)
	if err != nil {
		return coresource.Table{}, err
	}
	if wb.NumSheets() == 0 {
		return coresource.Table{}, fmt.Errorf("no worksheet found")
	}
	name := ""
	if s := wb.GetSheet(0); s != nil {
		name = s.Name
	}
	rows := wb.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return coresource.Table{}, fmt.Errorf("worksheet is empty")
	}
	return coresource.FromStrings(name, skipTitleRows(rows))
}
