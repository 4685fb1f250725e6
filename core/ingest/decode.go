package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/core/source"
)

// Decode resolves the table headers and converts every data row into an
// ExamRecord. Rows with defects are still returned; the record filter drops
// those missing required fields.
func Decode(tbl source.Table, m ColumnMap) ([]model.ExamRecord, error) {
	if len(tbl.Headers) == 0 {
		return nil, fmt.Errorf("ingest %s: %w", tbl.Name, source.ErrEmptySheet)
	}
	layout, err := m.Resolve(tbl.Headers)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", tbl.Name, err)
	}
	out := make([]model.ExamRecord, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out = append(out, layout.Record(row, i+2))
	}
	return out, nil
}

// Record converts one raw row. rowNum is the 1-based sheet row.
func (l Layout) Record(row []any, rowNum int) model.ExamRecord {
	cell := func(f Field) any {
		i, ok := l[f]
		if !ok || i >= len(row) {
			return nil
		}
		return row[i]
	}
	date := func(f Field) time.Time {
		t, _ := dates.Parse(cell(f))
		return t
	}
	rec := model.ExamRecord{
		Row:              rowNum,
		Company:          Text(cell(FieldCompany)),
		Start:            date(FieldStart),
		End:              date(FieldEnd),
		ExplicitDates:    explicitDates(cell(FieldExplicitDates)),
		TotalDaysPlanned: Int(cell(FieldPlannedDays)),
		Morning:          Int(cell(FieldMorning)),
		Afternoon:        Int(cell(FieldAfternoon)),
		Headcount:        Int(cell(FieldHeadcount)),
		Employee:         Text(cell(FieldEmployee)),
		PriorityMark:     Text(cell(FieldPriority)),
		BloodDraw:        date(FieldBloodDraw),
		Notes:            Text(cell(FieldNotes)),
	}
	rec.Status, _ = model.ParseStatus(Text(cell(FieldStatus)))
	for i := range rec.Clinical {
		rec.Clinical[i] = Int(cell(ClinicalField(i)))
	}
	return rec
}

// Text renders a raw cell as trimmed text.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return dates.FormatDisplay(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

var thousands = regexp.MustCompile(`^\d{1,3}([.,]\d{3})+$`)

// Int parses a headcount-like cell leniently: blanks are 0, floats are
// truncated, "1.200" and "1,200" are read as thousands, negatives clamp to 0.
func Int(v any) int {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case float64:
		f = x
	default:
		s := strings.ReplaceAll(Text(x), " ", "")
		if s == "" {
			return 0
		}
		if thousands.MatchString(s) {
			s = strings.NewReplacer(".", "", ",", "").Replace(s)
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = p
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// A date cell in the explicit-dates column is turned back into an M/D token.
func explicitDates(v any) string {
	if t, ok := v.(time.Time); ok && !t.IsZero() {
		return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
	}
	return Text(v)
}
