// Package ingest maps raw sheet rows onto typed exam records. Column headers
// are resolved once per sheet through an alias table so that the rest of the
// pipeline never looks fields up by name.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/internal/textnorm"
)

// ErrMissingColumn is returned when a required column has no matching header.
var ErrMissingColumn = errors.New("required column not found")

// Field identifies a typed record field.
type Field string

const (
	FieldCompany       Field = "company"
	FieldStart         Field = "start"
	FieldEnd           Field = "end"
	FieldExplicitDates Field = "explicit_dates"
	FieldPlannedDays   Field = "planned_days"
	FieldMorning       Field = "morning"
	FieldAfternoon     Field = "afternoon"
	FieldHeadcount     Field = "headcount"
	FieldStatus        Field = "status"
	FieldEmployee      Field = "employee"
	FieldPriority      Field = "priority"
	FieldBloodDraw     Field = "blood_draw"
	FieldNotes         Field = "notes"
)

// Required lists the fields without which no record can be aggregated.
var Required = []Field{FieldCompany, FieldStart, FieldEnd, FieldHeadcount}

// ClinicalField returns the field of the i-th clinical sub-counter.
func ClinicalField(i int) Field {
	return Field(model.ClinicalColumns[i].Key)
}

// ColumnMap lists header aliases per field. Aliases are compared after
// textnorm.Key normalization; the first alias present in the sheet wins.
type ColumnMap map[Field][]string

// DefaultColumnMap returns the aliases of the Vietnamese exam sheets.
func DefaultColumnMap() ColumnMap {
	m := ColumnMap{
		FieldCompany:       {"Tên công ty", "Công ty", "Tên doanh nghiệp", "Đơn vị", "company"},
		FieldStart:         {"Ngày bắt đầu khám", "Ngày bắt đầu", "Từ ngày", "start_date", "start"},
		FieldEnd:           {"Ngày kết thúc khám", "Ngày kết thúc", "Đến ngày", "end_date", "end"},
		FieldExplicitDates: {"Ngày khám cụ thể", "Các ngày khám", "explicit_dates", "specific_dates"},
		FieldPlannedDays:   {"Tổng số ngày khám", "Số ngày khám", "planned_days", "total_days"},
		FieldMorning:       {"Sáng", "Số người sáng", "Ca sáng", "morning"},
		FieldAfternoon:     {"Chiều", "Số người chiều", "Ca chiều", "afternoon"},
		FieldHeadcount:     {"Tổng số người khám", "Số người khám", "Tổng số người", "headcount", "total_people"},
		FieldStatus:        {"Trạng thái khám", "Trạng thái", "Tình trạng", "status"},
		FieldEmployee:      {"Tên nhân viên", "Nhân viên phụ trách", "Nhân viên", "employee"},
		FieldPriority:      {"Gold", "Ưu tiên", "priority"},
		FieldBloodDraw:     {"Ngày lấy máu", "Lấy máu", "blood_draw_date", "blood_draw"},
		FieldNotes:         {"Ghi chú", "notes"},
	}
	for i, col := range model.ClinicalColumns {
		m[ClinicalField(i)] = []string{col.Label, col.Key}
	}
	return m
}

func knownField(f Field) bool {
	_, ok := DefaultColumnMap()[f]
	return ok
}

// Merge returns a copy of m where the aliases of o take precedence.
func (m ColumnMap) Merge(o ColumnMap) ColumnMap {
	out := make(ColumnMap, len(m))
	for f, a := range m {
		out[f] = append([]string(nil), a...)
	}
	for f, a := range o {
		out[f] = append(append([]string(nil), a...), out[f]...)
	}
	return out
}

// LoadColumnMap reads alias overrides from a JSON or YAML file and merges
// them over the defaults.
func LoadColumnMap(path string) (ColumnMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeColumnMap(f, ext)
}

// DecodeColumnMap reads alias overrides from r in the given format and
// merges them over the defaults.
func DecodeColumnMap(r io.Reader, format string) (ColumnMap, error) {
	var raw map[string][]string
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode column map: %w", err)
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode column map: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported column map format: %s", format)
	}
	over := make(ColumnMap, len(raw))
	for k, v := range raw {
		f := Field(k)
		if !knownField(f) {
			return nil, fmt.Errorf("unknown field %q in column map", k)
		}
		over[f] = v
	}
	return DefaultColumnMap().Merge(over), nil
}

// Layout maps each resolved field to its column index.
type Layout map[Field]int

// Resolve matches headers against the aliases. Every required field must be
// found, otherwise the error wraps ErrMissingColumn and names the fields.
func (m ColumnMap) Resolve(headers []string) (Layout, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		k := textnorm.Key(h)
		if _, dup := index[k]; !dup && k != "" {
			index[k] = i
		}
	}
	l := make(Layout, len(m))
	for f, aliases := range m {
		for _, a := range aliases {
			if i, ok := index[textnorm.Key(a)]; ok {
				l[f] = i
				break
			}
		}
	}
	var missing []string
	for _, f := range Required {
		if _, ok := l[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return l, nil
}
