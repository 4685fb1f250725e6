// Package dates parses the loosely formatted date cells found in exam
// schedules and formats calendar dates into map keys and display strings.
// All calendar dates are represented as time.Time at midnight UTC.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	// KeyLayout is the canonical day key used for all day-level maps.
	KeyLayout = "2006-01-02"
	// DisplayLayout is the MM/DD/YYYY form shown to users.
	DisplayLayout = "01/02/2006"
)

// Excel serials outside this window are treated as plain numbers.
const (
	minSerial = 20000 // 1954-10-03
	maxSerial = 80000 // 2119-01-10
)

var (
	mdyPattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	ymdPattern     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	mdyDashPattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	displayPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// Layouts tried after the three strict patterns.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006/1/2",
	"2006.01.02",
	"2006.01.02 15:04:05",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 2 2006",
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar date and reports whether it exists. Overflowing
// components (February 31st) are rejected rather than normalized.
func Date(year int, month time.Month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// Parse converts a raw cell value into a calendar date. It accepts
// time.Time values, Excel serial numbers and strings in M/D/YYYY, YYYY-M-D
// or M-D-YYYY form (tried in that order) before falling back to a list of
// generic layouts. It never panics; ok is false on total failure.
func Parse(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return Day(x), true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return Parse(*x)
	case float64:
		return fromSerial(x)
	case float32:
		return fromSerial(float64(x))
	case int:
		return fromSerial(float64(x))
	case int64:
		return fromSerial(float64(x))
	case string:
		return ParseString(x)
	case []byte:
		return ParseString(string(x))
	default:
		return time.Time{}, false
	}
}

// ParseString parses a textual date. See Parse.
func ParseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if m := mdyPattern.FindStringSubmatch(s); m != nil {
		if t, ok := build(m[3], m[1], m[2]); ok {
			return t, true
		}
	}
	if m := ymdPattern.FindStringSubmatch(s); m != nil {
		if t, ok := build(m[1], m[2], m[3]); ok {
			return t, true
		}
	}
	if m := mdyDashPattern.FindStringSubmatch(s); m != nil {
		if t, ok := build(m[3], m[1], m[2]); ok {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

func build(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	return Date(y, time.Month(m), d)
}

func fromSerial(f float64) (time.Time, bool) {
	if f < minSerial || f > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return Day(t), true
}

// FormatKey returns the canonical YYYY-MM-DD key of t.
func FormatKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey is the inverse of FormatKey.
func ParseKey(key string) (time.Time, error) {
	return time.Parse(KeyLayout, key)
}

// FormatDisplay renders v as MM/DD/YYYY. Strings already in that shape are
// returned unchanged; unparseable or empty values yield "".
func FormatDisplay(v any) string {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if displayPattern.MatchString(s) {
			return s
		}
	}
	t, ok := Parse(v)
	if !ok {
		return ""
	}
	return t.Format(DisplayLayout)
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last calendar date of the month.
func MonthBounds(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last = time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, time.UTC)
	return first, last
}

// Calendar carries the designated weekly rest day.
type Calendar struct {
	Rest time.Weekday
}

// Default is the calendar used by the exam teams: Sunday is the rest day.
var Default = Calendar{Rest: time.Sunday}

// IsRestDay reports whether t falls on the calendar's rest day.
func (c Calendar) IsRestDay(t time.Time) bool {
	return t.Weekday() == c.Rest
}

// IsRestDay reports whether t falls on the default rest day.
func IsRestDay(t time.Time) bool {
	return Default.IsRestDay(t)
}

// ParseWeekday resolves an English or Vietnamese weekday name.
func ParseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun", "chu nhat", "cn":
		return time.Sunday, true
	case "monday", "mon", "thu hai", "t2":
		return time.Monday, true
	case "tuesday", "tue", "thu ba", "t3":
		return time.Tuesday, true
	case "wednesday", "wed", "thu tu", "t4":
		return time.Wednesday, true
	case "thursday", "thu", "thu nam", "t5":
		return time.Thursday, true
	case "friday", "fri", "thu sau", "t6":
		return time.Friday, true
	case "saturday", "sat", "thu bay", "t7":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}
