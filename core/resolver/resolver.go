// Package resolver computes the calendar days of a target month on which a
// company is examined.
package resolver

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
)

// Pin is a literal morning/afternoon headcount attached to one explicit date,
// written as "8/18(10,20)" in the explicit-dates column.
type Pin struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
}

// Resolution is the ordered, de-duplicated set of examined days of a record
// in the target month. No day is a rest day.
type Resolution struct {
	Days []time.Time
	// Pinned holds the days whose counts were given literally, keyed by
	// dates.FormatKey.
	Pinned map[string]Pin
	// Explicit is true when the days came from the explicit-dates column.
	Explicit bool
}

// Len returns the number of resolved days.
func (r Resolution) Len() int { return len(r.Days) }

// Empty reports whether no day was resolved.
func (r Resolution) Empty() bool { return len(r.Days) == 0 }

// Keys returns the day keys in order.
func (r Resolution) Keys() []string {
	keys := make([]string, len(r.Days))
	for i, d := range r.Days {
		keys[i] = dates.FormatKey(d)
	}
	return keys
}

// Free returns the resolved days that carry no pinned counts.
func (r Resolution) Free() []time.Time {
	if len(r.Pinned) == 0 {
		return r.Days
	}
	out := make([]time.Time, 0, len(r.Days))
	for _, d := range r.Days {
		if _, ok := r.Pinned[dates.FormatKey(d)]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// Contains reports whether the day key is part of the resolution.
func (r Resolution) Contains(key string) bool {
	for _, d := range r.Days {
		if dates.FormatKey(d) == key {
			return true
		}
	}
	return false
}

// Resolver resolves records against a calendar.
type Resolver struct {
	Calendar dates.Calendar
}

// New returns a resolver using the given calendar.
func New(cal dates.Calendar) *Resolver {
	return &Resolver{Calendar: cal}
}

// Intersects reports whether the record can contribute to the target month.
// Records with explicit dates always pass; their tokens are filtered by
// Resolve. Range records must overlap the month and have End >= Start.
func (r *Resolver) Intersects(rec model.ExamRecord, year int, month time.Month) bool {
	if strings.TrimSpace(rec.ExplicitDates) != "" {
		return true
	}
	if rec.Start.IsZero() || rec.End.IsZero() || rec.End.Before(rec.Start) {
		return false
	}
	first, last := dates.MonthBounds(year, month)
	return !rec.Start.After(last) && !rec.End.Before(first)
}

// Resolve computes the examined days of rec inside the target month.
func (r *Resolver) Resolve(rec model.ExamRecord, year int, month time.Month) Resolution {
	if strings.TrimSpace(rec.ExplicitDates) != "" {
		return r.resolveExplicit(rec.ExplicitDates, year, month)
	}
	return r.resolveRange(rec.Start, rec.End, year, month)
}

func (r *Resolver) resolveRange(start, end time.Time, year int, month time.Month) Resolution {
	res := Resolution{}
	if start.IsZero() || end.IsZero() {
		return res
	}
	first, last := dates.MonthBounds(year, month)
	from, to := dates.Day(start), dates.Day(end)
	if from.Before(first) {
		from = first
	}
	if to.After(last) {
		to = last
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if r.Calendar.IsRestDay(d) {
			continue
		}
		res.Days = append(res.Days, d)
	}
	return res
}

var tokenPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\s*(?:\(\s*(\d+)\s*(?:[,;]\s*(\d+)\s*)?\))?$`)

func (r *Resolver) resolveExplicit(raw string, year int, month time.Month) Resolution {
	res := Resolution{Explicit: true}
	seen := make(map[string]bool)
	for _, tok := range SplitTokens(raw) {
		day, pin, pinned, ok := parseToken(tok, year)
		if !ok || day.Month() != month || day.Year() != year || r.Calendar.IsRestDay(day) {
			continue
		}
		key := dates.FormatKey(day)
		if pinned {
			if res.Pinned == nil {
				res.Pinned = make(map[string]Pin)
			}
			p := res.Pinned[key]
			p.Morning += pin.Morning
			p.Afternoon += pin.Afternoon
			res.Pinned[key] = p
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		res.Days = append(res.Days, day)
	}
	sort.Slice(res.Days, func(i, j int) bool { return res.Days[i].Before(res.Days[j]) })
	return res
}

func parseToken(tok string, year int) (time.Time, Pin, bool, bool) {
	m := tokenPattern.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return time.Time{}, Pin{}, false, false
	}
	mon, _ := strconv.Atoi(m[1])
	d, _ := strconv.Atoi(m[2])
	y := year
	if m[3] != "" {
		y, _ = strconv.Atoi(m[3])
	}
	day, ok := dates.Date(y, time.Month(mon), d)
	if !ok {
		return time.Time{}, Pin{}, false, false
	}
	if m[4] == "" {
		return day, Pin{}, false, true
	}
	var pin Pin
	pin.Morning, _ = strconv.Atoi(m[4])
	if m[5] != "" {
		pin.Afternoon, _ = strconv.Atoi(m[5])
	}
	return day, pin, true, true
}

// SplitTokens splits an explicit-dates cell on commas, semicolons and line
// breaks that are not inside parentheses. Empty tokens are dropped.
func SplitTokens(raw string) []string {
	var (
		out   []string
		depth int
		b     strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, c := range raw {
		switch {
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (c == ',' || c == ';' || c == '\n'):
			flush()
			continue
		}
		b.WriteRune(c)
	}
	flush()
	return out
}
