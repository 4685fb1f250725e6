package filter

import (
	"time"

	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
)

// WindowKeys returns the day keys covered by w relative to now. The calendar
// date of now is taken in now's own location. WindowAll yields nil.
func WindowKeys(w model.Window, now time.Time) map[string]bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var from, to time.Time
	switch w {
	case model.WindowToday:
		from, to = today, today
	case model.WindowWeek:
		from = today.AddDate(0, 0, -int(today.Weekday()))
		to = from.AddDate(0, 0, 6)
	case model.WindowMonth:
		from, to = dates.MonthBounds(today.Year(), today.Month())
	default:
		return nil
	}
	keys := make(map[string]bool)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		keys[dates.FormatKey(d)] = true
	}
	return keys
}

// Window returns the companies of dayMaps with a positive headcount on at
// least one day of the window. WindowAll keeps every company.
func Window(dayMaps map[string]map[string]int, w model.Window, now time.Time) map[string]bool {
	keep := make(map[string]bool, len(dayMaps))
	keys := WindowKeys(w, now)
	for company, days := range dayMaps {
		if keys == nil {
			keep[company] = true
			continue
		}
		for k, v := range days {
			if v > 0 && keys[k] {
				keep[company] = true
				break
			}
		}
	}
	return keep
}
