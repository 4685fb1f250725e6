// Package allocator distributes a record's headcount over its resolved days.
//
// Two policies apply. For a completed engagement the morning and afternoon
// fields are totals for the whole engagement; each resolved day receives
// ceil(morning/days) + ceil(afternoon/days). For an engagement still in progress the fields are daily
// rates and the period total is the full headcount pro-rated by the share of
// planned days falling in the target month. Rounding is always upward.
package allocator

import (
	"math"

	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/core/resolver"
)

// DefaultMorningShare is the morning share used when a completed record only
// carries a total headcount.
const DefaultMorningShare = 0.6

// Allocation is the outcome of allocating one record.
type Allocation struct {
	// PerDay maps day keys to the headcount under the active shift filter.
	PerDay map[string]int
	// PeriodTotal is the headcount attributed to the target month under the
	// active shift filter.
	PeriodTotal int
	// Morning and Afternoon are the period totals per shift.
	Morning   int
	Afternoon int
	// DailyMorning and DailyAfternoon are the per-day values applied to
	// every non-pinned day.
	DailyMorning   int
	DailyAfternoon int
	// PlannedDays is the planned day count after back-fill.
	PlannedDays int
	// Backfilled is set when a completed record's shift split was derived
	// from its total headcount.
	Backfilled bool
}

// Allocator applies the allocation policies.
type Allocator struct {
	MorningShare float64
}

// New returns an allocator. A share outside (0,1) falls back to the default.
func New(morningShare float64) *Allocator {
	if morningShare <= 0 || morningShare >= 1 {
		morningShare = DefaultMorningShare
	}
	return &Allocator{MorningShare: morningShare}
}

// Allocate distributes rec over res under the given shift filter.
func (a *Allocator) Allocate(rec model.ExamRecord, res resolver.Resolution, shift model.Shift) Allocation {
	out := Allocation{
		PerDay:      make(map[string]int, res.Len()),
		PlannedDays: rec.TotalDaysPlanned,
	}
	for key, p := range res.Pinned {
		v := shift.Pick(p.Morning, p.Afternoon)
		out.PerDay[key] = v
		out.PeriodTotal += v
		out.Morning += p.Morning
		out.Afternoon += p.Afternoon
	}
	free := res.Free()
	n := len(free)
	if n == 0 {
		return out
	}
	var morning, afternoon, total int
	if rec.Status.Completed() {
		morning, afternoon, total = a.completed(rec, n, shift, &out)
	} else {
		morning, afternoon, total = a.inProgress(rec, n, shift, &out)
	}
	// Completed cells round each shift separately; in-progress cells round the total.
	perDay := ceilDiv(total, n)
	if rec.Status.Completed() {
		perDay = shift.Pick(out.DailyMorning, out.DailyAfternoon)
	}
	for _, d := range free {
		out.PerDay[dates.FormatKey(d)] = perDay
	}
	out.Morning += morning
	out.Afternoon += afternoon
	out.PeriodTotal += total
	return out
}

func (a *Allocator) completed(rec model.ExamRecord, n int, shift model.Shift, out *Allocation) (int, int, int) {
	morning, afternoon := rec.Morning, rec.Afternoon
	if rec.TotalDaysPlanned == 0 && morning == 0 && afternoon == 0 && rec.Headcount > 0 {
		out.Backfilled = true
		out.PlannedDays = n
		div := float64(max(n, 1))
		dm := ceilFloat(float64(rec.Headcount) * a.share() / div)
		da := ceilFloat(float64(rec.Headcount) * (1 - a.share()) / div)
		morning, afternoon = dm*n, da*n
	}
	out.DailyMorning = ceilDiv(morning, n)
	out.DailyAfternoon = ceilDiv(afternoon, n)
	return morning, afternoon, shift.Pick(morning, afternoon)
}

func (a *Allocator) inProgress(rec model.ExamRecord, n int, shift model.Shift, out *Allocation) (int, int, int) {
	out.DailyMorning = rec.Morning
	out.DailyAfternoon = rec.Afternoon
	morning, afternoon := rec.Morning*n, rec.Afternoon*n
	switch shift {
	case model.ShiftMorning:
		return morning, afternoon, morning
	case model.ShiftAfternoon:
		return morning, afternoon, afternoon
	}
	total := rec.Headcount
	if rec.TotalDaysPlanned > 0 {
		prorated := (int64(rec.Headcount)*int64(n) + int64(rec.TotalDaysPlanned) - 1) / int64(rec.TotalDaysPlanned)
		total = int(min(prorated, int64(rec.Headcount)))
	}
	return morning, afternoon, total
}

func (a *Allocator) share() float64 {
	if a.MorningShare <= 0 || a.MorningShare >= 1 {
		return DefaultMorningShare
	}
	return a.MorningShare
}

func ceilDiv(x, n int) int {
	if n <= 0 || x <= 0 {
		return 0
	}
	return (x + n - 1) / n
}

// ceilFloat rounds up while absorbing binary noise such as 50*0.6 = 30.000000000000004.
func ceilFloat(x float64) int {
	if x <= 0 {
		return 0
	}
	return int(math.Ceil(x - 1e-9))
}
