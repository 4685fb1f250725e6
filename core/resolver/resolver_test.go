package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveRangeExcludesRestDay(t *testing.T) {
	r := New(dates.Default)
	rec := model.ExamRecord{Start: day(2025, 8, 4), End: day(2025, 8, 13)}
	res := r.Resolve(rec, 2025, time.August)
	require.Equal(t, 9, res.Len())
	assert.False(t, res.Explicit)
	assert.False(t, res.Contains("2025-08-10"))
	assert.Equal(t, "2025-08-04", res.Keys()[0])
	assert.Equal(t, "2025-08-13", res.Keys()[8])
}

func TestResolveRangeTwoRestDays(t *testing.T) {
	r := New(dates.Default)
	rec := model.ExamRecord{Start: day(2025, 8, 1), End: day(2025, 8, 10)}
	res := r.Resolve(rec, 2025, time.August)
	require.Equal(t, 8, res.Len())
	assert.False(t, res.Contains("2025-08-03"))
	assert.False(t, res.Contains("2025-08-10"))
	assert.Equal(t, "2025-08-09", res.Keys()[7])
}

func TestResolveRangeClipsToMonth(t *testing.T) {
	r := New(dates.Default)
	rec := model.ExamRecord{Start: day(2025, 7, 28), End: day(2025, 9, 3)}
	res := r.Resolve(rec, 2025, time.August)
	// August 2025 has 31 days and five Sundays.
	require.Equal(t, 26, res.Len())
	assert.Equal(t, "2025-08-01", res.Keys()[0])
	assert.Equal(t, "2025-08-30", res.Keys()[res.Len()-1])
}

func TestIntersects(t *testing.T) {
	r := New(dates.Default)
	cases := []struct {
		name string
		rec  model.ExamRecord
		want bool
	}{
		{"inside", model.ExamRecord{Start: day(2025, 8, 4), End: day(2025, 8, 6)}, true},
		{"overlap start", model.ExamRecord{Start: day(2025, 7, 20), End: day(2025, 8, 1)}, true},
		{"before", model.ExamRecord{Start: day(2025, 7, 1), End: day(2025, 7, 31)}, false},
		{"after", model.ExamRecord{Start: day(2025, 9, 1), End: day(2025, 9, 5)}, false},
		{"inverted", model.ExamRecord{Start: day(2025, 8, 10), End: day(2025, 8, 1)}, false},
		{"explicit", model.ExamRecord{Start: day(2025, 1, 1), End: day(2025, 1, 2), ExplicitDates: "8/5"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := r.Intersects(c.rec, 2025, time.August); got != c.want {
				t.Fatalf("Intersects = %v, want %v", got, c.want)
			}
		})
	}
}

func TestResolveExplicit(t *testing.T) {
	r := New(dates.Default)
	rec := model.ExamRecord{ExplicitDates: "8/12, 8/5, junk, 9/1, 8/3, 8/5, 2/30, 8/20/2024"}
	res := r.Resolve(rec, 2025, time.August)
	assert.True(t, res.Explicit)
	assert.Equal(t, []string{"2025-08-05", "2025-08-12"}, res.Keys())
	assert.Empty(t, res.Pinned)
}

func TestResolveExplicitPinned(t *testing.T) {
	r := New(dates.Default)
	rec := model.ExamRecord{ExplicitDates: "8/18(10,20)"}
	res := r.Resolve(rec, 2025, time.August)
	require.Equal(t, []string{"2025-08-18"}, res.Keys())
	assert.Equal(t, Pin{Morning: 10, Afternoon: 20}, res.Pinned["2025-08-18"])
	assert.Empty(t, res.Free())
}

func TestResolveMixedPins(t *testing.T) {
	r := New(dates.Default)
	rec := model.ExamRecord{ExplicitDates: "8/19; 8/18 (5, 7)\n8/20"}
	res := r.Resolve(rec, 2025, time.August)
	assert.Equal(t, []string{"2025-08-18", "2025-08-19", "2025-08-20"}, res.Keys())
	assert.Len(t, res.Free(), 2)
	assert.Equal(t, Pin{Morning: 5, Afternoon: 7}, res.Pinned["2025-08-18"])
}

func TestSplitTokens(t *testing.T) {
	got := SplitTokens(" 8/18(10,20), 8/19 ,,8/20(3)")
	assert.Equal(t, []string{"8/18(10,20)", "8/19", "8/20(3)"}, got)
}

func TestNoRestDayEverResolved(t *testing.T) {
	r := New(dates.Default)
	for m := time.January; m <= time.December; m++ {
		first, last := dates.MonthBounds(2026, m)
		res := r.Resolve(model.ExamRecord{Start: first, End: last}, 2026, m)
		for _, d := range res.Days {
			if d.Weekday() == time.Sunday {
				t.Fatalf("%s resolved a Sunday", d)
			}
		}
	}
}
