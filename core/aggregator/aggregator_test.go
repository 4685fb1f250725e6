package aggregator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/examgrid/core/allocator"
	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/core/resolver"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func newAggregator(opts ...Option) *Aggregator {
	return New(resolver.New(dates.Default), allocator.New(allocator.DefaultMorningShare), opts...)
}

var august = Params{Year: 2025, Month: time.August, Shift: model.ShiftTotal}

func sample() []model.ExamRecord {
	var clin model.Clinical
	clin[0] = 3
	clin[11] = 2
	return []model.ExamRecord{
		{Row: 2, Company: "ACME", Employee: "An", Start: day(8, 1), End: day(8, 10),
			Status: model.StatusInProgress, TotalDaysPlanned: 10, Headcount: 100, Clinical: clin},
		{Row: 3, Company: "Beta", Employee: "Binh", Start: day(8, 4), End: day(8, 8),
			Status: model.StatusCompleted, Headcount: 50, PriorityMark: "x"},
		{Row: 4, Company: "ACME", Employee: "Chi", Start: day(8, 11), End: day(8, 12),
			Status: model.StatusCompleted, TotalDaysPlanned: 2, Headcount: 20, Morning: 12, Afternoon: 8,
			ExplicitDates: "", BloodDraw: day(8, 20), Clinical: clin},
		{Row: 5, Company: "Gamma", Start: day(7, 1), End: day(7, 31), Headcount: 10},
		{Row: 6, Company: "Delta", Headcount: 10},
		{Row: 7, Company: "Sunday Co", Start: day(8, 3), End: day(8, 3), Headcount: 4},
	}
}

func TestRunFoldsRecords(t *testing.T) {
	agg, err := newAggregator().Run(context.Background(), sample(), august)
	require.NoError(t, err)
	assert.False(t, agg.Incomplete)
	assert.Equal(t, 6, agg.TotalRecords)
	assert.Equal(t, 3, agg.Processed)
	assert.Equal(t, map[SkipReason]int{SkipOutsideMonth: 1, SkipMissingFields: 1, SkipNoDays: 1}, agg.Skipped)
	assert.Equal(t, 3, agg.SkippedTotal())

	acme := agg.Details["ACME"]
	assert.Equal(t, 2, acme.Records)
	// Aug 3 and Aug 10 are Sundays: 8 resolved days, ceil(100*8/10) = 80.
	assert.Equal(t, 80+20, acme.PeriodTotal)
	assert.Equal(t, 120, acme.Headcount)
	assert.Equal(t, 10, acme.PlannedDays)
	assert.Equal(t, 8, acme.TotalDays)
	assert.Equal(t, model.StatusCompleted, acme.Status)
	assert.Equal(t, "Chi", acme.Employee)
	assert.Equal(t, "08/11/2025", acme.StartDate)
	assert.Equal(t, "08/20/2025", acme.BloodDrawDate)
	assert.Equal(t, 6, acme.Clinical[0])
	assert.Equal(t, 4, acme.Clinical[11])

	assert.Equal(t, 10, agg.DayMaps["ACME"]["2025-08-01"])
	assert.Equal(t, 10, agg.DayMaps["ACME"]["2025-08-11"])
	assert.Equal(t, 100, agg.CompanyTotals["ACME"])

	beta := agg.Details["Beta"]
	assert.True(t, beta.Priority)
	assert.Equal(t, 5, beta.PlannedDays)
	assert.Equal(t, 30, beta.Morning)
	assert.Equal(t, 20, beta.Afternoon)

	assert.Equal(t, 20, agg.GrandTotals["2025-08-04"])
	assert.Equal(t, []string{"ACME", "Beta"}, agg.Companies())
	assert.Equal(t, []string{"An", "Binh", "Chi"}, agg.Employees)
}

func TestTotalDaysNeverDecreases(t *testing.T) {
	recs := []model.ExamRecord{
		{Company: "ACME", Start: day(8, 4), End: day(8, 9), Headcount: 6, TotalDaysPlanned: 6},
		{Company: "ACME", Start: day(8, 11), End: day(8, 11), Headcount: 1, TotalDaysPlanned: 1},
	}
	agg, err := newAggregator().Run(context.Background(), recs, august)
	require.NoError(t, err)
	assert.Equal(t, 6, agg.Details["ACME"].TotalDays)
	assert.Equal(t, 6, agg.Details["ACME"].PlannedDays)
}

func TestRunIsIdempotent(t *testing.T) {
	a := newAggregator()
	first, err := a.Run(context.Background(), sample(), august)
	require.NoError(t, err)
	second, err := a.Run(context.Background(), sample(), august)
	require.NoError(t, err)

	for _, pair := range [][2]any{
		{first.Details, second.Details},
		{first.DayMaps, second.DayMaps},
		{first.GrandTotals, second.GrandTotals},
	} {
		b1, err := json.Marshal(pair[0])
		require.NoError(t, err)
		b2, err := json.Marshal(pair[1])
		require.NoError(t, err)
		assert.Equal(t, string(b1), string(b2))
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	recs := sample()
	for i := 0; i < 50; i++ {
		recs = append(recs, model.ExamRecord{
			Company: "Bulk", Start: day(8, 1+i%20), End: day(8, 2+i%20),
			Headcount: 5 + i, TotalDaysPlanned: 2,
		})
	}
	seq, err := newAggregator().Run(context.Background(), recs, august)
	require.NoError(t, err)
	par, err := newAggregator(WithWorkers(4)).Run(context.Background(), recs, august)
	require.NoError(t, err)
	assert.Equal(t, seq.Details, par.Details)
	assert.Equal(t, seq.DayMaps, par.DayMaps)
	assert.Equal(t, seq.Skipped, par.Skipped)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agg, err := newAggregator().Run(ctx, sample(), august)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, agg)
	assert.True(t, agg.Incomplete)
	assert.Empty(t, agg.Details)
	assert.NotNil(t, agg.Employees)
}

func TestRetain(t *testing.T) {
	agg, err := newAggregator().Run(context.Background(), sample(), august)
	require.NoError(t, err)
	kept := agg.Retain(map[string]bool{"Beta": true})

	assert.Equal(t, []string{"Beta"}, kept.Companies())
	assert.Equal(t, 10, kept.GrandTotals["2025-08-04"])
	assert.Zero(t, kept.GrandTotals["2025-08-01"])
	assert.Equal(t, []string{"Binh"}, kept.Employees)
	assert.Equal(t, agg.Processed, kept.Processed)
	assert.Equal(t, agg.TotalRecords, kept.TotalRecords)
	// the source aggregate is untouched
	assert.Equal(t, 20, agg.GrandTotals["2025-08-04"])
}
