// Package aggregator folds exam records into per-company day maps, company
// details and daily grand totals for one target month.
package aggregator

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/examgrid/core/allocator"
	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/logger"
	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/core/resolver"
)

// SkipReason explains why a record did not contribute.
type SkipReason string

const (
	SkipMissingFields SkipReason = "missing-fields"
	SkipOutsideMonth  SkipReason = "outside-month"
	SkipNoDays        SkipReason = "no-resolved-days"
)

// Params selects the target month and shift filter.
type Params struct {
	Year  int
	Month time.Month
	Shift model.Shift
}

// Contribution is the pure per-record result of resolving and allocating.
type Contribution struct {
	Record     model.ExamRecord
	Resolution resolver.Resolution
	Allocation allocator.Allocation
	Skip       SkipReason
}

// Aggregate is the folded result of one pass. It is not modified after Run
// returns; Retain builds a new value.
type Aggregate struct {
	Params Params

	Details map[string]model.CompanyDetail
	// DayMaps maps company -> day key -> headcount.
	DayMaps map[string]map[string]int
	// GrandTotals maps day key -> headcount summed across companies.
	GrandTotals   map[string]int
	CompanyTotals map[string]int
	Employees     []string
	// Contributions lists the processed records in fold order.
	Contributions []Contribution

	TotalRecords int
	Processed    int
	Skipped      map[SkipReason]int
	// Incomplete is set when the pass was interrupted before every record
	// was folded.
	Incomplete bool
}

// Companies returns the company names in ascending order.
func (a *Aggregate) Companies() []string {
	names := make([]string, 0, len(a.Details))
	for n := range a.Details {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SkippedTotal returns the number of records that did not contribute.
func (a *Aggregate) SkippedTotal() int {
	n := 0
	for _, v := range a.Skipped {
		n += v
	}
	return n
}

// Aggregator runs aggregation passes. It holds no per-pass state and is safe
// for concurrent use.
type Aggregator struct {
	resolver  *resolver.Resolver
	allocator *allocator.Allocator
	logger    logger.Logger
	workers   int
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithWorkers resolves and allocates records on up to n goroutines before
// the sequential fold. n <= 1 keeps everything on the calling goroutine.
func WithWorkers(n int) Option {
	return func(a *Aggregator) { a.workers = n }
}

// WithLogger sets the logger used for skipped records.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New returns an aggregator.
func New(res *resolver.Resolver, alloc *allocator.Allocator, opts ...Option) *Aggregator {
	a := &Aggregator{resolver: res, allocator: alloc, logger: logger.Nop{}, workers: 1}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Prepare resolves and allocates a single record.
func (a *Aggregator) Prepare(rec model.ExamRecord, p Params) Contribution {
	c := Contribution{Record: rec}
	switch {
	case !rec.HasRequired():
		c.Skip = SkipMissingFields
	case !a.resolver.Intersects(rec, p.Year, p.Month):
		c.Skip = SkipOutsideMonth
	default:
		c.Resolution = a.resolver.Resolve(rec, p.Year, p.Month)
		if c.Resolution.Empty() {
			c.Skip = SkipNoDays
			break
		}
		c.Allocation = a.allocator.Allocate(rec, c.Resolution, p.Shift)
	}
	return c
}

// Run aggregates recs for the target month. If ctx is done before every
// record is folded, Run returns the partial aggregate marked Incomplete
// together with the context error.
func (a *Aggregator) Run(ctx context.Context, recs []model.ExamRecord, p Params) (*Aggregate, error) {
	contribs, err := a.prepareAll(ctx, recs, p)
	acc := newAccumulator(p, len(recs))
	if err != nil {
		acc.agg.Incomplete = true
		return acc.result(), err
	}
	for i, c := range contribs {
		if c.Skip != "" {
			acc.skip(c)
			a.logger.Debugw("record skipped", map[string]any{
				"row":     c.Record.Row,
				"company": c.Record.Company,
				"reason":  string(c.Skip),
			})
		} else {
			acc.fold(c)
		}
		if err := ctx.Err(); err != nil && i < len(contribs)-1 {
			acc.agg.Incomplete = true
			return acc.result(), err
		}
	}
	return acc.result(), nil
}

func (a *Aggregator) prepareAll(ctx context.Context, recs []model.ExamRecord, p Params) ([]Contribution, error) {
	out := make([]Contribution, len(recs))
	if a.workers <= 1 || len(recs) < 2 {
		for i, r := range recs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = a.Prepare(r, p)
		}
		return out, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range recs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = a.Prepare(recs[i], p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Retain returns a copy of the aggregate restricted to the companies in
// keep. Grand totals, company totals and employees are recomputed.
func (a *Aggregate) Retain(keep map[string]bool) *Aggregate {
	acc := newAccumulator(a.Params, a.TotalRecords)
	for _, c := range a.Contributions {
		if keep[strings.TrimSpace(c.Record.Company)] {
			acc.fold(c)
		}
	}
	out := acc.result()
	out.Processed = a.Processed
	out.Incomplete = a.Incomplete
	for k, v := range a.Skipped {
		out.Skipped[k] = v
	}
	return out
}

type accumulator struct {
	agg       *Aggregate
	employees map[string]bool
}

func newAccumulator(p Params, total int) *accumulator {
	return &accumulator{
		agg: &Aggregate{
			Params:        p,
			Details:       make(map[string]model.CompanyDetail),
			DayMaps:       make(map[string]map[string]int),
			GrandTotals:   make(map[string]int),
			CompanyTotals: make(map[string]int),
			Skipped:       make(map[SkipReason]int),
			TotalRecords:  total,
		},
		employees: make(map[string]bool),
	}
}

func (acc *accumulator) skip(c Contribution) {
	acc.agg.Skipped[c.Skip]++
}

func (acc *accumulator) fold(c Contribution) {
	agg := acc.agg
	rec := c.Record
	company := strings.TrimSpace(rec.Company)
	d, ok := agg.Details[company]
	if !ok {
		d = model.CompanyDetail{Company: company}
	}
	if e := strings.TrimSpace(rec.Employee); e != "" {
		d.Employee = e
		acc.employees[e] = true
	}
	d.Morning += c.Allocation.Morning
	d.Afternoon += c.Allocation.Afternoon
	d.Headcount += rec.Headcount
	d.PlannedDays = max(d.PlannedDays, c.Allocation.PlannedDays)
	d.TotalDays = max(d.TotalDays, c.Resolution.Len())
	d.PeriodTotal += c.Allocation.PeriodTotal
	d.Status = rec.Status
	if !rec.Start.IsZero() {
		d.StartDate = dates.FormatDisplay(rec.Start)
	}
	if !rec.End.IsZero() {
		d.EndDate = dates.FormatDisplay(rec.End)
	}
	if s := strings.TrimSpace(rec.ExplicitDates); s != "" {
		d.ExplicitDates = s
	}
	if !rec.BloodDraw.IsZero() {
		d.BloodDrawDate = dates.FormatDisplay(rec.BloodDraw)
	}
	if strings.TrimSpace(rec.PriorityMark) != "" {
		d.Priority = rec.Priority()
	}
	if n := strings.TrimSpace(rec.Notes); n != "" {
		d.Notes = n
	}
	d.Records++
	d.Clinical.Add(rec.Clinical)
	agg.Details[company] = d

	days := agg.DayMaps[company]
	if days == nil {
		days = make(map[string]int, len(c.Allocation.PerDay))
		agg.DayMaps[company] = days
	}
	for k, v := range c.Allocation.PerDay {
		days[k] += v
		agg.GrandTotals[k] += v
	}
	agg.CompanyTotals[company] += c.Allocation.PeriodTotal
	agg.Contributions = append(agg.Contributions, c)
	agg.Processed++
}

func (acc *accumulator) result() *Aggregate {
	names := make([]string, 0, len(acc.employees))
	for e := range acc.employees {
		names = append(names, e)
	}
	sort.Strings(names)
	acc.agg.Employees = names
	return acc.agg
}
