// Package report runs the request pipeline: cache lookup, sheet fetch,
// decoding, filtering, aggregation and result assembly. Every call returns a
// fully shaped result, even on failure.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/examgrid/core/aggregator"
	"github.com/kilianp07/examgrid/core/allocator"
	"github.com/kilianp07/examgrid/core/cache"
	"github.com/kilianp07/examgrid/core/clinical"
	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/events"
	"github.com/kilianp07/examgrid/core/filter"
	"github.com/kilianp07/examgrid/core/ingest"
	"github.com/kilianp07/examgrid/core/logger"
	"github.com/kilianp07/examgrid/core/metrics"
	"github.com/kilianp07/examgrid/core/model"
	coremon "github.com/kilianp07/examgrid/core/monitoring"
	coremqtt "github.com/kilianp07/examgrid/core/mqtt"
	"github.com/kilianp07/examgrid/core/resolver"
	"github.com/kilianp07/examgrid/core/runlog"
	"github.com/kilianp07/examgrid/core/source"
	"github.com/kilianp07/examgrid/core/timeline"
	"github.com/kilianp07/examgrid/internal/eventbus"
)

// ErrBudgetExceeded is returned when a computation outlives its budget.
var ErrBudgetExceeded = errors.New("aggregation exceeded its time budget")

// Report kinds recorded in events and the run log.
const (
	KindTimeline = "timeline"
	KindClinical = "clinical"
)

// Service answers timeline and clinical requests.
type Service struct {
	source       source.Source
	columns      ingest.ColumnMap
	cal          dates.Calendar
	morningShare float64
	workers      int
	agg          *aggregator.Aggregator

	cache     cache.Store
	ttl       time.Duration
	budget    time.Duration
	bus       eventbus.EventBus
	runs      runlog.Store
	publisher coremqtt.Publisher
	logger    logger.Logger
	now       func() time.Time
	loc       *time.Location
}

// New builds a service reading schedules from src.
func New(src source.Source, opts ...Option) *Service {
	s := &Service{
		source:       src,
		columns:      ingest.DefaultColumnMap(),
		cal:          dates.Default,
		morningShare: allocator.DefaultMorningShare,
		workers:      1,
		cache:        cache.Nop{},
		ttl:          cache.DefaultTTL,
		runs:         runlog.Nop{},
		logger:       logger.Nop{},
		now:          time.Now,
		loc:          time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.agg = aggregator.New(
		resolver.New(s.cal),
		allocator.New(s.morningShare),
		aggregator.WithWorkers(s.workers),
		aggregator.WithLogger(s.logger),
	)
	return s
}

// run tracks one request from start to its run log record.
type run struct {
	id      string
	kind    string
	req     Request
	start   time.Time
	hit     bool
	stage   string
	records int
	agg     *aggregator.Aggregate
}

func (s *Service) begin(kind string, req Request) *run {
	return &run{id: uuid.NewString(), kind: kind, req: req, start: s.now(), stage: "request"}
}

// Timeline returns the company-by-day grid for req. The result is never nil;
// the error is non-nil exactly when Success is false.
func (s *Service) Timeline(ctx context.Context, req Request) (*model.Result, error) {
	r := s.begin(KindTimeline, req)
	key := s.timelineKey(req)
	if err := req.Validate(); err != nil {
		return s.failTimeline(ctx, r, err)
	}
	var cached model.Result
	if s.lookup(ctx, key, &cached) {
		r.hit = true
		s.finish(ctx, r, cached.Summary, nil)
		return &cached, nil
	}

	cctx, cancel := s.withBudget(ctx)
	defer cancel()
	recs, agg, err := s.aggregate(cctx, r, filter.Criteria{
		Company:  req.Company,
		Employee: req.Employee,
		Priority: req.Priority,
	}, req.Shift)
	if err != nil {
		return s.failTimeline(ctx, r, err)
	}
	if req.Window != model.WindowAll {
		agg = agg.Retain(filter.Window(agg.DayMaps, req.Window, s.now().In(s.loc)))
		r.agg = agg
	}
	tl := timeline.Build(agg)
	summary := timeline.Summarize(agg, tl, req.Window)
	summary.TotalRecords = recs
	res := &model.Result{
		Success:        true,
		Timeline:       tl,
		CompanyDetails: agg.Details,
		Summary:        summary,
		Employees:      agg.Employees,
	}
	if res.Employees == nil {
		res.Employees = []string{}
	}

	s.store(ctx, key, res)
	if s.publisher != nil {
		if err := s.publisher.PublishSummary(ctx, summary); err != nil {
			s.logger.Warnf("publish summary %d-%02d: %v", req.Year, req.Month, err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(events.DailyTotalsEvent{RunID: r.id, Year: req.Year, Month: req.Month, Totals: agg.GrandTotals})
	}
	s.finish(ctx, r, summary, nil)
	return res, nil
}

// timelineKey extends CacheKey with today's date for windows relative to now.
func (s *Service) timelineKey(req Request) string {
	key := CacheKey(req)
	if req.Window != model.WindowAll {
		key += ":" + dates.FormatKey(s.now().In(s.loc))
	}
	return key
}

// Clinical returns the day-indexed clinical rollup for req. Only the month
// and the priority partition apply.
func (s *Service) Clinical(ctx context.Context, req Request) (*model.ClinicalResult, error) {
	r := s.begin(KindClinical, req)
	key := ClinicalKey(req)
	if err := req.Validate(); err != nil {
		return s.failClinical(ctx, r, err)
	}
	var cached model.ClinicalResult
	if s.lookup(ctx, key, &cached) {
		r.hit = true
		s.finish(ctx, r, cached.Summary, nil)
		return &cached, nil
	}

	cctx, cancel := s.withBudget(ctx)
	defer cancel()
	recs, agg, err := s.aggregate(cctx, r, filter.Criteria{Priority: req.Priority}, model.ShiftTotal)
	if err != nil {
		return s.failClinical(ctx, r, err)
	}
	res := clinical.Rollup(agg, s.cal)
	res.Summary.TotalRecords = recs
	s.store(ctx, key, res)
	s.finish(ctx, r, res.Summary, nil)
	return res, nil
}

// aggregate fetches, decodes and filters the sheet then folds it. It returns
// the number of decoded rows alongside the aggregate.
func (s *Service) aggregate(ctx context.Context, r *run, c filter.Criteria, shift model.Shift) (int, *aggregator.Aggregate, error) {
	r.stage = "fetch"
	tbl, err := s.source.Fetch(ctx)
	if err != nil {
		return 0, nil, s.budgetErr(ctx, fmt.Errorf("fetch: %w", err))
	}
	r.stage = "ingest"
	recs, err := ingest.Decode(tbl, s.columns)
	if err != nil {
		return 0, nil, err
	}
	r.records = len(recs)
	kept, st := filter.Records(recs, c)
	s.logger.Debugw("records filtered", map[string]any{
		"input":      st.Input,
		"kept":       st.Kept(),
		"incomplete": st.Incomplete,
		"company":    st.Company,
		"employee":   st.Employee,
		"priority":   st.Priority,
	})

	r.stage = "aggregate"
	agg, err := s.agg.Run(ctx, kept, aggregator.Params{
		Year:  r.req.Year,
		Month: time.Month(r.req.Month),
		Shift: shift,
	})
	if err != nil {
		return 0, nil, s.budgetErr(ctx, err)
	}
	r.agg = agg
	return len(recs), agg, nil
}

func (s *Service) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.budget <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.budget)
}

// budgetErr maps a deadline hit inside the budgeted context to ErrBudgetExceeded.
func (s *Service) budgetErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w (%s)", ErrBudgetExceeded, s.budget)
	}
	return err
}

func (s *Service) lookup(ctx context.Context, key string, out any) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warnf("cache get %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warnf("cache entry %s unreadable: %v", key, err)
		return false
	}
	s.logger.Debugw("cache hit", map[string]any{"key": key})
	return true
}

func (s *Service) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorf("encode %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warnf("cache set %s: %v", key, err)
	}
}

func (s *Service) failTimeline(ctx context.Context, r *run, err error) (*model.Result, error) {
	s.fail(ctx, r, err)
	return model.FailedResult(err), err
}

func (s *Service) failClinical(ctx context.Context, r *run, err error) (*model.ClinicalResult, error) {
	s.fail(ctx, r, err)
	return model.FailedClinical(err), err
}

func (s *Service) fail(ctx context.Context, r *run, err error) {
	s.logger.Errorf("%s %d-%02d failed at %s: %v", r.kind, r.req.Year, r.req.Month, r.stage, err)
	if !errors.Is(err, context.Canceled) {
		coremon.CaptureException(err, coremon.StageTags(r.stage, r.req.Year, r.req.Month).With("kind", r.kind))
	}
	s.finish(ctx, r, nil, err)
}

// finish publishes the run event and appends the run log record.
func (s *Service) finish(ctx context.Context, r *run, summary any, err error) {
	elapsed := s.now().Sub(r.start)
	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, ErrBudgetExceeded):
		outcome = metrics.OutcomeBudget
	case errors.Is(err, context.Canceled):
		outcome = metrics.OutcomeCanceled
	case err != nil:
		outcome = metrics.OutcomeFailure
	}
	ev := events.RunEvent{
		RunID:    r.id,
		Kind:     r.kind,
		Year:     r.req.Year,
		Month:    r.req.Month,
		Outcome:  outcome,
		CacheHit: r.hit,
		Duration: elapsed,
		Records:  r.records,
		Err:      err,
	}
	if r.agg != nil {
		ev.Processed = r.agg.Processed
		ev.Skipped = r.agg.SkippedTotal()
		ev.Companies = len(r.agg.Details)
	}
	if s.bus != nil {
		s.bus.Publish(ev)
	}

	rec := runlog.Record{
		ID:        r.id,
		Timestamp: r.start,
		Kind:      r.kind,
		Params: runlog.Params{
			Year:     r.req.Year,
			Month:    r.req.Month,
			Shift:    r.req.Shift.String(),
			Window:   r.req.Window.String(),
			Company:  r.req.Company,
			Employee: r.req.Employee,
			Priority: r.req.Priority,
		},
		CacheHit: r.hit,
		Duration: elapsed,
	}
	if summary != nil {
		if b, merr := json.Marshal(summary); merr == nil {
			rec.Summary = b
		}
	}
	if err != nil {
		rec.Error = err.Error()
	}
	// The request context may already be canceled; the record is still kept.
	if aerr := s.runs.Append(context.WithoutCancel(ctx), rec); aerr != nil {
		s.logger.Warnf("append run log: %v", aerr)
	}
}
