// Package prewarm computes and caches the default report views of a year so
// the first interactive request of each month is a cache hit.
package prewarm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/examgrid/core/model"
	coremon "github.com/kilianp07/examgrid/core/monitoring"
	"github.com/kilianp07/examgrid/core/report"
)

// Warmer computes reports; *report.Service implements it.
type Warmer interface {
	Timeline(ctx context.Context, req report.Request) (*model.Result, error)
	Clinical(ctx context.Context, req report.Request) (*model.ClinicalResult, error)
}

// MonthResult is the outcome of prewarming one month.
type MonthResult struct {
	Month     int
	Companies int
	Err       error
}

// Run warms the unfiltered timeline and the clinical rollup of every month in
// months, at most parallel at a time (parallel <= 0 means one). A failing
// month does not stop the others; their errors are joined in the returned
// error. Results are ordered like months.
func Run(ctx context.Context, svc Warmer, year int, months []int, parallel int) ([]MonthResult, error) {
	if len(months) == 0 {
		months = make([]int, 12)
		for i := range months {
			months[i] = i + 1
		}
	}
	if parallel <= 0 {
		parallel = 1
	}
	results := make([]MonthResult, len(months))
	var mu sync.Mutex
	var errs []error

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, m := range months {
		i, m := i, m
		g.Go(func() error {
			res := warm(ctx, svc, year, m)
			results[i] = res
			if res.Err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%d-%02d: %w", year, m, res.Err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, errors.Join(errs...)
}

// warm recovers a panicking month into its result so the other months finish.
func warm(ctx context.Context, svc Warmer, year, month int) (out MonthResult) {
	out.Month = month
	defer func() {
		if err := coremon.CapturePanic(recover(), coremon.StageTags("prewarm", year, month)); err != nil {
			out.Err = err
		}
	}()
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	req := report.Request{Year: year, Month: month}
	res, err := svc.Timeline(ctx, req)
	if err != nil {
		out.Err = err
		return out
	}
	out.Companies = res.Summary.TotalCompanies
	if _, err := svc.Clinical(ctx, req); err != nil {
		out.Err = fmt.Errorf("clinical: %w", err)
	}
	return out
}
