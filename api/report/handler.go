// Package report exposes the timeline and clinical reports over HTTP.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/examgrid/core/model"
	corereport "github.com/kilianp07/examgrid/core/report"
)

// Reporter answers report requests. *corereport.Service implements it.
type Reporter interface {
	Timeline(ctx context.Context, req corereport.Request) (*model.Result, error)
	Clinical(ctx context.Context, req corereport.Request) (*model.ClinicalResult, error)
}

var _ Reporter = (*corereport.Service)(nil)

// NewTimelineHandler serves GET /api/timeline. Query parameters: year, month,
// shift, window, company, employee, priority. Year and month default to the
// month containing now().
func NewTimelineHandler(svc Reporter, now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req, err := ParseRequest(r.URL.Query(), now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.FailedResult(err))
			return
		}
		res, err := svc.Timeline(r.Context(), req)
		writeJSON(w, statusFor(err), res)
	})
}

// NewClinicalHandler serves GET /api/clinical. Only year, month and priority
// are honoured.
func NewClinicalHandler(svc Reporter, now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req, err := ParseRequest(r.URL.Query(), now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.FailedClinical(err))
			return
		}
		res, err := svc.Clinical(r.Context(), req)
		writeJSON(w, statusFor(err), res)
	})
}

// ParseRequest reads report parameters from q. Missing year or month fall
// back to the month containing now.
func ParseRequest(q url.Values, now time.Time) (corereport.Request, error) {
	req := corereport.DefaultRequest(now)
	var err error
	if s := q.Get("year"); s != "" {
		if req.Year, err = strconv.Atoi(s); err != nil {
			return req, fmt.Errorf("invalid year %q", s)
		}
	}
	if s := q.Get("month"); s != "" {
		if req.Month, err = strconv.Atoi(s); err != nil {
			return req, fmt.Errorf("invalid month %q", s)
		}
	}
	if req.Shift, err = model.ParseShift(q.Get("shift")); err != nil {
		return req, err
	}
	if req.Window, err = model.ParseWindow(q.Get("window")); err != nil {
		return req, err
	}
	req.Company = strings.TrimSpace(q.Get("company"))
	req.Employee = strings.TrimSpace(q.Get("employee"))
	if s := q.Get("priority"); s != "" {
		if req.Priority, err = strconv.ParseBool(s); err != nil {
			return req, fmt.Errorf("invalid priority %q", s)
		}
	}
	return req, req.Validate()
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, corereport.ErrBudgetExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
