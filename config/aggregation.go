package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/kilianp07/examgrid/core/allocator"
	"github.com/kilianp07/examgrid/core/dates"
)

// AggregationConfig tunes the month aggregation.
type AggregationConfig struct {
	// Timezone is the IANA zone used to decide "today" for time windows.
	Timezone string `json:"timezone"`
	// RestDay is the weekday on which no exams take place.
	RestDay string `json:"rest_day"`
	// BudgetSeconds bounds a single request; exceeding it fails the request.
	BudgetSeconds int `json:"budget_seconds"`
	// Workers > 1 prepares records concurrently.
	Workers      int     `json:"workers"`
	MorningShare float64 `json:"morning_share"`
}

// SetDefaults applies sane defaults.
func (c *AggregationConfig) SetDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Asia/Ho_Chi_Minh"
	}
	if c.RestDay == "" {
		c.RestDay = "sunday"
	}
	if c.BudgetSeconds <= 0 {
		c.BudgetSeconds = 25
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.MorningShare == 0 {
		c.MorningShare = allocator.DefaultMorningShare
	}
}

// Validate checks field ranges.
func (c AggregationConfig) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if _, ok := dates.ParseWeekday(c.RestDay); !ok {
		return fmt.Errorf("unknown rest_day %q", c.RestDay)
	}
	if c.MorningShare <= 0 || c.MorningShare >= 1 {
		return fmt.Errorf("morning_share must be between 0 and 1, got %v", c.MorningShare)
	}
	return nil
}

// Location returns the configured time zone, UTC when it cannot be loaded.
func (c AggregationConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Calendar returns the working calendar for the configured rest day.
func (c AggregationConfig) Calendar() dates.Calendar {
	wd, ok := dates.ParseWeekday(c.RestDay)
	if !ok {
		return dates.Default
	}
	return dates.Calendar{Rest: wd}
}

// Budget returns the per-request time limit.
func (c AggregationConfig) Budget() time.Duration {
	return time.Duration(c.BudgetSeconds) * time.Second
}
