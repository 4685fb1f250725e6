package report

import (
	"time"

	"github.com/kilianp07/examgrid/core/cache"
	"github.com/kilianp07/examgrid/core/dates"
	"github.com/kilianp07/examgrid/core/ingest"
	"github.com/kilianp07/examgrid/core/logger"
	coremqtt "github.com/kilianp07/examgrid/core/mqtt"
	"github.com/kilianp07/examgrid/core/runlog"
	"github.com/kilianp07/examgrid/internal/eventbus"
)

// Option configures a Service.
type Option func(*Service)

// WithColumns overrides the header aliases used to decode the sheet.
func WithColumns(m ingest.ColumnMap) Option {
	return func(s *Service) {
		if m != nil {
			s.columns = m
		}
	}
}

// WithCalendar sets the weekly rest day.
func WithCalendar(c dates.Calendar) Option {
	return func(s *Service) { s.cal = c }
}

// WithMorningShare sets the morning share used to back-fill completed records.
func WithMorningShare(share float64) Option {
	return func(s *Service) { s.morningShare = share }
}

// WithWorkers prepares records on n goroutines.
func WithWorkers(n int) Option {
	return func(s *Service) { s.workers = n }
}

// WithCache stores successful results for ttl.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *Service) {
		if store != nil {
			s.cache = store
		}
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithBudget bounds the computation of one uncached request. Zero disables it.
func WithBudget(d time.Duration) Option {
	return func(s *Service) { s.budget = d }
}

// WithEventBus publishes run events on bus.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithRunLog appends one record per request to store.
func WithRunLog(store runlog.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.runs = store
		}
	}
}

// WithPublisher pushes the summary of every computed timeline.
func WithPublisher(p coremqtt.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock injects the source of "now" and the zone it is read in.
func WithClock(now func() time.Time, loc *time.Location) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
		if loc != nil {
			s.loc = loc
		}
	}
}
