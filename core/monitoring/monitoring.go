// Package monitoring forwards pipeline failures to an error tracker. The
// default monitor drops everything so library code can report unconditionally.
package monitoring

import (
	"fmt"
	"maps"
	"strconv"
	"sync/atomic"
	"time"
)

// Monitor receives failures tagged with the pipeline context they happened in.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

type holder struct{ m Monitor }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{m: NopMonitor{}}) }

// Init installs m as the process monitor. A nil m is ignored.
func Init(m Monitor) {
	if m != nil {
		current.Store(&holder{m: m})
	}
}

// Current returns the process monitor.
func Current() Monitor { return current.Load().m }

// Tags is the label set attached to a captured failure.
type Tags map[string]string

// StageTags labels a failure with the stage and report month it happened in.
func StageTags(stage string, year, month int) Tags {
	return Tags{
		"stage": stage,
		"year":  strconv.Itoa(year),
		"month": strconv.Itoa(month),
	}
}

// With returns a copy of t with key set to value.
func (t Tags) With(key, value string) Tags {
	out := make(Tags, len(t)+1)
	maps.Copy(out, t)
	out[key] = value
	return out
}

// CaptureException reports err to the process monitor. Nil errors are dropped.
func CaptureException(err error, tags Tags) {
	if err == nil {
		return
	}
	Current().CaptureException(err, tags)
}

// CapturePanic converts a value returned by recover into an error, reports it
// and returns it. It returns nil when v is nil.
func CapturePanic(v any, tags Tags) error {
	if v == nil {
		return nil
	}
	err, ok := v.(error)
	if ok {
		err = fmt.Errorf("panic: %w", err)
	} else {
		err = fmt.Errorf("panic: %v", v)
	}
	CaptureException(err, tags.With("panic", "true"))
	return err
}

// Flush waits up to d for buffered reports to be delivered.
func Flush(d time.Duration) { Current().Flush(d) }
