package model

import (
	"fmt"

	"github.com/kilianp07/examgrid/internal/textnorm"
)

// Status is the progress of a company's exam engagement. The zero value is
// StatusInProgress so that it sorts first in timeline ordering.
type Status int

const (
	StatusInProgress Status = iota
	StatusCompleted
)

// Spellings seen in the source sheets, already folded.
var statusSpellings = map[string]Status{
	"da kham xong":   StatusCompleted,
	"kham xong":      StatusCompleted,
	"hoan thanh":     StatusCompleted,
	"da hoan thanh":  StatusCompleted,
	"xong":           StatusCompleted,
	"completed":      StatusCompleted,
	"done":           StatusCompleted,
	"dang kham":      StatusInProgress,
	"chua kham":      StatusInProgress,
	"chua kham xong": StatusInProgress,
	"sap kham":       StatusInProgress,
	"in-progress":    StatusInProgress,
	"in progress":    StatusInProgress,
	"pending":        StatusInProgress,
}

// ParseStatus resolves a free-text status cell. Unknown or empty spellings
// fall back to StatusInProgress with ok=false.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusSpellings[textnorm.Fold(raw)]
	if !ok {
		return StatusInProgress, false
	}
	return s, true
}

// String returns the canonical wire spelling.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	default:
		return "in-progress"
	}
}

// Completed reports whether the engagement has finished.
func (s Status) Completed() bool { return s == StatusCompleted }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, ok := ParseStatus(string(b))
	if !ok {
		return fmt.Errorf("unknown status %q", string(b))
	}
	*s = v
	return nil
}
