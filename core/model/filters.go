package model

import (
	"fmt"

	"github.com/kilianp07/examgrid/internal/textnorm"
)

// Shift selects which half-day population a query reports on.
type Shift int

const (
	ShiftTotal Shift = iota
	ShiftMorning
	ShiftAfternoon
)

// ParseShift accepts the English wire names and the Vietnamese labels used by
// the front-end ("tong", "sang", "chieu"). Empty input means ShiftTotal.
func ParseShift(raw string) (Shift, error) {
	switch textnorm.Fold(raw) {
	case "", "total", "all", "tong", "ca ngay":
		return ShiftTotal, nil
	case "morning", "sang":
		return ShiftMorning, nil
	case "afternoon", "chieu":
		return ShiftAfternoon, nil
	default:
		return ShiftTotal, fmt.Errorf("unknown shift filter %q", raw)
	}
}

func (s Shift) String() string {
	switch s {
	case ShiftMorning:
		return "morning"
	case ShiftAfternoon:
		return "afternoon"
	default:
		return "total"
	}
}

// Pick returns the quantity selected by the shift out of a morning/afternoon pair.
func (s Shift) Pick(morning, afternoon int) int {
	switch s {
	case ShiftMorning:
		return morning
	case ShiftAfternoon:
		return afternoon
	default:
		return morning + afternoon
	}
}

func (s Shift) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shift) UnmarshalText(b []byte) error {
	v, err := ParseShift(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Window restricts the timeline to companies active around "now".
type Window int

const (
	WindowAll Window = iota
	WindowToday
	WindowWeek
	WindowMonth
)

// ParseWindow resolves a time-window name. Empty input means WindowAll.
func ParseWindow(raw string) (Window, error) {
	switch textnorm.Fold(raw) {
	case "", "all", "tat ca":
		return WindowAll, nil
	case "today", "hom nay":
		return WindowToday, nil
	case "week", "tuan nay":
		return WindowWeek, nil
	case "month", "thang nay":
		return WindowMonth, nil
	default:
		return WindowAll, fmt.Errorf("unknown time window %q", raw)
	}
}

func (w Window) String() string {
	switch w {
	case WindowToday:
		return "today"
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	default:
		return "all"
	}
}

func (w Window) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Window) UnmarshalText(b []byte) error {
	v, err := ParseWindow(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}
