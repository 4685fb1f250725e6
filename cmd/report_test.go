package cmd

import (
	"testing"

	"github.com/kilianp07/examgrid/core/model"
)

func TestReportFlagsRequest(t *testing.T) {
	f := reportFlags{year: 2025, month: 8, shift: "chiều", window: "week", company: " ACME ", format: "csv"}
	req, err := f.request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Shift != model.ShiftAfternoon || req.Window != model.WindowWeek || req.Company != "ACME" {
		t.Fatalf("unexpected request %+v", req)
	}

	for _, bad := range []reportFlags{
		{year: 2025, month: 13},
		{year: 2025, month: 8, shift: "night"},
		{year: 2025, month: 8, window: "decade"},
	} {
		if _, err := bad.request(); err == nil {
			t.Fatalf("expected error for %+v", bad)
		}
	}
}

func TestTimelineWriter(t *testing.T) {
	for _, f := range []string{"json", "csv", "html"} {
		if _, err := timelineWriter(f); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
	}
	if _, err := timelineWriter("pdf"); err == nil {
		t.Fatal("expected error for pdf")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "timeline": false, "clinical": false, "prewarm": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("command %s not registered", name)
		}
	}
}
