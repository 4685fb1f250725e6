package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/core/report"
	"github.com/kilianp07/examgrid/pkg/export"
)

type reportFlags struct {
	year     int
	month    int
	shift    string
	window   string
	company  string
	employee string
	priority bool
	format   string
}

var flags reportFlags

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Aggregate one month into the company-by-day grid",
	RunE:  runTimeline,
}

var clinicalCmd = &cobra.Command{
	Use:   "clinical",
	Short: "Compute the clinical rollup of one month",
	RunE:  runClinical,
}

func init() {
	now := time.Now()
	for _, c := range []*cobra.Command{timelineCmd, clinicalCmd} {
		c.Flags().IntVar(&flags.year, "year", now.Year(), "target year")
		c.Flags().IntVar(&flags.month, "month", int(now.Month()), "target month (1-12)")
		c.Flags().BoolVar(&flags.priority, "priority", false, "only priority companies")
		rootCmd.AddCommand(c)
	}
	timelineCmd.Flags().StringVar(&flags.shift, "shift", "total", "shift filter: total, morning or afternoon")
	timelineCmd.Flags().StringVar(&flags.window, "window", "all", "time window: all, today, week or month")
	timelineCmd.Flags().StringVar(&flags.company, "company", "", "company name search")
	timelineCmd.Flags().StringVar(&flags.employee, "employee", "", "employee name search")
	timelineCmd.Flags().StringVar(&flags.format, "format", "json", "output format: json, csv or html")
	clinicalCmd.Flags().StringVar(&flags.format, "format", "json", "output format: json or csv")
}

func (f reportFlags) request() (report.Request, error) {
	req := report.Request{
		Year:     f.year,
		Month:    f.month,
		Company:  strings.TrimSpace(f.company),
		Employee: strings.TrimSpace(f.employee),
		Priority: f.priority,
	}
	var err error
	if req.Shift, err = model.ParseShift(f.shift); err != nil {
		return req, err
	}
	if req.Window, err = model.ParseWindow(f.window); err != nil {
		return req, err
	}
	return req, req.Validate()
}

func runTimeline(cmd *cobra.Command, args []string) error {
	req, err := flags.request()
	if err != nil {
		return err
	}
	write, err := timelineWriter(flags.format)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()
	res, err := svc.Report.Timeline(ctx, req)
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), res)
}

func runClinical(cmd *cobra.Command, args []string) error {
	req, err := flags.request()
	if err != nil {
		return err
	}
	var write func(io.Writer, *model.ClinicalResult) error
	switch flags.format {
	case "json":
		write = func(w io.Writer, r *model.ClinicalResult) error { return export.WriteJSON(w, r) }
	case "csv":
		write = export.WriteClinicalCSV
	default:
		return fmt.Errorf("unsupported format %q", flags.format)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()
	res, err := svc.Report.Clinical(ctx, req)
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), res)
}

func timelineWriter(format string) (func(io.Writer, *model.Result) error, error) {
	switch format {
	case "json":
		return func(w io.Writer, r *model.Result) error { return export.WriteJSON(w, r) }, nil
	case "csv":
		return export.WriteCSV, nil
	case "html":
		return export.WriteChartHTML, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
