package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/examgrid/jobs/prewarm"
)

var (
	prewarmYear     int
	prewarmMonths   []int
	prewarmParallel int
)

var prewarmCmd = &cobra.Command{
	Use:   "prewarm",
	Short: "Compute and cache the default views of a year",
	RunE:  runPrewarm,
}

func init() {
	prewarmCmd.Flags().IntVar(&prewarmYear, "year", time.Now().Year(), "target year")
	prewarmCmd.Flags().IntSliceVar(&prewarmMonths, "months", nil, "months to warm (default: all)")
	prewarmCmd.Flags().IntVar(&prewarmParallel, "parallel", 1, "months computed concurrently")
	rootCmd.AddCommand(prewarmCmd)
}

func runPrewarm(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeSvc, err := openService()
	if err != nil {
		return err
	}
	defer closeSvc()
	results, err := prewarm.Run(ctx, svc.Report, prewarmYear, prewarmMonths, prewarmParallel)
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		if _, ferr := fmt.Fprintf(cmd.OutOrStdout(), "%d-%02d\t%d companies\t%s\n", prewarmYear, r.Month, r.Companies, status); ferr != nil {
			return ferr
		}
	}
	return err
}
