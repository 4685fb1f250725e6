package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/examgrid/app"
	"github.com/kilianp07/examgrid/config"
	"github.com/kilianp07/examgrid/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "examgrid",
	Short:        "Medical exam schedule aggregation",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// openService loads the configuration and builds the service graph. The
// returned close function logs its own failure.
func openService() (*app.Service, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc, func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}, nil
}
