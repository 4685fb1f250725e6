// Package app wires the configuration into a running report service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apireport "github.com/kilianp07/examgrid/api/report"
	"github.com/kilianp07/examgrid/api/runs"
	"github.com/kilianp07/examgrid/config"
	"github.com/kilianp07/examgrid/core/cache"
	"github.com/kilianp07/examgrid/core/ingest"
	coremetrics "github.com/kilianp07/examgrid/core/metrics"
	coremon "github.com/kilianp07/examgrid/core/monitoring"
	"github.com/kilianp07/examgrid/core/report"
	"github.com/kilianp07/examgrid/core/runlog"
	"github.com/kilianp07/examgrid/core/source"
	"github.com/kilianp07/examgrid/infra/logger"
	"github.com/kilianp07/examgrid/infra/metrics"
	"github.com/kilianp07/examgrid/infra/monitoring"
	"github.com/kilianp07/examgrid/infra/mqtt"
	"github.com/kilianp07/examgrid/internal/eventbus"

	// Built-in cache backends and row sources register themselves.
	_ "github.com/kilianp07/examgrid/infra/cache"
	_ "github.com/kilianp07/examgrid/infra/source"
)

// Service owns the report service and the stores it writes to.
type Service struct {
	Report *report.Service
	Runs   runlog.Store

	cfg    *config.Config
	cache  cache.Store
	sink   coremetrics.MetricsSink
	bus    *eventbus.Bus
	mqtt   *mqtt.PahoClient
	log    logger.Logger
	now    func() time.Time
	cancel context.CancelFunc
}

// New builds the service graph from cfg. MQTT is connected only when a
// broker is configured.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	columns := ingest.DefaultColumnMap()
	if cfg.ColumnsFile != "" {
		if columns, err = ingest.LoadColumnMap(cfg.ColumnsFile); err != nil {
			return nil, fmt.Errorf("columns file: %w", err)
		}
	}
	store, err := cache.New(cfg.Cache.Backend)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	runs, err := runlog.New(cfg.Logging)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("run log: %w", err)
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		_ = runs.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New(eventbus.WithBuffer(64))
	loc := cfg.Aggregation.Location()
	now := func() time.Time { return time.Now().In(loc) }
	opts := []report.Option{
		report.WithColumns(columns),
		report.WithCalendar(cfg.Aggregation.Calendar()),
		report.WithMorningShare(cfg.Aggregation.MorningShare),
		report.WithWorkers(cfg.Aggregation.Workers),
		report.WithCache(store, cfg.Cache.TTL()),
		report.WithBudget(cfg.Aggregation.Budget()),
		report.WithEventBus(bus),
		report.WithRunLog(runs),
		report.WithLogger(logger.New("report")),
		report.WithClock(now, loc),
	}

	svc := &Service{cfg: cfg, cache: store, sink: sink, bus: bus, Runs: runs, log: logg, now: now}
	if cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
		opts = append(opts, report.WithPublisher(client))
	}
	svc.Report = report.New(src, opts...)
	return svc, nil
}

// Start forwards run events to the metrics sink and, when configured, serves
// Prometheus metrics. It returns immediately.
func (s *Service) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/timeline", apireport.NewTimelineHandler(s.Report, s.now))
	mux.Handle("/api/clinical", apireport.NewClinicalHandler(s.Report, s.now))
	mux.Handle("/api/runs", runs.NewHandler(s.Runs, s.cfg.Server.RunsToken))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Serve runs the HTTP API until ctx is canceled.
func (s *Service) Serve(ctx context.Context) error {
	s.Start(ctx)
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout(),
		WriteTimeout:      s.cfg.Server.WriteTimeout(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("serving API on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases every resource held by the service.
func (s *Service) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.bus.Close()
	coremon.Flush(2 * time.Second)
	return errors.Join(s.cache.Close(), s.Runs.Close())
}
