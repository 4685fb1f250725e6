package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/examgrid/core/metrics"
	"github.com/kilianp07/examgrid/infra/logger"
)

// InfluxSink writes report runs and daily headcounts to an InfluxDB instance
// using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one exam_run point.
func (s *InfluxSink) RecordRun(r coremetrics.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, runPoint(r))
}

func runPoint(r coremetrics.RunResult) *write.Point {
	return write.NewPointWithMeasurement("exam_run").
		AddTag("kind", r.Kind).
		AddTag("outcome", r.Outcome).
		AddTag("cache_hit", boolLabel(r.CacheHit)).
		AddTag("period", periodTag(r.Year, r.Month)).
		AddField("run_id", r.RunID).
		AddField("duration_ms", r.Duration.Milliseconds()).
		AddField("records", r.Records).
		AddField("processed", r.Processed).
		AddField("skipped", r.Skipped).
		AddField("companies", r.Companies).
		SetTime(r.Time)
}

// RecordDailyHeadcount writes one exam_daily_headcount point per day,
// timestamped at the day itself so re-runs overwrite earlier values.
func (s *InfluxSink) RecordDailyHeadcount(runID string, days []coremetrics.DailyHeadcount) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, d := range days {
		if err := s.writeAPI.WritePoint(ctx, dayPoint(runID, d)); err != nil {
			return err
		}
	}
	return nil
}

func dayPoint(runID string, d coremetrics.DailyHeadcount) *write.Point {
	return write.NewPointWithMeasurement("exam_daily_headcount").
		AddTag("day", d.Day.Format("2006-01-02")).
		AddField("people", d.People).
		AddField("run_id", runID).
		SetTime(d.Day)
}

// Close flushes and closes the client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func periodTag(year, month int) string {
	m := strconv.Itoa(month)
	if month < 10 {
		m = "0" + m
	}
	return strconv.Itoa(year) + "-" + m
}
