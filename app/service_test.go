package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/examgrid/config"
	"github.com/kilianp07/examgrid/core/cache"
	"github.com/kilianp07/examgrid/core/factory"
	"github.com/kilianp07/examgrid/core/model"
	"github.com/kilianp07/examgrid/core/runlog"
)

const sheet = "Tên công ty;Ngày bắt đầu;Ngày kết thúc;Tổng số người khám;Trạng thái\n" +
	"ACME;8/4/2025;8/13/2025;90;đang khám\n" +
	"Beta;8/4/2025;8/8/2025;50;đã khám xong\n"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lich.csv")
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0o600))
	cfg := &config.Config{
		Source: factory.ModuleConfig{Type: "csv", Conf: map[string]any{"path": path, "comma": ";"}},
		Cache:  cache.Config{Backend: factory.ModuleConfig{Type: "memory"}},
		Logging: runlog.Config{
			Backend: "jsonl",
			Path:    filepath.Join(dir, "runs.jsonl"),
		},
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	cfg.Server.RunsToken = "tok"
	return cfg
}

func TestServiceHandler(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/timeline?year=2025&month=8")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res model.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.Success, res.Error)
	require.Len(t, res.Timeline.Rows, 2)
	assert.Equal(t, 2, res.Summary.TotalRecords)
	assert.Equal(t, 140, res.Summary.TotalPeople)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/runs?kind=timeline", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	runsResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = runsResp.Body.Close() }()
	require.Equal(t, http.StatusOK, runsResp.StatusCode)
	var recs []runlog.Record
	require.NoError(t, json.NewDecoder(runsResp.Body).Decode(&recs))
	require.Len(t, recs, 1)
	assert.Equal(t, 8, recs[0].Params.Month)
	assert.False(t, recs[0].CacheHit)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = health.Body.Close()
	assert.Equal(t, http.StatusNoContent, health.StatusCode)
}

func TestNewRejectsUnknownSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.Type = "ftp"
	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, factory.ErrUnknownType)
}
