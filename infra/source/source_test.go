package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/examgrid/core/factory"
	coresource "github.com/kilianp07/examgrid/core/source"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"LỊCH KHÁM THÁNG 8"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Tên công ty", "Ngày bắt đầu", "Ngày kết thúc", "Tổng số người khám"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"ACME", 45870, 45879, 100}))
	path := filepath.Join(t.TempDir(), "lich.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSX(t *testing.T) {
	path := writeWorkbook(t)
	tbl, err := XLSX{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", tbl.Name)
	assert.Equal(t, "Tên công ty", tbl.Headers[0])
	require.Equal(t, 1, tbl.Len())
	rec := tbl.Record(0)
	assert.Equal(t, "ACME", rec["Tên công ty"])
	assert.Equal(t, "45870", rec["Ngày bắt đầu"])

	_, err = XLSX{Path: path, Sheet: "Missing"}.Fetch(context.Background())
	assert.Error(t, err)
	_, err = XLSX{Path: filepath.Join(t.TempDir(), "nope.xlsx")}.Fetch(context.Background())
	assert.Error(t, err)
}

const csvData = "\uFEFFTên công ty;Ngày bắt đầu;Ngày kết thúc;Tổng số người khám\nACME;8/1/2025;8/10/2025;100\n;;;\nBeta;8/4/2025;8/8/2025;50\n"

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lich.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o600))
	tbl, err := CSV{Path: path, Comma: ';'}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tên công ty", tbl.Headers[0])
	assert.Equal(t, 2, tbl.Len())
}

func TestXLSRejectsGarbage(t *testing.T) {
	_, err := ParseXLS(strings.NewReader("not a workbook"), "")
	assert.Error(t, err)
}

func TestHTTP(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
		case "/export":
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			_, _ = w.Write([]byte(strings.ReplaceAll(csvData, ";", ",")))
		case "/book.xlsx":
			f := excelize.NewFile()
			_ = f.SetSheetRow("Sheet1", "A1", &[]any{"Tên công ty", "Ngày bắt đầu", "Ngày kết thúc", "Tổng số người khám"})
			_ = f.SetSheetRow("Sheet1", "A2", &[]any{"ACME", 45870, 45879, 100})
			var buf bytes.Buffer
			_ = f.Write(&buf)
			_, _ = w.Write(buf.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s, err := coresource.New(factory.ModuleConfig{Type: "http", Conf: map[string]any{
		"url":  srv.URL + "/export",
		"auth": map[string]any{"client_id": "id", "client_secret": "s", "auth_url": srv.URL + "/token"},
	}})
	require.NoError(t, err)
	tbl, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Bearer abc", gotAuth)

	tbl, err = HTTP{URL: srv.URL + "/book.xlsx"}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = HTTP{URL: srv.URL + "/missing"}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPFormatDetection(t *testing.T) {
	cases := []struct {
		h    HTTP
		ct   string
		want string
	}{
		{HTTP{Format: "CSV"}, "", "csv"},
		{HTTP{URL: "http://x/a.xls"}, "", "xls"},
		{HTTP{URL: "http://x/a"}, "application/vnd.ms-excel", "xls"},
		{HTTP{URL: "http://x/a"}, "", "xlsx"},
	}
	for _, c := range cases {
		if got := c.h.format(c.ct); got != c.want {
			t.Errorf("format(%+v, %q) = %s, want %s", c.h, c.ct, got, c.want)
		}
	}
}

func TestFactoryValidation(t *testing.T) {
	for _, typ := range []string{"xlsx", "xls", "csv", "http"} {
		if _, err := coresource.New(factory.ModuleConfig{Type: typ, Conf: map[string]any{}}); err == nil {
			t.Errorf("%s: expected error for missing location", typ)
		}
	}
	s, err := coresource.New(factory.ModuleConfig{Type: "csv", Conf: map[string]any{"path": "x.csv", "comma": ";"}})
	require.NoError(t, err)
	assert.Equal(t, CSV{Path: "x.csv", Comma: ';'}, s)
}
