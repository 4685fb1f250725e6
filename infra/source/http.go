package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/kilianp07/examgrid/auth"
	coresource "github.com/kilianp07/examgrid/core/source"
)

// HTTP downloads a spreadsheet export on every Fetch. The format is taken
// from Format, then the response content type, then the URL extension.
type HTTP struct {
	URL    string
	Format string
	Sheet  string
	Client *http.Client
	Auth   *auth.ClientCred
}

const maxDownload = 64 << 20

func (h HTTP) Fetch(ctx context.Context) (coresource.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return coresource.Table{}, err
	}
	if h.Auth != nil {
		if err := h.Auth.SetAuthHeader(req); err != nil {
			return coresource.Table{}, err
		}
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return coresource.Table{}, fmt.Errorf("fetch %s: %w", h.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return coresource.Table{}, fmt.Errorf("fetch %s: unexpected status %s", h.URL, resp.Status)
	}
	body := io.LimitReader(resp.Body, maxDownload)
	switch h.format(resp.Header.Get("Content-Type")) {
	case "xls":
		return ParseXLS(body, "")
	case "csv":
		return ParseCSV(body, 0)
	default:
		br, err := readAllBytes(body)
		if err != nil {
			return coresource.Table{}, err
		}
		return ParseXLSX(br, h.Sheet)
	}
}

func (h HTTP) format(contentType string) string {
	if h.Format != "" {
		return strings.ToLower(h.Format)
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "text/csv":
			return "csv"
		case "application/vnd.ms-excel":
			return "xls"
		case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
			return "xlsx"
		}
	}
	if u, err := url.Parse(h.URL); err == nil {
		if ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), "."); ext != "" {
			return ext
		}
	}
	return "xlsx"
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
