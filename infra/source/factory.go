package source

import (
	"fmt"
	"time"

	"github.com/kilianp07/examgrid/auth"
	"github.com/kilianp07/examgrid/core/factory"
	coresource "github.com/kilianp07/examgrid/core/source"
)

// init registers the built-in row sources.
func init() {
	_ = coresource.Register("xlsx", func(conf map[string]any) (coresource.Source, error) {
		var c struct {
			Path  string `json:"path"`
			Sheet string `json:"sheet"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("xlsx source: path required")
		}
		return XLSX{Path: c.Path, Sheet: c.Sheet}, nil
	})

	_ = coresource.Register("xls", func(conf map[string]any) (coresource.Source, error) {
		var c struct {
			Path    string `json:"path"`
			Charset string `json:"charset"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("xls source: path required")
		}
		return XLS{Path: c.Path, Charset: c.Charset}, nil
	})

	_ = coresource.Register("csv", func(conf map[string]any) (coresource.Source, error) {
		var c struct {
			Path  string `json:"path"`
			Comma string `json:"comma"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("csv source: path required")
		}
		src := CSV{Path: c.Path}
		if r := []rune(c.Comma); len(r) == 1 {
			src.Comma = r[0]
		}
		return src, nil
	})

	_ = coresource.Register("http", func(conf map[string]any) (coresource.Source, error) {
		var c struct {
			URL            string    `json:"url"`
			Format         string    `json:"format"`
			Sheet          string    `json:"sheet"`
			TimeoutSeconds int       `json:"timeout_seconds"`
			Auth           auth.Conf `json:"auth"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" {
			return nil, fmt.Errorf("http source: url required")
		}
		src := HTTP{
			URL:    c.URL,
			Format: c.Format,
			Sheet:  c.Sheet,
			Client: newHTTPClient(time.Duration(c.TimeoutSeconds) * time.Second),
		}
		if c.Auth.Enabled() {
			src.Auth = auth.NewClientCred(c.Auth)
		}
		return src, nil
	})
}
