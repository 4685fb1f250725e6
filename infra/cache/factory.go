package cache

import (
	"time"

	corecache "github.com/kilianp07/examgrid/core/cache"
	"github.com/kilianp07/examgrid/core/factory"
)

// init registers the built-in cache backends.
func init() {
	_ = corecache.Register("memory", func(conf map[string]any) (corecache.Store, error) {
		var c struct {
			SweepSeconds int `json:"sweep_seconds"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s := NewMemoryStore()
		if c.SweepSeconds <= 0 {
			c.SweepSeconds = 60
		}
		s.StartSweeper(time.Duration(c.SweepSeconds) * time.Second)
		return s, nil
	})

	_ = corecache.Register("sqlite", func(conf map[string]any) (corecache.Store, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "examgrid-cache.db"
		}
		return NewSQLiteStore(c.Path)
	})
}
