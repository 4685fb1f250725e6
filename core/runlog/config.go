package runlog

import "fmt"

// Config selects the run log backend and its rotation policy.
type Config struct {
	// Backend is "jsonl", "sqlite" or "nop".
	Backend string `json:"backend"`
	Path    string `json:"path"`
	// MaxSizeMB enables rotation of the jsonl backend when positive.
	MaxSizeMB  int `json:"max_size_mb"`
	MaxBackups int `json:"max_backups"`
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "examgrid-runs.db"
		default:
			c.Path = "examgrid-runs.jsonl"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "nop":
		return nil
	case "jsonl", "sqlite":
	default:
		return fmt.Errorf("unknown run log backend %q", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("run log path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("run log rotation settings must not be negative")
	}
	return nil
}

// New opens the configured store.
func New(c Config) (Store, error) {
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend {
	case "sqlite":
		return NewSQLiteStore(c.Path)
	case "nop":
		return Nop{}, nil
	}
	if c.MaxSizeMB > 0 {
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	}
	return NewJSONLStore(c.Path)
}
