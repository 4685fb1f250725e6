// Package config loads the examgrid configuration file. YAML and JSON are
// supported; K_-prefixed environment variables override file values, with a
// double underscore separating levels (K_CACHE__TTL_SECONDS=60).
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/examgrid/core/cache"
	"github.com/kilianp07/examgrid/core/factory"
	"github.com/kilianp07/examgrid/core/metrics"
	"github.com/kilianp07/examgrid/core/runlog"
	"github.com/kilianp07/examgrid/infra/mqtt"
)

type Config struct {
	Source      factory.ModuleConfig `json:"source"`
	ColumnsFile string               `json:"columns_file"`
	Aggregation AggregationConfig    `json:"aggregation"`
	Cache       cache.Config         `json:"cache"`
	Metrics     metrics.Config       `json:"metrics"`
	Logging     runlog.Config        `json:"logging"`
	MQTT        mqtt.Config          `json:"mqtt"`
	Sentry      SentryConfig         `json:"sentry"`
	Server      ServerConfig         `json:"server"`
}

// Load reads path, applies environment overrides, defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if cfg.ColumnsFile != "" && !filepath.IsAbs(cfg.ColumnsFile) {
		cfg.ColumnsFile = filepath.Join(filepath.Dir(path), cfg.ColumnsFile)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Aggregation.SetDefaults()
	c.Cache.SetDefaults()
	c.Logging.SetDefaults()
	c.MQTT.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks every section and joins the failures.
func (c Config) Validate() error {
	var errs []error
	if c.Source.Type == "" {
		errs = append(errs, errors.New("source: type is required"))
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("metrics: sink %d has no type", i))
		}
	}
	for name, err := range map[string]error{
		"aggregation": c.Aggregation.Validate(),
		"logging":     c.Logging.Validate(),
		"mqtt":        c.MQTT.Validate(),
		"sentry":      c.Sentry.Validate(),
		"server":      c.Server.Validate(),
	} {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
