// Package cache defines the result cache consulted before an aggregation and
// populated after a successful one. Entries are opaque serialized results.
package cache

import (
	"context"
	"time"

	"github.com/kilianp07/examgrid/core/factory"
)

// Store is a key -> bytes store with per-entry time-to-live.
type Store interface {
	// Get returns the value and true on a hit. Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Close() error                                             { return nil }

// Config selects the cache backend.
type Config struct {
	Backend    factory.ModuleConfig `json:"backend"`
	TTLSeconds int                  `json:"ttl_seconds"`
}

// DefaultTTL applies when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Backend.Type == "" {
		c.Backend.Type = "memory"
	}
	if c.TTLSeconds <= 0 {
		c.TTLSeconds = int(DefaultTTL / time.Second)
	}
}

// TTL returns the configured time-to-live.
func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return DefaultTTL
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

var registry = func() *factory.Registry[Store] {
	r := factory.NewRegistry[Store]()
	r.MustRegister("nop", func(map[string]any) (Store, error) { return Nop{}, nil })
	r.SetDefault("nop")
	return r
}()

// Register adds a cache backend factory identified by name.
func Register(name string, f factory.Factory[Store]) error {
	return registry.Register(name, f)
}

// New creates the configured backend. An empty type yields Nop.
func New(cfg factory.ModuleConfig) (Store, error) {
	return registry.Create(cfg)
}
