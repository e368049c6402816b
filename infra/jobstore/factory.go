package jobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/roadcast/core/factory"
	"github.com/kilianp07/roadcast/core/jobs"
)

// Config selects and configures the job store backend.
type Config struct {
	// Backend is one of "memory", "jsonl", "sqlite" or "postgres".
	Backend string `json:"backend"`
	// Path is the file location for the jsonl and sqlite backends.
	Path string `json:"path"`
	// DSN is the connection string of the postgres backend.
	DSN string `json:"dsn"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Path == "" {
		switch c.Backend {
		case "jsonl":
			c.Path = "predictions.jsonl"
		case "sqlite":
			c.Path = "predictions.db"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory":
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("jobs.path is required for backend %s", c.Backend)
		}
	case "postgres":
		if c.DSN == "" {
			return fmt.Errorf("jobs.dsn is required for backend postgres")
		}
	default:
		return fmt.Errorf("unknown jobs backend %s", c.Backend)
	}
	return nil
}

var registry = factory.NewRegistry[jobs.Store]()

type fileConf struct {
	Path string `json:"path"`
}

func init() {
	registry.MustRegister("memory", func(map[string]any) (jobs.Store, error) {
		return jobs.NewMemoryStore(), nil
	})
	registry.MustRegister("jsonl", func(conf map[string]any) (jobs.Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path)
	})
	registry.MustRegister("sqlite", func(conf map[string]any) (jobs.Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
	registry.MustRegister("postgres", func(conf map[string]any) (jobs.Store, error) {
		var c struct {
			DSN string `json:"dsn"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return NewPostgresStore(ctx, c.DSN)
	})
}

// New builds the store described by cfg.
func New(cfg Config) (jobs.Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return registry.Create(factory.ModuleConfig{
		Type: cfg.Backend,
		Conf: map[string]any{"path": cfg.Path, "dsn": cfg.DSN},
	})
}

// Backends lists the registered backend names.
func Backends() []string { return registry.Names() }
