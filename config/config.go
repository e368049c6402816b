package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/infra/jobstore"
	"github.com/kilianp07/roadcast/infra/mqtt"
)

type Config struct {
	Data       DataConfig       `json:"data"`
	Cache      CacheConfig      `json:"cache"`
	Prediction PredictionConfig `json:"prediction"`
	Jobs       jobstore.Config  `json:"jobs"`
	Roads      RoadsConfig      `json:"roads"`
	API        APIConfig        `json:"api"`
	Metrics    metrics.Config   `json:"metrics"`
	MQTT       mqtt.Config      `json:"mqtt"`
	Logging    LoggingConfig    `json:"logging"`
	Sentry     SentryConfig     `json:"sentry"`
}

// Default returns a configuration with every section defaulted, as used when
// no file is given.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Data.SetDefaults()
	c.Cache.SetDefaults()
	c.Prediction.SetDefaults()
	c.Jobs.SetDefaults()
	c.API.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	validators := []struct {
		name string
		fn   func() error
	}{
		{"data", c.Data.Validate},
		{"cache", c.Cache.Validate},
		{"prediction", c.Prediction.Validate},
		{"jobs", c.Jobs.Validate},
		{"mqtt", c.MQTT.Validate},
		{"logging", c.Logging.Validate},
	}
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
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
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
