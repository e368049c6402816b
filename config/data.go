package config

import (
	"fmt"

	"github.com/kilianp07/roadcast/core/roadcache"
	"github.com/kilianp07/roadcast/core/speeddata"
)

// DataConfig locates the speed CSV files.
type DataConfig struct {
	Dir    string `json:"dir"`
	Marker string `json:"marker"`
	// Months maps a month tag found in file names to the epoch (ms) of its
	// first slot. Configured tags extend the built-in ones.
	Months      map[string]int64 `json:"months"`
	ScanWorkers int              `json:"scan_workers"`
}

// SetDefaults applies sane defaults.
func (c *DataConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "./data"
	}
	if c.Marker == "" {
		c.Marker = speeddata.DefaultMarker
	}
	if c.ScanWorkers <= 0 {
		c.ScanWorkers = 4
	}
	months := speeddata.DefaultMonths()
	for tag, base := range c.Months {
		months[tag] = base
	}
	c.Months = months
}

// Validate checks mandatory fields.
func (c DataConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	for tag, base := range c.Months {
		if tag == "" || base < 0 {
			return fmt.Errorf("invalid month %q: %d", tag, base)
		}
	}
	return nil
}

// Calendar builds the timestamp mapper for the configured months.
func (c DataConfig) Calendar() speeddata.Calendar { return speeddata.NewCalendar(c.Months) }

// Directory returns the data directory with its naming convention.
func (c DataConfig) Directory() speeddata.Dir {
	return speeddata.Dir{Path: c.Dir, Marker: c.Marker}
}

// CacheConfig bounds the in-memory road cache.
type CacheConfig struct {
	MaxRoads int `json:"max_roads"`
	// InvalidateIntervalSeconds clears the cache periodically; 0 disables it.
	InvalidateIntervalSeconds int `json:"invalidate_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *CacheConfig) SetDefaults() {
	if c.MaxRoads <= 0 {
		c.MaxRoads = roadcache.DefaultMaxRoads
	}
}

// Validate checks value ranges.
func (c CacheConfig) Validate() error {
	if c.InvalidateIntervalSeconds < 0 {
		return fmt.Errorf("invalidate_interval_seconds must be >= 0")
	}
	return nil
}

// RoadsConfig points to the optional YAML road directory.
type RoadsConfig struct {
	Path string `json:"path"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token enables bearer authentication when set.
	Token string `json:"token"`
	// MaxUploadMB bounds the body of a data file import.
	MaxUploadMB int `json:"max_upload_mb"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 64
	}
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c APIConfig) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }
