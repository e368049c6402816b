package model

import (
	"fmt"
	"math"
	"strings"
)

// CongestionLevel classifies a speed value against two thresholds.
type CongestionLevel int

const (
	LevelFree CongestionLevel = iota
	LevelFlowing
	LevelCongested
)

// String returns the canonical upper-case name of the level.
func (l CongestionLevel) String() string {
	switch l {
	case LevelFree:
		return "FREE"
	case LevelFlowing:
		return "FLOWING"
	case LevelCongested:
		return "CONGESTED"
	default:
		return "unknown"
	}
}

// ParseCongestionLevel converts a level name (case-insensitive) to its value.
func ParseCongestionLevel(s string) (CongestionLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FREE":
		return LevelFree, nil
	case "FLOWING":
		return LevelFlowing, nil
	case "CONGESTED":
		return LevelCongested, nil
	}
	return 0, fmt.Errorf("unknown congestion level %q", s)
}

// MarshalText encodes the level by name so JSON and YAML carry FREE/FLOWING/CONGESTED.
func (l CongestionLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *CongestionLevel) UnmarshalText(b []byte) error {
	v, err := ParseCongestionLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Thresholds holds the lower bounds (inclusive) of the FREE and FLOWING levels.
type Thresholds struct {
	Free    float64 `json:"free_speed_threshold"`
	Flowing float64 `json:"flowing_speed_threshold"`
}

// DefaultThresholds returns the 40/25 thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{Free: 40, Flowing: 25}
}

// Validate checks that free > flowing > 0.
func (t Thresholds) Validate() error {
	if t.Flowing <= 0 {
		return fmt.Errorf("flowing_speed_threshold must be > 0, got %v", t.Flowing)
	}
	if t.Free <= t.Flowing {
		return fmt.Errorf("free_speed_threshold (%v) must exceed flowing_speed_threshold (%v)", t.Free, t.Flowing)
	}
	return nil
}

// Classify returns the level of speed. NaN is a missing reading and is CONGESTED.
func (t Thresholds) Classify(speed float64) CongestionLevel {
	if math.IsNaN(speed) {
		return LevelCongested
	}
	switch {
	case speed >= t.Free:
		return LevelFree
	case speed >= t.Flowing:
		return LevelFlowing
	default:
		return LevelCongested
	}
}

// ClassifyPtr classifies an optional speed; nil is CONGESTED.
func (t Thresholds) ClassifyPtr(speed *float64) CongestionLevel {
	if speed == nil {
		return LevelCongested
	}
	return t.Classify(*speed)
}
