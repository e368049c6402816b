package config

import (
	"fmt"

	"github.com/kilianp07/roadcast/core/factory"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/prediction"
)

// PredictionConfig selects the predictor and the congestion thresholds.
type PredictionConfig struct {
	Predictor             factory.ModuleConfig `json:"predictor"`
	FreeSpeedThreshold    float64              `json:"free_speed_threshold"`
	FlowingSpeedThreshold float64              `json:"flowing_speed_threshold"`
	WindowSize            int                  `json:"window_size"`
	FallbackSpeed         float64              `json:"fallback_speed"`
}

// SetDefaults applies sane defaults.
func (c *PredictionConfig) SetDefaults() {
	if c.Predictor.Type == "" {
		c.Predictor.Type = "baseline"
	}
	def := model.DefaultThresholds()
	if c.FreeSpeedThreshold == 0 {
		c.FreeSpeedThreshold = def.Free
	}
	if c.FlowingSpeedThreshold == 0 {
		c.FlowingSpeedThreshold = def.Flowing
	}
	if c.WindowSize <= 0 {
		c.WindowSize = prediction.DefaultWindowSize
	}
	if c.FallbackSpeed <= 0 {
		c.FallbackSpeed = prediction.DefaultFallbackSpeed
	}
}

// sharedKeys are read by the forecast service and the dashboard too, so they
// may only be set at the prediction level.
var sharedKeys = []string{"window_size", "thresholds"}

// Validate checks the thresholds and rejects predictor-level copies of the
// shared settings.
func (c PredictionConfig) Validate() error {
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive")
	}
	for _, k := range sharedKeys {
		if _, ok := c.Predictor.Conf[k]; ok {
			return fmt.Errorf("predictor.conf.%s is not allowed, set prediction.%s instead", k, k)
		}
	}
	return nil
}

// Thresholds returns the configured congestion thresholds.
func (c PredictionConfig) Thresholds() model.Thresholds {
	return model.Thresholds{Free: c.FreeSpeedThreshold, Flowing: c.FlowingSpeedThreshold}
}

// ModuleConfig returns the predictor module configuration with the shared
// window and thresholds, and the fallback speed unless the module sets its own.
func (c PredictionConfig) ModuleConfig() factory.ModuleConfig {
	conf := make(map[string]any, len(c.Predictor.Conf)+3)
	for k, v := range c.Predictor.Conf {
		conf[k] = v
	}
	conf["window_size"] = c.WindowSize
	conf["thresholds"] = map[string]any{
		"free_speed_threshold":    c.FreeSpeedThreshold,
		"flowing_speed_threshold": c.FlowingSpeedThreshold,
	}
	if _, ok := conf["fallback_speed"]; !ok {
		conf["fallback_speed"] = c.FallbackSpeed
	}
	return factory.ModuleConfig{Type: c.Predictor.Type, Conf: conf}
}
