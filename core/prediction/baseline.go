package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/series"
)

const (
	BaselineID           = "BASELINE"
	DefaultWindowSize    = 6
	DefaultFallbackSpeed = 30.0

	peakFactor    = 0.8
	offPeakFactor = 1.2
	neutralFactor = 1.0
)

// Baseline forecasts the moving average of the last WindowSize observations,
// scaled by a time-of-day factor for each target slot.
type Baseline struct {
	WindowSize    int              `json:"window_size"`
	FallbackSpeed float64          `json:"fallback_speed"`
	Thresholds    model.Thresholds `json:"thresholds"`
}

// NewBaseline returns a Baseline with default window, fallback and thresholds.
func NewBaseline() Baseline {
	b := Baseline{}
	b.SetDefaults()
	return b
}

// SetDefaults fills zero fields.
func (b *Baseline) SetDefaults() {
	if b.WindowSize <= 0 {
		b.WindowSize = DefaultWindowSize
	}
	if b.FallbackSpeed <= 0 {
		b.FallbackSpeed = DefaultFallbackSpeed
	}
	if b.Thresholds.Free == 0 && b.Thresholds.Flowing == 0 {
		b.Thresholds = model.DefaultThresholds()
	}
}

// Identifier implements Predictor.
func (Baseline) Identifier() string { return BaselineID }

// Predict implements Predictor. Without history every step gets the fallback
// speed, unadjusted.
func (b Baseline) Predict(ctx context.Context, req Request) ([]model.PredictionPoint, error) {
	if req.HorizonSteps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, req.HorizonSteps)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.SetDefaults()

	hist := model.Series(req.History).Clone()
	hist.SortByTime()
	avg := 0.0
	if len(hist) > 0 {
		avg = series.Mean(series.Last(hist, b.WindowSize))
	}

	out := make([]model.PredictionPoint, 0, req.HorizonSteps)
	for i := 1; i <= req.HorizonSteps; i++ {
		ts := req.BaseTime + int64(i)*model.SlotDuration
		speed := b.FallbackSpeed
		if len(hist) > 0 {
			speed = avg * PeakFactor(ts)
		}
		out = append(out, model.PredictionPoint{
			Timestamp:      ts,
			PredictedSpeed: speed,
			Level:          b.Thresholds.Classify(speed),
		})
	}
	return out, nil
}

// PeakFactor returns the speed multiplier for the UTC hour of ts: rush hours
// slow traffic down, night hours speed it up.
func PeakFactor(ts int64) float64 {
	hour := time.UnixMilli(ts).UTC().Hour()
	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return peakFactor
	case hour >= 22 || hour <= 5:
		return offPeakFactor
	default:
		return neutralFactor
	}
}
