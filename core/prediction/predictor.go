package prediction

import (
	"context"
	"errors"

	"github.com/kilianp07/roadcast/core/model"
)

var (
	// ErrInvalidHorizon is returned when a request asks for no future step.
	ErrInvalidHorizon = errors.New("horizon steps must be positive")
	// ErrUnknownPredictor is returned by New for an unregistered predictor type.
	ErrUnknownPredictor = errors.New("unknown predictor")
)

// Request describes one forecast.
type Request struct {
	SegmentID    string
	BaseTime     int64
	HorizonSteps int
	History      []model.SpeedPoint
}

// Predictor produces HorizonSteps points, one slot apart, starting one slot
// after BaseTime.
type Predictor interface {
	Identifier() string
	Predict(ctx context.Context, req Request) ([]model.PredictionPoint, error)
}
