package prediction

import (
	"context"

	"github.com/kilianp07/roadcast/core/model"
)

// MockPredictor returns a constant forecast. It is used by tests of packages
// that drive a Predictor.
type MockPredictor struct {
	ID    string
	Speed float64
	Err   error
	// Requests records every request received.
	Requests []Request
}

// Identifier returns the configured id or "MOCK".
func (m *MockPredictor) Identifier() string {
	if m.ID == "" {
		return "MOCK"
	}
	return m.ID
}

// Predict returns HorizonSteps points at the configured speed, or Err.
func (m *MockPredictor) Predict(_ context.Context, req Request) ([]model.PredictionPoint, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if req.HorizonSteps <= 0 {
		return nil, ErrInvalidHorizon
	}
	th := model.DefaultThresholds()
	out := make([]model.PredictionPoint, req.HorizonSteps)
	for i := range out {
		out[i] = model.PredictionPoint{
			Timestamp:      req.BaseTime + int64(i+1)*model.SlotDuration,
			PredictedSpeed: m.Speed,
			Level:          th.Classify(m.Speed),
		}
	}
	return out, nil
}
