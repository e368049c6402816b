package events

import (
	"time"

	"github.com/kilianp07/roadcast/core/model"
)

// PredictionEvent is published after a prediction request. Err is set and
// JobID empty when the request failed before a job was stored.
type PredictionEvent struct {
	JobID     string
	RoadID    int
	Predictor string
	Steps     int
	Cost      time.Duration
	Points    []model.PredictionPoint
	Err       error
	Time      time.Time
}
