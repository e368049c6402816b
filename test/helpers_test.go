//go:build integration

package test

import (
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/kilianp07/roadcast/core/jobs"
	"github.com/kilianp07/roadcast/core/model"
)

func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
}

func sampleJob(i, road int) jobs.Job {
	return jobs.Job{
		ID:            fmt.Sprintf("it-%02d", i),
		RoadID:        road,
		SegmentName:   fmt.Sprintf("Road #%d", road),
		BaseTime:      1470571200000,
		HorizonSteps:  1,
		PredictorType: "BASELINE",
		CostMs:        1,
		CreatedAt:     time.Date(2016, 8, 7, 12, 0, i, 0, time.UTC),
		Points: []model.PredictionPoint{
			{Timestamp: 1470571800000, PredictedSpeed: 33.5, Level: model.LevelFlowing},
		},
	}
}
