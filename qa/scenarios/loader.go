// Package scenarios replays YAML-described road situations through the road
// cache, the forecast service and the dashboard, and checks the outcome.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/roads"
)

// RoadDef is one road and its readings. Speeds are consecutive 10-minute
// slots ending at the scenario base time; 0 marks a missing reading.
type RoadDef struct {
	ID     int       `yaml:"id"`
	Name   string    `yaml:"name,omitempty"`
	Region string    `yaml:"region,omitempty"`
	Speeds []float64 `yaml:"speeds"`
}

// Segment returns the directory entry of the road.
func (r RoadDef) Segment() roads.Segment {
	return roads.Segment{RoadID: r.ID, Name: r.Name, Region: r.Region}
}

// Series expands Speeds into timestamped points.
func (r RoadDef) Series(base int64) model.Series {
	out := make(model.Series, len(r.Speeds))
	for i, v := range r.Speeds {
		out[i] = model.SpeedPoint{
			Timestamp: base - int64(len(r.Speeds)-1-i)*model.SlotDuration,
			Speed:     v,
		}
	}
	return out
}

type RequestDef struct {
	Road  int `yaml:"road"`
	Steps int `yaml:"steps"`
}

type Expected struct {
	Jobs           int `yaml:"jobs"`
	Failures       int `yaml:"failures"`
	Published      int `yaml:"published"`
	CongestedCount int `yaml:"congested_count"`
	MostCongested  int `yaml:"most_congested"`
	CacheSize      int `yaml:"cache_size"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	BaseTime    int64        `yaml:"base_time"`
	MaxRoads    int          `yaml:"max_roads"`
	Roads       []RoadDef    `yaml:"roads"`
	Requests    []RequestDef `yaml:"requests"`
	FailPublish []int        `yaml:"fail_publish,omitempty"`
	Expected    Expected     `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
