// Package roads keeps the metadata of known road segments: a display name and
// an optional region. Roads without metadata are still valid; they are shown
// under a generated name.
package roads

import "fmt"

// Segment describes one road.
type Segment struct {
	RoadID int    `json:"road_id" yaml:"road_id"`
	Name   string `json:"name,omitempty" yaml:"name"`
	Region string `json:"region,omitempty" yaml:"region"`
}

// DisplayName returns the segment name, or "Road #<id>" when it has none.
func (s Segment) DisplayName() string {
	return DisplayName(s.RoadID, s.Name)
}

// DisplayName returns name, or "Road #<id>" when name is empty.
func DisplayName(roadID int, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("Road #%d", roadID)
}
