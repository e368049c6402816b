// Package dashboard reduces per-road average speeds to a network summary:
// global average, congestion counts, most congested roads and per-region
// distributions.
package dashboard

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/roadcast/core/model"
)

// DefaultTopN is the length of Summary.TopCongested.
const DefaultTopN = 5

// RoadAverage is the mean observed speed of one road.
type RoadAverage struct {
	RoadID   int     `json:"road_id"`
	Name     string  `json:"name"`
	Region   string  `json:"region,omitempty"`
	AvgSpeed float64 `json:"avg_speed"`
}

// CongestedRoad is a RoadAverage with its level.
type CongestedRoad struct {
	RoadAverage
	Level model.CongestionLevel `json:"congestion_level"`
}

// Distribution counts roads per congestion level.
type Distribution struct {
	Free      int `json:"free"`
	Flowing   int `json:"flowing"`
	Congested int `json:"congested"`
}

func (d *Distribution) add(l model.CongestionLevel) {
	switch l {
	case model.LevelFree:
		d.Free++
	case model.LevelFlowing:
		d.Flowing++
	default:
		d.Congested++
	}
}

// RegionRollup is the distribution of a single region.
type RegionRollup struct {
	Region string `json:"region"`
	Distribution
}

// Summary is the dashboard payload.
type Summary struct {
	GlobalAverageSpeed float64         `json:"global_average_speed"`
	CongestedCount     int             `json:"congested_count"`
	MostCongested      *CongestedRoad  `json:"most_congested"`
	TopCongested       []CongestedRoad `json:"top_congested"`
	Distribution       Distribution    `json:"distribution"`
	Regions            []RegionRollup  `json:"regions"`
}

// Aggregate builds a Summary from averages. Ties keep input order: the first
// minimum is the most congested road. topN <= 0 selects DefaultTopN.
func Aggregate(averages []RoadAverage, th model.Thresholds, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}
	sum := Summary{TopCongested: []CongestedRoad{}, Regions: []RegionRollup{}}
	if len(averages) == 0 {
		return sum
	}

	speeds := make([]float64, len(averages))
	ranked := make([]CongestedRoad, len(averages))
	regions := map[string]*Distribution{}
	for i, a := range averages {
		speeds[i] = a.AvgSpeed
		lvl := th.Classify(a.AvgSpeed)
		ranked[i] = CongestedRoad{RoadAverage: a, Level: lvl}
		if a.AvgSpeed < th.Flowing {
			sum.CongestedCount++
		}
		sum.Distribution.add(lvl)
		if a.Region == "" {
			continue
		}
		d, ok := regions[a.Region]
		if !ok {
			d = &Distribution{}
			regions[a.Region] = d
		}
		d.add(lvl)
	}
	sum.GlobalAverageSpeed = stat.Mean(speeds, nil)

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].AvgSpeed < ranked[j].AvgSpeed })
	most := ranked[0]
	sum.MostCongested = &most
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	sum.TopCongested = ranked

	for name, d := range regions {
		sum.Regions = append(sum.Regions, RegionRollup{Region: name, Distribution: *d})
	}
	sort.Slice(sum.Regions, func(i, j int) bool { return sum.Regions[i].Region < sum.Regions[j].Region })
	return sum
}
