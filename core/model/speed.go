package model

import "sort"

// SlotDuration is the length of one time slot in milliseconds.
const SlotDuration int64 = 10 * 60 * 1000

// DayDuration is the length of one day in milliseconds.
const DayDuration int64 = 24 * 60 * 60 * 1000

// SpeedPoint is one speed reading of a road at an epoch-millisecond timestamp.
type SpeedPoint struct {
	Timestamp int64   `json:"ts"`
	Speed     float64 `json:"speed"`
}

// Series is a timestamp-ordered sequence of points for one road.
type Series []SpeedPoint

// Sorted reports whether the series is non-decreasing by timestamp.
func (s Series) Sorted() bool {
	return sort.SliceIsSorted(s, func(i, j int) bool { return s[i].Timestamp < s[j].Timestamp })
}

// SortByTime orders the series in place, keeping the relative order of equal timestamps.
func (s Series) SortByTime() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Timestamp < s[j].Timestamp })
}

// Clone returns a copy that can be modified without affecting s.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	cp := make(Series, len(s))
	copy(cp, s)
	return cp
}

// Speeds returns the speed values in order.
func (s Series) Speeds() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Speed
	}
	return out
}

// DataSource describes one ingestible CSV file.
type DataSource struct {
	Filename  string `json:"filename"`
	Month     string `json:"month"`
	RoadCount int    `json:"total_roads"`
	DayCount  int    `json:"total_days"`
}

// PredictionPoint is one forecast step.
type PredictionPoint struct {
	Timestamp      int64           `json:"ts"`
	PredictedSpeed float64         `json:"predicted_speed"`
	Level          CongestionLevel `json:"congestion_level"`
}
