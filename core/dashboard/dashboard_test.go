package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/roads"
	"github.com/kilianp07/roadcast/core/series"
)

func TestAggregate(t *testing.T) {
	avgs := []RoadAverage{
		{RoadID: 1, Name: "A", Region: "North", AvgSpeed: 10},
		{RoadID: 2, Name: "B", Region: "South", AvgSpeed: 30},
		{RoadID: 3, Name: "C", Region: "North", AvgSpeed: 50},
	}
	s := Aggregate(avgs, model.DefaultThresholds(), 0)

	assert.InDelta(t, 30.0, s.GlobalAverageSpeed, 1e-9)
	assert.Equal(t, 1, s.CongestedCount)
	assert.Equal(t, Distribution{Free: 1, Flowing: 1, Congested: 1}, s.Distribution)
	require.NotNil(t, s.MostCongested)
	assert.Equal(t, "A", s.MostCongested.Name)
	assert.Equal(t, model.LevelCongested, s.MostCongested.Level)
	require.Len(t, s.TopCongested, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{s.TopCongested[0].RoadID, s.TopCongested[1].RoadID, s.TopCongested[2].RoadID})
	assert.Equal(t, []RegionRollup{
		{Region: "North", Distribution: Distribution{Free: 1, Congested: 1}},
		{Region: "South", Distribution: Distribution{Flowing: 1}},
	}, s.Regions)
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, model.DefaultThresholds(), 5)
	assert.Equal(t, 0.0, s.GlobalAverageSpeed)
	assert.Nil(t, s.MostCongested)
	assert.Empty(t, s.TopCongested)
	assert.Empty(t, s.Regions)
}

func TestAggregateTiesAndTopN(t *testing.T) {
	var avgs []RoadAverage
	for i := 1; i <= 7; i++ {
		avgs = append(avgs, RoadAverage{RoadID: i, AvgSpeed: 20})
	}
	s := Aggregate(avgs, model.DefaultThresholds(), 5)
	assert.Equal(t, 1, s.MostCongested.RoadID)
	require.Len(t, s.TopCongested, 5)
	assert.Equal(t, 5, s.TopCongested[4].RoadID)
	assert.Empty(t, s.Regions, "roads without region are not rolled up")
}

type fakeView map[int]model.Series

func (f fakeView) FilteredView(_ context.Context, id int, _ series.Range, _ bool) (model.Series, error) {
	if id < 0 {
		return nil, errors.New("boom")
	}
	return f[id], nil
}

func TestCacheAverages(t *testing.T) {
	view := fakeView{
		1: {{Timestamp: 1, Speed: 10}, {Timestamp: 2, Speed: 20}},
		2: {{Timestamp: 1, Speed: 40}},
	}
	dir := roads.NewMemory(roads.Segment{RoadID: 2, Name: "Ring", Region: "East"})

	avgs, err := CacheAverages(context.Background(), view, dir, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []RoadAverage{
		{RoadID: 1, Name: "Road #1", AvgSpeed: 15},
		{RoadID: 2, Name: "Ring", Region: "East", AvgSpeed: 40},
	}, avgs)

	_, err = CacheAverages(context.Background(), view, nil, []int{-1})
	assert.Error(t, err)
}
