package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdsClassify(t *testing.T) {
	th := Thresholds{Free: 40, Flowing: 25}
	cases := []struct {
		speed float64
		want  CongestionLevel
	}{
		{40, LevelFree},
		{55.2, LevelFree},
		{39.9, LevelFlowing},
		{25, LevelFlowing},
		{24.9, LevelCongested},
		{0, LevelCongested},
		{math.NaN(), LevelCongested},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, th.Classify(c.speed), "speed %v", c.speed)
	}
	assert.Equal(t, LevelCongested, th.ClassifyPtr(nil))
	v := 40.0
	assert.Equal(t, LevelFree, th.ClassifyPtr(&v))
}

func TestCongestionLevelJSON(t *testing.T) {
	b, err := json.Marshal(PredictionPoint{Timestamp: 1, PredictedSpeed: 2, Level: LevelFlowing})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ts":1,"predicted_speed":2,"congestion_level":"FLOWING"}`, string(b))

	var p PredictionPoint
	require.NoError(t, json.Unmarshal([]byte(`{"congestion_level":"congested"}`), &p))
	assert.Equal(t, LevelCongested, p.Level)
	assert.Error(t, json.Unmarshal([]byte(`{"congestion_level":"jammed"}`), &p))
}

func TestSeriesSortByTime(t *testing.T) {
	s := Series{{Timestamp: 3}, {Timestamp: 1}, {Timestamp: 2}}
	assert.False(t, s.Sorted())
	cp := s.Clone()
	s.SortByTime()
	assert.True(t, s.Sorted())
	assert.Equal(t, int64(3), cp[0].Timestamp)
}

func TestThresholdsValidate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{Free: 20, Flowing: 25}.Validate())
	assert.Error(t, Thresholds{Free: 40, Flowing: 0}.Validate())
}
