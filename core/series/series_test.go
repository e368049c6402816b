package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/roadcast/core/model"
)

func TestInterpolateSingleGap(t *testing.T) {
	in := model.Series{{Timestamp: 0, Speed: 45.5}, {Timestamp: 600000, Speed: math.NaN()}, {Timestamp: 1200000, Speed: 42.3}}
	out := Interpolate(in)
	require.Len(t, out, 3)
	assert.InDelta(t, 43.9, out[1].Speed, 1e-9)
	assert.True(t, math.IsNaN(in[1].Speed), "input must not be modified")
	assert.True(t, out.Sorted())
}

func TestInterpolateLongGapNotHealed(t *testing.T) {
	in := model.Series{{Speed: 10}, {Speed: 0}, {Speed: -1}, {Speed: 30}}
	out := Interpolate(in)
	assert.Equal(t, 0.0, out[1].Speed)
	assert.Equal(t, -1.0, out[2].Speed)
}

func TestInterpolateEdgesAndShort(t *testing.T) {
	in := model.Series{{Speed: 0}, {Speed: 20}, {Speed: 0}}
	out := Interpolate(in)
	assert.Equal(t, in, out)

	single := model.Series{{Speed: 0}}
	assert.Equal(t, single, Interpolate(single))
	assert.Empty(t, Interpolate(nil))
}

func TestPositiveWindowLast(t *testing.T) {
	s := model.Series{{Timestamp: 1, Speed: 10}, {Timestamp: 2, Speed: 0}, {Timestamp: 3, Speed: 30}, {Timestamp: 4, Speed: 40}}
	pos := Positive(s)
	assert.Len(t, pos, 3)

	w := Window(pos, Between(2, 3))
	require.Len(t, w, 1)
	assert.Equal(t, int64(3), w[0].Timestamp)

	from := int64(3)
	assert.Len(t, Window(pos, Range{From: &from}), 2)
	assert.Len(t, Window(pos, Range{}), 3)

	last := Last(pos, 2)
	require.Len(t, last, 2)
	assert.Equal(t, int64(3), last[0].Timestamp)
	assert.Len(t, Last(pos, 10), 3)
	assert.Empty(t, Last(pos, 0))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 20.0, Mean(model.Series{{Speed: 10}, {Speed: 30}}), 1e-9)
}

func TestMarkGaps(t *testing.T) {
	step := model.SlotDuration
	s := model.Series{{Timestamp: 0, Speed: 10}, {Timestamp: 2 * step, Speed: 20}, {Timestamp: 5 * step, Speed: 30}}
	out := MarkGaps(s, step)
	require.Len(t, out, 4)
	assert.Equal(t, step, out[1].Timestamp)
	assert.True(t, math.IsNaN(out[1].Speed))
	assert.True(t, out.Sorted())

	filled := Positive(Interpolate(out))
	require.Len(t, filled, 4)
	assert.InDelta(t, 15.0, filled[1].Speed, 1e-9)
}
