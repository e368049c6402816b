package speeddata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/roadcast/core/model"
)

func TestCalendarTimestampMonotonic(t *testing.T) {
	cal := DefaultCalendar()
	for _, tag := range cal.Tags() {
		prev, ok := cal.Timestamp(tag, 1, 1)
		require.True(t, ok)
		for day := 1; day <= 3; day++ {
			for slot := 1; slot <= SlotsPerDay; slot++ {
				if day == 1 && slot == 1 {
					continue
				}
				ts, ok := cal.Timestamp(tag, day, slot)
				require.True(t, ok)
				require.Equal(t, model.SlotDuration, ts-prev, "tag %s day %d slot %d", tag, day, slot)
				prev = ts
			}
		}
	}
}

func TestCalendarBaseAndUnknown(t *testing.T) {
	cal := DefaultCalendar()
	ts, ok := cal.Timestamp("Aug", 2, 3)
	require.True(t, ok)
	assert.Equal(t, int64(1470000000000+86_400_000+2*600_000), ts)

	_, ok = cal.Timestamp("Oct", 1, 1)
	assert.False(t, ok)
}

func TestCalendarTagFor(t *testing.T) {
	cal := NewCalendar(map[string]int64{"Aug": 1, "Sep": 2, "Oct": 3, "": 4})
	assert.Equal(t, []string{"Aug", "Oct", "Sep"}, cal.Tags())
	assert.Equal(t, "Sep", cal.TagFor("speeddata_Sep.csv"))
	assert.Equal(t, "Oct", cal.TagFor("speeddata_Oct_2016.csv"))
	assert.Equal(t, "", cal.TagFor("speeddata_Dec.csv"))
}
