package speeddata

import (
	"sort"
	"strings"

	"github.com/kilianp07/roadcast/core/model"
)

// SlotsPerDay is the number of 10-minute slots in one day.
const SlotsPerDay = 144

// Calendar binds month tags found in file names to the epoch (ms) of their first slot.
type Calendar struct {
	bases map[string]int64
	tags  []string
}

// DefaultMonths returns the month tags known without configuration.
func DefaultMonths() map[string]int64 {
	return map[string]int64{
		"Aug": 1470000000000,
		"Sep": 1472691200000,
	}
}

// NewCalendar builds a Calendar from a tag → base epoch mapping.
func NewCalendar(months map[string]int64) Calendar {
	c := Calendar{bases: make(map[string]int64, len(months))}
	for tag, base := range months {
		if tag == "" {
			continue
		}
		c.bases[tag] = base
		c.tags = append(c.tags, tag)
	}
	sort.Strings(c.tags)
	return c
}

// DefaultCalendar returns a Calendar with DefaultMonths.
func DefaultCalendar() Calendar { return NewCalendar(DefaultMonths()) }

// Known reports whether tag has a base epoch.
func (c Calendar) Known(tag string) bool {
	_, ok := c.bases[tag]
	return ok
}

// Tags returns the recognised tags in sorted order.
func (c Calendar) Tags() []string {
	return append([]string(nil), c.tags...)
}

// TagFor returns the first recognised tag contained in name, or "".
func (c Calendar) TagFor(name string) string {
	for _, tag := range c.tags {
		if strings.Contains(name, tag) {
			return tag
		}
	}
	return ""
}

// Timestamp maps a 1-based day and slot of the tagged month to epoch milliseconds.
// It returns false when the tag is unknown.
func (c Calendar) Timestamp(tag string, day, slot int) (int64, bool) {
	base, ok := c.bases[tag]
	if !ok {
		return 0, false
	}
	return base + int64(day-1)*model.DayDuration + int64(slot-1)*model.SlotDuration, true
}
