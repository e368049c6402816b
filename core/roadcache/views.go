package roadcache

import (
	"context"

	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/series"
)

// FilteredView returns the positive-speed points of roadID inside r. With
// interpolate set, single missing slots between two readings are filled with
// the mean of their neighbours.
func (c *Cache) FilteredView(ctx context.Context, roadID int, r series.Range, interpolate bool) (model.Series, error) {
	s, err := c.Get(ctx, roadID)
	if err != nil {
		return nil, err
	}
	out := series.Window(series.Positive(s), r)
	if interpolate && len(out) > 0 {
		out = series.Positive(series.Interpolate(series.MarkGaps(out, model.SlotDuration)))
	}
	return out, nil
}

// RecentView returns the last limit positive-speed points of roadID in time order.
func (c *Cache) RecentView(ctx context.Context, roadID int, limit int) (model.Series, error) {
	s, err := c.Get(ctx, roadID)
	if err != nil {
		return nil, err
	}
	return series.Last(series.Positive(s), limit), nil
}
