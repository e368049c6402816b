package dashboard

import (
	"context"

	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/roads"
	"github.com/kilianp07/roadcast/core/series"
)

// SeriesView is the subset of the road cache used to compute averages.
type SeriesView interface {
	FilteredView(ctx context.Context, roadID int, r series.Range, interpolate bool) (model.Series, error)
}

// NameLookup resolves road metadata.
type NameLookup interface {
	Lookup(roadID int) (roads.Segment, bool)
}

// CacheAverages computes the mean speed of each road in roadIDs through the
// cache. Roads without data are left out. A nil directory names every road
// "Road #<id>".
func CacheAverages(ctx context.Context, view SeriesView, dir NameLookup, roadIDs []int) ([]RoadAverage, error) {
	out := make([]RoadAverage, 0, len(roadIDs))
	for _, id := range roadIDs {
		s, err := view.FilteredView(ctx, id, series.Range{}, false)
		if err != nil {
			return nil, err
		}
		if len(s) == 0 {
			continue
		}
		seg := roads.Segment{RoadID: id}
		if dir != nil {
			if found, ok := dir.Lookup(id); ok {
				seg = found
			}
		}
		out = append(out, RoadAverage{
			RoadID:   id,
			Name:     seg.DisplayName(),
			Region:   seg.Region,
			AvgSpeed: series.Mean(s),
		})
	}
	return out, nil
}
