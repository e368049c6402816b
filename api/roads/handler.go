// Package roads exposes the road list and speed queries over HTTP.
package roads

import (
	"context"
	"net/http"
	"sort"

	"github.com/kilianp07/roadcast/api/httputil"
	"github.com/kilianp07/roadcast/core/model"
	coreroads "github.com/kilianp07/roadcast/core/roads"
	"github.com/kilianp07/roadcast/core/series"
)

// DefaultRecentLimit is used when ?limit is absent.
const DefaultRecentLimit = 12

// Cache is the part of the road cache the handlers read.
type Cache interface {
	FilteredView(ctx context.Context, roadID int, r series.Range, interpolate bool) (model.Series, error)
	RecentView(ctx context.Context, roadID int, limit int) (model.Series, error)
	AllKnownRoadIDs(ctx context.Context) ([]int, error)
	Contains(roadID int) bool
}

// Road is one entry of GET /api/roads.
type Road struct {
	coreroads.Segment
	Cached bool `json:"cached"`
}

// Speeds is the payload of the speed endpoints.
type Speeds struct {
	RoadID int                `json:"road_id"`
	Name   string             `json:"name"`
	Points []model.SpeedPoint `json:"points"`
}

// NewListHandler serves GET /api/roads: every road with data or metadata,
// sorted by id.
func NewListHandler(cache Cache, dir coreroads.Directory) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids, err := cache.AllKnownRoadIDs(r.Context())
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		byID := make(map[int]coreroads.Segment, len(ids))
		for _, seg := range dir.List() {
			byID[seg.RoadID] = seg
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				byID[id] = coreroads.Segment{RoadID: id}
			}
		}
		out := make([]Road, 0, len(byID))
		for id, seg := range byID {
			seg.Name = seg.DisplayName()
			out = append(out, Road{Segment: seg, Cached: cache.Contains(id)})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].RoadID < out[j].RoadID })
		httputil.WriteJSON(w, http.StatusOK, out)
	})
}

func displayName(dir coreroads.Directory, id int) string {
	seg, ok := dir.Lookup(id)
	if !ok {
		return coreroads.DisplayName(id, "")
	}
	return seg.DisplayName()
}

// NewSpeedsHandler serves GET /api/roads/{id}/speeds?from&to&interpolate.
// from and to are inclusive epoch milliseconds.
func NewSpeedsHandler(cache Cache, dir coreroads.Directory) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.RoadID(r)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		var rng series.Range
		if rng.From, err = httputil.IntParam(r, "from"); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if rng.To, err = httputil.IntParam(r, "to"); err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		interpolate := r.URL.Query().Get("interpolate") == "true"
		pts, err := cache.FilteredView(r.Context(), id, rng, interpolate)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, Speeds{RoadID: id, Name: displayName(dir, id), Points: nonNil(pts)})
	})
}

// NewRecentHandler serves GET /api/roads/{id}/speeds/recent?limit.
func NewRecentHandler(cache Cache, dir coreroads.Directory) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.RoadID(r)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		limit := DefaultRecentLimit
		l, err := httputil.IntParam(r, "limit")
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if l != nil && *l > 0 {
			limit = int(*l)
		}
		pts, err := cache.RecentView(r.Context(), id, limit)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, Speeds{RoadID: id, Name: displayName(dir, id), Points: nonNil(pts)})
	})
}

func nonNil(s model.Series) []model.SpeedPoint {
	if s == nil {
		return []model.SpeedPoint{}
	}
	return s
}
