// Package dashboard exposes the network summary and the data sources over HTTP.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kilianp07/roadcast/api/httputil"
	coredash "github.com/kilianp07/roadcast/core/dashboard"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/speeddata"
)

// RoadLister lists the road ids the dashboard covers.
type RoadLister interface {
	AllKnownRoadIDs(ctx context.Context) ([]int, error)
}

// SourceLister describes the CSV files of the data directory.
type SourceLister interface {
	Sources(ctx context.Context) ([]model.DataSource, error)
}

// Importer stores an uploaded CSV file.
type Importer interface {
	Import(ctx context.Context, name string, body io.Reader) (speeddata.ImportResult, error)
}

// NewDashboardHandler serves GET /api/dashboard.
func NewDashboardHandler(roads RoadLister, view coredash.SeriesView, dir coredash.NameLookup, th model.Thresholds) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids, err := roads.AllKnownRoadIDs(r.Context())
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		avgs, err := coredash.CacheAverages(r.Context(), view, dir, ids)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, coredash.Aggregate(avgs, th, coredash.DefaultTopN))
	})
}

// NewSourcesHandler serves GET /api/sources.
func NewSourcesHandler(src SourceLister) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		list, err := src.Sources(r.Context())
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if list == nil {
			list = []model.DataSource{}
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	})
}

// NewImportHandler serves POST /api/sources?name=<file>; the body is the CSV.
// Bodies larger than maxBytes are rejected when maxBytes is positive.
func NewImportHandler(im Importer, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			httputil.WriteError(w, r, fmt.Errorf("%w: name is required", httputil.ErrBadRequest))
			return
		}
		res, err := im.Import(r.Context(), name, r.Body)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, res)
	})
}
