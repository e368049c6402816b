// Package api assembles the HTTP surface of the service.
package api

import (
	"net/http"

	"github.com/kilianp07/roadcast/api/dashboard"
	"github.com/kilianp07/roadcast/api/httputil"
	"github.com/kilianp07/roadcast/api/predictions"
	"github.com/kilianp07/roadcast/api/roads"
	coredash "github.com/kilianp07/roadcast/core/dashboard"
	"github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/core/model"
	coreroads "github.com/kilianp07/roadcast/core/roads"
)

// Cache is what the road and dashboard handlers need from the road cache.
type Cache interface {
	roads.Cache
	coredash.SeriesView
}

// Deps are the collaborators served by the router. Importer and Metrics are
// optional.
type Deps struct {
	Cache      Cache
	Directory  coreroads.Directory
	Sources    dashboard.SourceLister
	Importer   dashboard.Importer
	Forecast   predictions.Service
	Thresholds model.Thresholds
	Metrics    metrics.RequestRecorder
	Token      string

	// MaxUploadBytes bounds import bodies; zero disables the limit.
	MaxUploadBytes int64
}

// NewRouter registers every route on a new ServeMux.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern, route string, h http.Handler) {
		mux.Handle(pattern, httputil.Instrument(d.Metrics, route, httputil.BearerAuth(d.Token, h)))
	}
	handle("GET /api/roads", "/api/roads", roads.NewListHandler(d.Cache, d.Directory))
	handle("GET /api/roads/{id}/speeds", "/api/roads/{id}/speeds", roads.NewSpeedsHandler(d.Cache, d.Directory))
	handle("GET /api/roads/{id}/speeds/recent", "/api/roads/{id}/speeds/recent", roads.NewRecentHandler(d.Cache, d.Directory))
	handle("POST /api/predictions", "/api/predictions", predictions.NewCreateHandler(d.Forecast))
	handle("GET /api/predictions", "/api/predictions", predictions.NewListHandler(d.Forecast))
	handle("GET /api/predictions/{id}", "/api/predictions/{id}", predictions.NewGetHandler(d.Forecast))
	handle("GET /api/dashboard", "/api/dashboard", dashboard.NewDashboardHandler(d.Cache, d.Cache, d.Directory, d.Thresholds))
	handle("GET /api/sources", "/api/sources", dashboard.NewSourcesHandler(d.Sources))
	if d.Importer != nil {
		handle("POST /api/sources", "/api/sources", dashboard.NewImportHandler(d.Importer, d.MaxUploadBytes))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}
