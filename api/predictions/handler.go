// Package predictions exposes prediction jobs over HTTP.
package predictions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/roadcast/api/httputil"
	"github.com/kilianp07/roadcast/core/forecast"
	"github.com/kilianp07/roadcast/core/jobs"
)

// Service is the part of forecast.Service the handlers use.
type Service interface {
	Predict(ctx context.Context, req forecast.Request) (jobs.Job, error)
	Job(ctx context.Context, id string) (jobs.Job, error)
	Jobs(ctx context.Context, q jobs.Query) ([]jobs.Job, error)
}

// NewCreateHandler serves POST /api/predictions with a forecast.Request body.
// The stored job is returned with 201.
func NewCreateHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req forecast.Request
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			httputil.WriteError(w, r, errors.Join(httputil.ErrBadRequest, err))
			return
		}
		job, err := svc.Predict(r.Context(), req)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, job)
	})
}

// NewGetHandler serves GET /api/predictions/{id}.
func NewGetHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		job, err := svc.Job(r.Context(), r.PathValue("id"))
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, job)
	})
}

// NewListHandler serves GET /api/predictions?road_id&offset&limit, newest first.
func NewListHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q jobs.Query
		road, err := httputil.IntParam(r, "road_id")
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if road != nil {
			id := int(*road)
			q.RoadID = &id
		}
		offset, err := httputil.IntParam(r, "offset")
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if offset != nil {
			q.Offset = int(*offset)
		}
		limit, err := httputil.IntParam(r, "limit")
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if limit != nil {
			q.Limit = int(*limit)
		}
		list, err := svc.Jobs(r.Context(), q)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if list == nil {
			list = []jobs.Job{}
		}
		httputil.WriteJSON(w, http.StatusOK, list)
	})
}
