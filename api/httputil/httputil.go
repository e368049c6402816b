// Package httputil holds the JSON encoding, error mapping and middleware
// shared by the API handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/roadcast/core/forecast"
	"github.com/kilianp07/roadcast/core/jobs"
	"github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/core/monitoring"
	"github.com/kilianp07/roadcast/core/prediction"
	"github.com/kilianp07/roadcast/core/speeddata"
)

// ErrBadRequest marks malformed client input.
var ErrBadRequest = errors.New("bad request")

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusClientClosedRequest is reported when the client went away before the
// response was ready.
const StatusClientClosedRequest = 499

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, forecast.ErrSegmentNotFound), errors.Is(err, jobs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, forecast.ErrNoData), errors.Is(err, forecast.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest), errors.Is(err, prediction.ErrInvalidHorizon),
		errors.Is(err, speeddata.ErrNotIngestible):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as JSON. Server errors are reported to the monitor,
// except cancellations and deadlines.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && !isContextErr(err) {
		monitoring.CaptureException(err, map[string]string{"module": "api", "path": r.URL.Path})
	}
	WriteJSON(w, status, ErrorBody{Error: err.Error()})
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IntParam parses an optional integer query parameter.
func IntParam(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, errors.Join(ErrBadRequest, errors.New("invalid "+name+": "+s))
	}
	return &v, nil
}

// RoadID parses the {id} path value.
func RoadID(r *http.Request) (int, error) {
	s := r.PathValue("id")
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Join(ErrBadRequest, errors.New("invalid road id: "+s))
	}
	return id, nil
}

// BearerAuth rejects requests without "Authorization: Bearer <token>". An
// empty token disables the check.
func BearerAuth(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			WriteJSON(w, http.StatusUnauthorized, ErrorBody{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Instrument reports each request served by next to rec under route.
func Instrument(rec metrics.RequestRecorder, route string, next http.Handler) http.Handler {
	if rec == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		_ = rec.RecordRequest(metrics.RequestRecord{
			Route:    route,
			Method:   r.Method,
			Status:   sr.status,
			Duration: time.Since(start),
			Time:     start,
		})
	})
}
