package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/roadcast/core/forecast"
	"github.com/kilianp07/roadcast/core/jobs"
	"github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/core/monitoring"
	"github.com/kilianp07/roadcast/core/prediction"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", forecast.ErrSegmentNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", jobs.ErrNotFound), http.StatusNotFound},
		{forecast.ErrNoData, http.StatusUnprocessableEntity},
		{forecast.ErrInsufficientHistory, http.StatusUnprocessableEntity},
		{prediction.ErrInvalidHorizon, http.StatusBadRequest},
		{ErrBadRequest, http.StatusBadRequest},
		{fmt.Errorf("disk"), http.StatusInternalServerError},
		{fmt.Errorf("load: %w", context.Canceled), StatusClientClosedRequest},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{fmt.Errorf("import: %w", &http.MaxBytesError{Limit: 16}), http.StatusRequestEntityTooLarge},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), c.err.Error())
	}
}

type captureMonitor struct {
	mu   sync.Mutex
	errs []error
}

func (m *captureMonitor) CaptureException(err error, _ map[string]string) {
	m.mu.Lock()
	m.errs = append(m.errs, err)
	m.mu.Unlock()
}
func (m *captureMonitor) Recover()              {}
func (m *captureMonitor) Flush(_ time.Duration) {}

func TestWriteErrorSkipsContextErrors(t *testing.T) {
	mon := &captureMonitor{}
	monitoring.Init(mon)
	defer monitoring.Init(monitoring.NopMonitor{})

	for _, err := range []error{context.Canceled, fmt.Errorf("x: %w", context.DeadlineExceeded)} {
		rr := httptest.NewRecorder()
		WriteError(rr, httptest.NewRequest(http.MethodGet, "/api/roads", nil), err)
		assert.Equal(t, StatusFor(err), rr.Code)
	}
	assert.Empty(t, mon.errs)

	disk := errors.New("disk")
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodGet, "/api/roads", nil), disk)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Len(t, mon.errs, 1)
	assert.Equal(t, disk, mon.errs[0])
}

func TestBearerAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := BearerAuth("tok", ok)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	BearerAuth("", ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

type requestSink struct {
	mu   sync.Mutex
	recs []metrics.RequestRecord
}

func (s *requestSink) RecordRequest(r metrics.RequestRecord) error {
	s.mu.Lock()
	s.recs = append(s.recs, r)
	s.mu.Unlock()
	return nil
}

func TestInstrument(t *testing.T) {
	sink := &requestSink{}
	h := Instrument(sink, "/api/x", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/x", nil))
	require.Len(t, sink.recs, 1)
	assert.Equal(t, "/api/x", sink.recs[0].Route)
	assert.Equal(t, http.MethodPost, sink.recs[0].Method)
	assert.Equal(t, http.StatusTeapot, sink.recs[0].Status)
}

func TestIntParam(t *testing.T) {
	v, err := IntParam(httptest.NewRequest(http.MethodGet, "/?from=12", nil), "from")
	require.NoError(t, err)
	assert.Equal(t, int64(12), *v)

	v, err = IntParam(httptest.NewRequest(http.MethodGet, "/", nil), "from")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = IntParam(httptest.NewRequest(http.MethodGet, "/?from=abc", nil), "from")
	assert.ErrorIs(t, err, ErrBadRequest)
}
