// Package jobs defines prediction jobs and the Store contract used to persist
// them. Implementations backed by files and databases live in infra/jobstore.
package jobs

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/kilianp07/roadcast/core/model"
)

// ErrNotFound is returned when no job matches the requested id.
var ErrNotFound = errors.New("prediction job not found")

const (
	DefaultLimit = 20
	MaxLimit     = 500
)

// Job is one stored prediction run and its forecast.
type Job struct {
	ID            string                  `json:"id" db:"id"`
	RoadID        int                     `json:"road_id" db:"road_id"`
	SegmentName   string                  `json:"segment_name" db:"segment_name"`
	BaseTime      int64                   `json:"base_time" db:"base_time"`
	HorizonSteps  int                     `json:"horizon_steps" db:"horizon_steps"`
	PredictorType string                  `json:"predictor_type" db:"predictor_type"`
	CostMs        int64                   `json:"cost_ms" db:"cost_ms"`
	CreatedAt     time.Time               `json:"created_at" db:"created_at"`
	Points        []model.PredictionPoint `json:"points" db:"-"`
}

// Query selects jobs for listing. A nil RoadID matches every road.
type Query struct {
	RoadID *int
	Offset int
	Limit  int
}

// Normalize clamps offset and limit to usable values.
func (q Query) Normalize() Query {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// Matches reports whether j passes the road filter of q.
func (q Query) Matches(j Job) bool {
	return q.RoadID == nil || *q.RoadID == j.RoadID
}

// Store persists jobs.
type Store interface {
	Save(ctx context.Context, j Job) error
	Get(ctx context.Context, id string) (Job, error)
	// List returns the jobs matching q, newest first.
	List(ctx context.Context, q Query) ([]Job, error)
	Close() error
}

// NewestFirst orders jobs by creation time descending, then by id.
func NewestFirst(js []Job) {
	sort.SliceStable(js, func(i, k int) bool {
		if js[i].CreatedAt.Equal(js[k].CreatedAt) {
			return js[i].ID > js[k].ID
		}
		return js[i].CreatedAt.After(js[k].CreatedAt)
	})
}

// Page filters, orders and slices js according to q.
func Page(js []Job, q Query) []Job {
	q = q.Normalize()
	out := js[:0:0]
	for _, j := range js {
		if q.Matches(j) {
			out = append(out, j)
		}
	}
	NewestFirst(out)
	if q.Offset >= len(out) {
		return []Job{}
	}
	out = out[q.Offset:]
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
