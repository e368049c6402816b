// Package forecast runs predictions for a road: it resolves the segment,
// selects the history window from the road cache, calls the configured
// predictor and stores the result as a job.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/roadcast/core/events"
	"github.com/kilianp07/roadcast/core/jobs"
	"github.com/kilianp07/roadcast/core/logger"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/monitoring"
	"github.com/kilianp07/roadcast/core/prediction"
	"github.com/kilianp07/roadcast/core/roads"
	"github.com/kilianp07/roadcast/core/series"
	"github.com/kilianp07/roadcast/internal/eventbus"
)

var (
	// ErrSegmentNotFound is returned for a road with neither metadata nor data.
	ErrSegmentNotFound = errors.New("road segment not found")
	// ErrNoData is returned when no base time is given and the road has no reading.
	ErrNoData = errors.New("no data available for this road")
	// ErrInsufficientHistory is returned when the history window holds fewer
	// points than the configured window size.
	ErrInsufficientHistory = errors.New("not enough historical data for prediction")
)

// SeriesView is the part of the road cache the service reads from.
type SeriesView interface {
	FilteredView(ctx context.Context, roadID int, r series.Range, interpolate bool) (model.Series, error)
	RecentView(ctx context.Context, roadID int, limit int) (model.Series, error)
}

// Publisher announces stored jobs to external consumers.
type Publisher interface {
	PublishJob(ctx context.Context, j jobs.Job) error
}

// Request asks for HorizonSteps forecast points for a road. A nil BaseTime
// selects the timestamp of the most recent reading.
type Request struct {
	RoadID       int    `json:"road_id"`
	BaseTime     *int64 `json:"base_time,omitempty"`
	HorizonSteps int    `json:"horizon_steps"`
}

// Options wires a Service. Cache, Directory, Predictor and Store are required.
type Options struct {
	Cache      SeriesView
	Directory  roads.Directory
	Predictor  prediction.Predictor
	Store      jobs.Store
	Publisher  Publisher
	Bus        eventbus.EventBus
	Logger     logger.Logger
	WindowSize int
	Clock      func() time.Time
}

// Service runs and stores predictions.
type Service struct {
	cache     SeriesView
	dir       roads.Directory
	predictor prediction.Predictor
	store     jobs.Store
	pub       Publisher
	bus       eventbus.EventBus
	log       logger.Logger
	window    int
	now       func() time.Time
}

// NewService validates opts and returns a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Cache == nil || opts.Directory == nil || opts.Predictor == nil || opts.Store == nil {
		return nil, errors.New("forecast: cache, directory, predictor and store are required")
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = prediction.DefaultWindowSize
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	return &Service{
		cache:     opts.Cache,
		dir:       opts.Directory,
		predictor: opts.Predictor,
		store:     opts.Store,
		pub:       opts.Publisher,
		bus:       opts.Bus,
		log:       opts.Logger,
		window:    opts.WindowSize,
		now:       opts.Clock,
	}, nil
}

// Predict runs the predictor for req and stores the resulting job.
func (s *Service) Predict(ctx context.Context, req Request) (jobs.Job, error) {
	job, err := s.predict(ctx, req)
	if err != nil {
		s.publish(events.PredictionEvent{RoadID: req.RoadID, Predictor: s.predictor.Identifier(), Steps: req.HorizonSteps, Err: err})
		return jobs.Job{}, err
	}
	s.publish(events.PredictionEvent{
		JobID:     job.ID,
		RoadID:    job.RoadID,
		Predictor: job.PredictorType,
		Steps:     job.HorizonSteps,
		Cost:      time.Duration(job.CostMs) * time.Millisecond,
		Points:    job.Points,
	})
	return job, nil
}

func (s *Service) predict(ctx context.Context, req Request) (jobs.Job, error) {
	if req.HorizonSteps <= 0 {
		return jobs.Job{}, fmt.Errorf("%w: got %d", prediction.ErrInvalidHorizon, req.HorizonSteps)
	}
	seg, err := s.segment(ctx, req.RoadID)
	if err != nil {
		return jobs.Job{}, err
	}
	base, err := s.baseTime(ctx, req)
	if err != nil {
		return jobs.Job{}, err
	}

	from := base - int64(s.window)*model.SlotDuration
	hist, err := s.cache.FilteredView(ctx, req.RoadID, series.Between(from, base), false)
	if err != nil {
		return jobs.Job{}, err
	}
	if len(hist) < s.window {
		return jobs.Job{}, fmt.Errorf("%w: road %d has %d of %d points before %d",
			ErrInsufficientHistory, req.RoadID, len(hist), s.window, base)
	}

	start := time.Now()
	pts, err := s.predictor.Predict(ctx, prediction.Request{
		SegmentID:    strconv.Itoa(req.RoadID),
		BaseTime:     base,
		HorizonSteps: req.HorizonSteps,
		History:      hist,
	})
	if err != nil {
		return jobs.Job{}, err
	}
	cost := time.Since(start)

	job := jobs.Job{
		ID:            uuid.NewString(),
		RoadID:        req.RoadID,
		SegmentName:   seg.DisplayName(),
		BaseTime:      base,
		HorizonSteps:  req.HorizonSteps,
		PredictorType: s.predictor.Identifier(),
		CostMs:        cost.Milliseconds(),
		CreatedAt:     s.now().UTC(),
		Points:        pts,
	}
	if err := s.store.Save(ctx, job); err != nil {
		monitoring.CaptureException(err, map[string]string{"component": "forecast", "op": "save_job"})
		return jobs.Job{}, fmt.Errorf("save prediction job: %w", err)
	}
	s.log.Infof("prediction %s for road %d: %d steps in %dms", job.ID, job.RoadID, job.HorizonSteps, job.CostMs)

	if s.pub != nil {
		if err := s.pub.PublishJob(ctx, job); err != nil {
			s.log.Warnf("publish prediction %s: %v", job.ID, err)
		}
	}
	return job, nil
}

// segment resolves the road metadata. A road without metadata but with data is
// registered on the fly.
func (s *Service) segment(ctx context.Context, roadID int) (roads.Segment, error) {
	if seg, ok := s.dir.Lookup(roadID); ok {
		return seg, nil
	}
	recent, err := s.cache.RecentView(ctx, roadID, 1)
	if err != nil {
		return roads.Segment{}, err
	}
	if len(recent) == 0 {
		return roads.Segment{}, fmt.Errorf("%w: %d", ErrSegmentNotFound, roadID)
	}
	s.dir.EnsureRoad(roadID)
	return roads.Segment{RoadID: roadID}, nil
}

func (s *Service) baseTime(ctx context.Context, req Request) (int64, error) {
	if req.BaseTime != nil {
		return *req.BaseTime, nil
	}
	recent, err := s.cache.RecentView(ctx, req.RoadID, 1)
	if err != nil {
		return 0, err
	}
	if len(recent) == 0 {
		return 0, fmt.Errorf("%w: %d", ErrNoData, req.RoadID)
	}
	return recent[len(recent)-1].Timestamp, nil
}

// Job returns a stored job.
func (s *Service) Job(ctx context.Context, id string) (jobs.Job, error) {
	return s.store.Get(ctx, id)
}

// Jobs lists stored jobs, newest first.
func (s *Service) Jobs(ctx context.Context, q jobs.Query) ([]jobs.Job, error) {
	return s.store.List(ctx, q)
}

// Predictor returns the identifier of the configured predictor.
func (s *Service) Predictor() string { return s.predictor.Identifier() }

func (s *Service) publish(ev events.PredictionEvent) {
	if s.bus == nil {
		return
	}
	ev.Time = s.now()
	s.bus.Publish(ev)
}
