package speeddata

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/roadcast/core/logger"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/monitoring"
)

// Loader builds the full series of one road from every discoverable file.
type Loader struct {
	dir     Dir
	cal     Calendar
	workers int
	log     logger.Logger
}

// NewLoader returns a Loader scanning up to workers files concurrently.
// workers <= 0 uses GOMAXPROCS.
func NewLoader(dir Dir, cal Calendar, workers int, log logger.Logger) *Loader {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Loader{dir: dir, cal: cal, workers: workers, log: log}
}

// Load returns the time-ordered series of roadID. An absent road yields an
// empty series and a nil error; only context cancellation is reported. Rows
// read before a file fails are kept.
func (l *Loader) Load(ctx context.Context, roadID int) (model.Series, error) {
	files, err := l.dir.files()
	if err != nil {
		l.log.Warnf("list %s: %v", l.dir.Path, err)
		monitoring.CaptureException(err, map[string]string{"module": "speeddata", "dir": l.dir.Path})
		return model.Series{}, nil
	}

	parts := make([]model.Series, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, f := range files {
		tag := l.cal.TagFor(f.Name)
		if !l.cal.Known(tag) {
			continue
		}
		g.Go(func() error {
			pts, err := l.loadFile(gctx, f, tag, roadID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				l.log.Warnf("read %s: %v", f.Path, err)
				monitoring.CaptureException(err, map[string]string{"module": "speeddata", "file": f.Name})
			}
			parts[i] = pts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make(model.Series, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	out.SortByTime()
	return out, nil
}

func (l *Loader) loadFile(ctx context.Context, f fileInfo, tag string, roadID int) (model.Series, error) {
	var pts model.Series
	err := eachRow(ctx, f.Path, func(line string) {
		r, ok := parseReading(line, roadID)
		if !ok {
			return
		}
		ts, ok := l.cal.Timestamp(tag, r.day, r.slot)
		if !ok {
			return
		}
		pts = append(pts, model.SpeedPoint{Timestamp: ts, Speed: r.speed})
	})
	return pts, err
}
