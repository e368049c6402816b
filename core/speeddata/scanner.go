package speeddata

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kilianp07/roadcast/core/logger"
	"github.com/kilianp07/roadcast/core/model"
	"github.com/kilianp07/roadcast/core/monitoring"
)

type fileKey struct {
	name    string
	size    int64
	modTime int64
}

type fileSummary struct {
	roads map[int]struct{}
	days  map[int]struct{}
}

// Scanner lists data sources and the road ids they contain. Per-file summaries
// are memoised and reused while a file's size and modification time are unchanged.
type Scanner struct {
	dir Dir
	cal Calendar
	log logger.Logger

	mu   sync.Mutex
	memo map[fileKey]fileSummary
}

// NewScanner creates a Scanner for dir. A nil logger disables logging.
func NewScanner(dir Dir, cal Calendar, log logger.Logger) *Scanner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scanner{dir: dir, cal: cal, log: log, memo: map[fileKey]fileSummary{}}
}

// Invalidate forgets every memoised file summary.
func (s *Scanner) Invalidate() {
	s.mu.Lock()
	s.memo = map[fileKey]fileSummary{}
	s.mu.Unlock()
}

// Sources returns one descriptor per discoverable file, sorted by file name.
func (s *Scanner) Sources(ctx context.Context) ([]model.DataSource, error) {
	files, err := s.listFiles()
	if err != nil {
		return []model.DataSource{}, nil
	}
	out := make([]model.DataSource, 0, len(files))
	for _, f := range files {
		sum, err := s.summary(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		out = append(out, model.DataSource{
			Filename:  f.Name,
			Month:     s.cal.TagFor(f.Name),
			RoadCount: len(sum.roads),
			DayCount:  len(sum.days),
		})
	}
	return out, nil
}

// Source returns the descriptor of a single file.
func (s *Scanner) Source(ctx context.Context, name string) (model.DataSource, bool, error) {
	sources, err := s.Sources(ctx)
	if err != nil {
		return model.DataSource{}, false, err
	}
	for _, src := range sources {
		if src.Filename == name {
			return src, true, nil
		}
	}
	return model.DataSource{}, false, nil
}

// RoadIDs returns the sorted union of road ids across every discoverable file.
func (s *Scanner) RoadIDs(ctx context.Context) ([]int, error) {
	files, err := s.listFiles()
	if err != nil {
		return []int{}, nil
	}
	seen := map[int]struct{}{}
	for _, f := range files {
		sum, err := s.summary(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		for id := range sum.roads {
			seen[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *Scanner) listFiles() ([]fileInfo, error) {
	files, err := s.dir.files()
	if err != nil {
		s.log.Warnf("list %s: %v", s.dir.Path, err)
		monitoring.CaptureException(err, map[string]string{"module": "speeddata", "dir": s.dir.Path})
		return nil, err
	}
	return files, nil
}

func (s *Scanner) summary(ctx context.Context, f fileInfo) (fileSummary, error) {
	key := fileKey{name: f.Name, size: f.Size, modTime: f.ModTime}
	s.mu.Lock()
	sum, ok := s.memo[key]
	s.mu.Unlock()
	if ok {
		return sum, nil
	}
	sum = fileSummary{roads: map[int]struct{}{}, days: map[int]struct{}{}}
	err := eachRow(ctx, f.Path, func(line string) {
		fields := strings.SplitN(line, ",", 3)
		if id, ok := intField(fields, 0); ok {
			sum.roads[id] = struct{}{}
		}
		if day, ok := intField(fields, 1); ok {
			sum.days[day] = struct{}{}
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			return fileSummary{}, ctx.Err()
		}
		// Keep what was read but do not memoise a partial summary.
		s.log.Warnf("scan %s: %v", f.Path, err)
		monitoring.CaptureException(err, map[string]string{"module": "speeddata", "file": f.Name})
		return sum, nil
	}
	s.mu.Lock()
	for k := range s.memo {
		if k.name == f.Name {
			delete(s.memo, k)
		}
	}
	s.memo[key] = sum
	s.mu.Unlock()
	return sum, nil
}

// FileRoadIDs returns the sorted road ids of a single file; false when the
// file is not discoverable.
func (s *Scanner) FileRoadIDs(ctx context.Context, name string) ([]int, bool, error) {
	files, err := s.listFiles()
	if err != nil {
		return nil, false, nil
	}
	for _, f := range files {
		if f.Name != name {
			continue
		}
		sum, err := s.summary(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			return nil, false, nil
		}
		ids := make([]int, 0, len(sum.roads))
		for id := range sum.roads {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		return ids, true, nil
	}
	return nil, false, nil
}
