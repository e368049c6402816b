package speeddata

import (
	"context"
	"fmt"
	"io"

	"github.com/kilianp07/roadcast/core/logger"
)

// Invalidator drops derived state after the data directory changed.
type Invalidator interface {
	Clear()
}

// RoadRegistrar records road ids discovered in an imported file.
type RoadRegistrar interface {
	EnsureRoad(roadID int)
}

// ImportResult summarises an imported file.
type ImportResult struct {
	Filename  string `json:"filename"`
	Month     string `json:"month"`
	RoadCount int    `json:"total_roads"`
	DayCount  int    `json:"total_days"`
	TotalRows int    `json:"total_rows"`
}

// Importer copies CSV files into the data directory and refreshes dependents.
type Importer struct {
	dir       Dir
	scanner   *Scanner
	cache     Invalidator
	registrar RoadRegistrar
	log       logger.Logger
}

// NewImporter wires an Importer. cache and registrar may be nil.
func NewImporter(dir Dir, scanner *Scanner, cache Invalidator, registrar RoadRegistrar, log logger.Logger) *Importer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Importer{dir: dir, scanner: scanner, cache: cache, registrar: registrar, log: log}
}

// Import stores the file and returns its descriptor. The expected row count is
// roads × days × SlotsPerDay, the size of a complete file.
func (im *Importer) Import(ctx context.Context, name string, r io.Reader) (ImportResult, error) {
	if _, err := im.dir.Write(name, r); err != nil {
		return ImportResult{}, fmt.Errorf("import %s: %w", name, err)
	}
	im.scanner.Invalidate()
	if im.cache != nil {
		im.cache.Clear()
	}
	src, ok, err := im.scanner.Source(ctx, name)
	if err != nil {
		return ImportResult{}, err
	}
	if !ok {
		return ImportResult{}, fmt.Errorf("import %s: file not readable after write", name)
	}
	if im.registrar != nil {
		ids, _, err := im.scanner.FileRoadIDs(ctx, src.Filename)
		if err != nil {
			return ImportResult{}, err
		}
		for _, id := range ids {
			im.registrar.EnsureRoad(id)
		}
	}
	res := ImportResult{
		Filename:  src.Filename,
		Month:     src.Month,
		RoadCount: src.RoadCount,
		DayCount:  src.DayCount,
		TotalRows: src.RoadCount * src.DayCount * SlotsPerDay,
	}
	im.log.Infof("imported %s: %d roads, %d days", res.Filename, res.RoadCount, res.DayCount)
	return res, nil
}
