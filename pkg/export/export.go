// Package export writes prediction results for the command line.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/roadcast/core/jobs"
)

// WriteJSON writes the job to w in JSON format.
func WriteJSON(w io.Writer, j jobs.Job) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(j)
}

// WriteCSV writes one row per forecast step of j to w.
func WriteCSV(w io.Writer, j jobs.Job) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"road_id", "timestamp", "time", "predicted_speed", "congestion_level"}); err != nil {
		return err
	}
	road := strconv.Itoa(j.RoadID)
	for _, p := range j.Points {
		rec := []string{
			road,
			strconv.FormatInt(p.Timestamp, 10),
			time.UnixMilli(p.Timestamp).UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.PredictedSpeed, 'f', -1, 64),
			p.Level.String(),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
