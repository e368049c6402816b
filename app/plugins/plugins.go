// Package plugins reports the module types that can be named in the
// configuration. Importing it also registers the infrastructure modules.
package plugins

import (
	coremetrics "github.com/kilianp07/roadcast/core/metrics"
	"github.com/kilianp07/roadcast/core/prediction"
	"github.com/kilianp07/roadcast/infra/jobstore"
	_ "github.com/kilianp07/roadcast/infra/metrics"
)

// Kind groups registered module types.
type Kind string

const (
	KindPredictor   Kind = "predictor"
	KindMetricsSink Kind = "metrics_sink"
	KindJobStore    Kind = "job_store"
)

// Available returns the registered type names per kind, each sorted.
func Available() map[Kind][]string {
	return map[Kind][]string{
		KindPredictor:   prediction.Registry.Names(),
		KindMetricsSink: coremetrics.SinkNames(),
		KindJobStore:    jobstore.Backends(),
	}
}
