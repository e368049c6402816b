package prediction

import (
	"errors"
	"fmt"

	"github.com/kilianp07/roadcast/core/factory"
)

// Registry holds the predictor factories available to New.
var Registry = factory.NewRegistry[Predictor]()

func init() {
	Registry.MustRegister("baseline", newBaselineFromConf)
}

func newBaselineFromConf(conf map[string]any) (Predictor, error) {
	var b Baseline
	if err := factory.Decode(conf, &b); err != nil {
		return nil, fmt.Errorf("baseline config: %w", err)
	}
	b.SetDefaults()
	if err := b.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("baseline config: %w", err)
	}
	return b, nil
}

// New builds the predictor described by cfg. An empty type selects the baseline.
func New(cfg factory.ModuleConfig) (Predictor, error) {
	if cfg.Type == "" {
		cfg.Type = "baseline"
	}
	p, err := Registry.Create(cfg)
	if errors.Is(err, factory.ErrUnknownType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPredictor, cfg.Type)
	}
	return p, err
}
