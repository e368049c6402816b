package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailable(t *testing.T) {
	got := Available()
	assert.Contains(t, got[KindPredictor], "baseline")
	assert.Equal(t, []string{"influx", "nop", "prometheus"}, got[KindMetricsSink])
	assert.Equal(t, []string{"jsonl", "memory", "postgres", "sqlite"}, got[KindJobStore])
}
