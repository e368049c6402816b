package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("road_id,day_id,time_id,speed\n")
	for slot := 1; slot <= 8; slot++ {
		fmt.Fprintf(&b, "5,1,%d,30\n", slot)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "speeddata_Aug.csv"), []byte(b.String()), 0o644))
	cfgFile := filepath.Join(dir, "config.yaml")
	conf := fmt.Sprintf("data:\n  dir: %q\nroads:\n  path: \"\"\nlogging:\n  level: \"error\"\n", dir)
	require.NoError(t, os.WriteFile(cfgFile, []byte(conf), 0o644))
	return cfgFile
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestPredictCSV(t *testing.T) {
	cfgFile := writeFixture(t)
	out := execute(t, "--config", cfgFile, "predict", "--road", "5", "--steps", "2", "--format", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "5,"))
}

func TestSourcesAndRoads(t *testing.T) {
	cfgFile := writeFixture(t)
	out := execute(t, "--config", cfgFile, "sources")
	assert.Contains(t, out, "speeddata_Aug.csv")
	assert.Contains(t, out, "Aug")

	out = execute(t, "--config", cfgFile, "roads")
	assert.Contains(t, out, "Road #5")

	out = execute(t, "--config", cfgFile, "dashboard")
	assert.Contains(t, out, `"global_average_speed": 30`)
}

func TestPlugins(t *testing.T) {
	out := execute(t, "--config", writeFixture(t), "plugins")
	assert.Contains(t, out, "job_store: [jsonl memory postgres sqlite]")
}
