package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("roadcache", &buf)
	l.Warnf("evicted %d roads", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "roadcache", line["component"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "evicted 2 roads", line["message"])
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	require.NoError(t, SetLevel("warn"))
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("x", &buf)
	l.Infof("hidden")
	assert.Empty(t, buf.String())

	assert.NoError(t, SetLevel(""))
	assert.Error(t, SetLevel("loud"))
}

func TestUseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "roadcast.log")
	closer, err := UseFile(FileOptions{Path: path, MaxSizeMB: 1})
	require.NoError(t, err)
	defer SetOutput(nil)

	New("forecast").Infof("job %s stored", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "forecast", line["component"])
	assert.Equal(t, "job abc stored", line["message"])
}
