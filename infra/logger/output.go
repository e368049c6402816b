package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	outputMu sync.RWMutex
	output   io.Writer = os.Stdout
)

// FileOptions configures the rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// SetOutput redirects loggers created afterwards to w. A nil writer restores
// stdout.
func SetOutput(w io.Writer) {
	outputMu.Lock()
	defer outputMu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	output = w
}

func currentOutput() io.Writer {
	outputMu.RLock()
	defer outputMu.RUnlock()
	return output
}

// OpenRotatingFile returns a writer that rotates the file once it grows past
// MaxSizeMB megabytes.
func OpenRotatingFile(opts FileOptions) (io.WriteCloser, error) {
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}, nil
}

// UseFile sends every subsequent log line to both stdout and the rotating
// file. The returned closer releases the file.
func UseFile(opts FileOptions) (io.Closer, error) {
	f, err := OpenRotatingFile(opts)
	if err != nil {
		return nil, err
	}
	SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}
