package monitoring

import (
	"errors"
	"testing"
	"time"
)

type countMonitor struct{ n int }

func (c *countMonitor) CaptureException(error, map[string]string) { c.n++ }
func (c *countMonitor) Recover()                                  {}
func (c *countMonitor) Flush(time.Duration)                       {}

func TestCaptureException(t *testing.T) {
	m := &countMonitor{}
	Init(m)
	defer Init(NopMonitor{})

	CaptureException(errors.New("disk"), nil)
	CaptureException(nil, nil)
	Init(nil)
	CaptureException(errors.New("still installed"), nil)
	if m.n != 2 {
		t.Fatalf("expected 2 captures, got %d", m.n)
	}
}
