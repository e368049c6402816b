package monitoring

import (
	"testing"

	"github.com/kilianp07/roadcast/config"
	coremon "github.com/kilianp07/roadcast/core/monitoring"
)

func TestNewSentryMonitorWithoutDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(coremon.NopMonitor); !ok {
		t.Fatalf("expected NopMonitor, got %T", m)
	}
}

func TestNewSentryMonitorRejectsSampleRate(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "https://key@example.com/1", TracesSampleRate: 2})
	if err == nil {
		t.Fatalf("expected sample rate error")
	}
}
