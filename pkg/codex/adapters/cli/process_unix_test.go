//go:build unix

package cli

import (
	"testing"
	"time"
)

func TestTerminateReportsSignal(t *testing.T) {
	_, p := spawnFake(t, nil)

	if err := p.Terminate(); err != nil {
		t.Fatalf("Expected terminate to succeed, got %v", err)
	}

	select {
	case <-p.done:
	case <-time.After(10 * time.Second):
		t.Fatal("Expected process to exit after SIGTERM")
	}

	status := p.Wait()
	if status.Signal != "SIGTERM" {
		t.Errorf("Expected SIGTERM, got %q (code %d)", status.Signal, status.Code)
	}
	if status.String() != "code=unknown, signal=SIGTERM" {
		t.Errorf("Unexpected status %q", status.String())
	}

	if err := p.Terminate(); err != nil {
		t.Errorf("Expected terminate after exit to be a no-op, got %v", err)
	}
}
