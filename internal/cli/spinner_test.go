package cli

import (
	"context"
	"testing"
)

func TestSpinner_StopTerminates(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "working")
	s.Start()
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after a normal Stop")
	}

	// A second Stop must not panic or block.
	s.Stop()
}

func TestSpinner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "working")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after the surrounding context was cancelled")
	}
}
