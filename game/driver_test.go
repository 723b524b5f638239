package game

import (
	"context"
	"testing"
	"time"

	"github.com/pthm-cable/lipidose/config"
)

func TestRunMaxTicks(t *testing.T) {
	g := newTestGame(t, 1, config.DefaultSettings())

	if err := Run(context.Background(), g, 0, 25); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := g.Stats().Time; got != 25 {
		t.Errorf("time = %d, want 25", got)
	}
	if g.State() != StateIdle {
		t.Errorf("state after Run = %s, want idle", g.State())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g := newTestGame(t, 1, config.DefaultSettings())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, g, time.Millisecond, 0) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if g.State() != StateIdle {
		t.Errorf("state = %s, want idle", g.State())
	}
}

func TestRunEndsWhenStoppedElsewhere(t *testing.T) {
	g := newTestGame(t, 1, config.DefaultSettings())

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), g, time.Millisecond, 0) }()

	// Wait for the loop to start ticking.
	deadline := time.Now().Add(2 * time.Second)
	for g.Stats().Time == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	g.Stop()
	stoppedAt := g.Stats().Time

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if got := g.Stats().Time; got != stoppedAt {
		t.Errorf("ticked after Stop returned: %d -> %d", stoppedAt, got)
	}
}

func TestRunRejectsRunningGame(t *testing.T) {
	g := newTestGame(t, 1, config.DefaultSettings())
	mustStart(t, g)
	if err := Run(context.Background(), g, 0, 1); err == nil {
		t.Error("Run on a running game should fail")
	}
}
