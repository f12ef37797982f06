package game

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastSettings() Settings {
	s := DefaultSettings()
	s.TickHz = 1000
	s.Seed = 9
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestMatchStartValidation(t *testing.T) {
	m := NewMatch(context.Background(), "m1", fastSettings(), nil)

	if err := m.Start([]string{"only"}, false, MapCat); !errors.Is(err, ErrNotEnoughParticipants) {
		t.Errorf("expected ErrNotEnoughParticipants, got %v", err)
	}
	if err := m.Start([]string{"a", "b"}, false, "maze"); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("expected ErrUnknownMap, got %v", err)
	}

	names := make([]string, 50)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	if err := m.Start(names, false, MapStar, WithView(200, 600)); !errors.Is(err, ErrLayoutExhausted) {
		t.Errorf("expected ErrLayoutExhausted, got %v", err)
	}

	if m.Phase() != PhaseIdle || m.current() != nil {
		t.Errorf("failed starts left the match in %s", m.Phase())
	}
}

func TestMatchLifecycle(t *testing.T) {
	var events []Event
	done := make(chan struct{}, 1)
	sink := func(e Event) {
		if e.Type == EventReset {
			events = append(events, e)
			done <- struct{}{}
		}
	}
	m := NewMatch(context.Background(), "m2", fastSettings(), sink)

	if err := m.Start([]string{"A", "B", "C", "D"}, true, "Octopus"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start([]string{"A", "B"}, true, MapCat); !errors.Is(err, ErrMatchInProgress) {
		t.Errorf("second Start: expected ErrMatchInProgress, got %v", err)
	}

	waitFor(t, "the loop to step", func() bool { return m.Snapshot().Step > 0 })

	snap := m.Snapshot()
	if snap.MatchID != "m2" || snap.Map != MapOctopus || !snap.SurvivorMode {
		t.Errorf("snapshot id=%q map=%q survivor=%v", snap.MatchID, snap.Map, snap.SurvivorMode)
	}

	m.Reset()
	<-done
	if m.Phase() != PhaseIdle {
		t.Errorf("phase after reset = %s, want idle", m.Phase())
	}
	if len(events) != 1 || events[0].MatchID != "m2" {
		t.Errorf("reset events = %+v", events)
	}

	if err := m.Start([]string{"A", "B"}, false, MapCat); err != nil {
		t.Errorf("Start after reset: %v", err)
	}
	m.Reset()
}

func TestMatchStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMatch(ctx, "m3", fastSettings(), nil)
	if err := m.Start([]string{"A", "B", "C"}, true, MapStar); err != nil {
		t.Fatal(err)
	}
	s := m.current()

	cancel()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("session loop ignored context cancellation")
	}
	m.Reset()
}

func TestIdleMatchSnapshot(t *testing.T) {
	m := NewMatch(context.Background(), "m4", DefaultSettings(), nil)
	snap := m.Snapshot()
	if snap.Phase != PhaseIdle || snap.Arena.Width != 700 || snap.Viewport.Max.Y != 600 {
		t.Errorf("idle snapshot = %+v", snap)
	}
	m.Reset()
}
