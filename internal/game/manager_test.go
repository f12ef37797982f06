package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playmatatu/lastone/internal/config"
)

type fakeHub struct {
	mu     sync.Mutex
	events []Event
}

func (h *fakeHub) BroadcastEvent(e Event) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *fakeHub) count(t EventType) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestManagerCreateGetRemove(t *testing.T) {
	hub := &fakeHub{}
	mm := NewMatchManager(context.Background(), nil, &config.Config{TickHz: 500}, hub)

	m := mm.CreateMatch()
	got, err := mm.GetMatch(m.ID)
	if err != nil || got != m {
		t.Fatalf("GetMatch(%s) = %v, %v", m.ID, got, err)
	}
	if len(mm.ListMatches()) != 1 {
		t.Errorf("ListMatches has %d entries", len(mm.ListMatches()))
	}

	if err := m.Start([]string{"A", "B", "C"}, false, MapCat); err != nil {
		t.Fatal(err)
	}
	if mm.GetActiveMatchCount() != 1 {
		t.Errorf("active matches = %d, want 1", mm.GetActiveMatchCount())
	}
	waitFor(t, "a snapshot broadcast", func() bool { return hub.count(EventSnapshot) > 0 })

	if err := mm.RemoveMatch(m.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := mm.GetMatch(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("removed match still found: %v", err)
	}
	if err := mm.RemoveMatch(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("second remove: %v", err)
	}
	if hub.count(EventReset) != 1 {
		t.Errorf("reset broadcasts = %d, want 1", hub.count(EventReset))
	}
}

func TestManagerExpiresIdleMatches(t *testing.T) {
	mm := NewMatchManager(context.Background(), nil, &config.Config{MatchIdleExpiryMinutes: 5}, nil)
	stale := mm.CreateMatch()
	fresh := mm.CreateMatch()

	stale.mu.Lock()
	stale.lastActivity = time.Now().Add(-10 * time.Minute)
	stale.mu.Unlock()

	if n := mm.checkExpiredMatches(time.Now()); n != 1 {
		t.Errorf("expired %d matches, want 1", n)
	}
	if _, err := mm.GetMatch(stale.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Error("stale match survived expiry")
	}
	if _, err := mm.GetMatch(fresh.ID); err != nil {
		t.Error("fresh match was expired")
	}
}

func TestSettingsFromConfig(t *testing.T) {
	s := SettingsFromConfig(&config.Config{ArenaWidth: 900, BallSpawnSeconds: 5, MaxBalls: 4})
	if s.Arena.Width != 900 || s.Arena.Height != 1500 {
		t.Errorf("arena = %+v", s.Arena)
	}
	if s.SpawnInterval != 5*time.Second || s.MaxBalls != 4 {
		t.Errorf("spawn=%v maxBalls=%d", s.SpawnInterval, s.MaxBalls)
	}
	if s.spawnIntervalMs() != 5000 {
		t.Errorf("spawnIntervalMs = %v", s.spawnIntervalMs())
	}
}
