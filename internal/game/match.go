package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Match is a long-lived lobby that runs one session at a time. It is idle
// whenever it has no session.
type Match struct {
	ID        string
	CreatedAt time.Time

	ctx          context.Context
	settings     Settings
	sink         EventSink
	session      *Session
	lastActivity time.Time
	mu           sync.Mutex
}

// MatchSummary is the listing view of a match.
type MatchSummary struct {
	ID           string    `json:"id"`
	Phase        Phase     `json:"phase"`
	Map          MapType   `json:"map,omitempty"`
	Total        int       `json:"total"`
	Remaining    int       `json:"remaining"`
	Winner       string    `json:"winner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// NewMatch creates an idle match. Sessions started on it stop when ctx is
// cancelled.
func NewMatch(ctx context.Context, id string, settings Settings, sink EventSink) *Match {
	now := time.Now()
	return &Match{
		ID:           id,
		CreatedAt:    now,
		ctx:          ctx,
		settings:     settings,
		sink:         sink,
		lastActivity: now,
	}
}

// Start validates the request and launches a new session. Nothing changes
// when it returns an error.
func (m *Match) Start(names []string, survivorMode bool, mapType MapType, opts ...StartOption) error {
	if len(names) < 2 {
		return ErrNotEnoughParticipants
	}
	mapType, err := ParseMapType(string(mapType))
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return ErrMatchInProgress
	}

	settings := m.settings
	for _, opt := range opts {
		opt(&settings)
	}

	s, err := NewSession(settings, names, survivorMode, mapType, m.forward)
	if err != nil {
		return fmt.Errorf("start match %s: %w", m.ID, err)
	}
	m.session = s
	m.lastActivity = time.Now()
	s.Start(m.ctx)

	log.Printf("[MATCH] %s started with %d participants on %s", m.ID, len(names), mapType)
	return nil
}

// Reset tears down the current session, if any, and returns to idle.
func (m *Match) Reset() {
	m.mu.Lock()
	s := m.session
	m.session = nil
	m.lastActivity = time.Now()
	m.mu.Unlock()

	if s == nil {
		return
	}
	s.Stop()
	m.forward(Event{Type: EventReset})
	log.Printf("[MATCH] %s reset", m.ID)
}

// forward stamps events with the match ID before handing them on.
func (m *Match) forward(e Event) {
	if m.sink == nil {
		return
	}
	e.MatchID = m.ID
	if snap, ok := e.Data.(*Snapshot); ok {
		snap.MatchID = m.ID
	}
	m.sink(e)
}

func (m *Match) current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Phase reports idle when no session exists.
func (m *Match) Phase() Phase {
	if s := m.current(); s != nil {
		return s.Phase()
	}
	return PhaseIdle
}

// Winner returns the current session's winner, if decided.
func (m *Match) Winner() string {
	if s := m.current(); s != nil {
		return s.Winner()
	}
	return ""
}

// Snapshot returns the presentation state. An idle match reports its arena
// and a camera at the top.
func (m *Match) Snapshot() Snapshot {
	if s := m.current(); s != nil {
		snap := s.Snapshot()
		snap.MatchID = m.ID
		return snap
	}
	return Snapshot{
		MatchID:    m.ID,
		Phase:      PhaseIdle,
		Arena:      m.settings.Arena,
		ViewHeight: m.settings.ViewHeight,
		Viewport:   TrackViewport(nil, m.settings.Arena, m.settings.ViewHeight),
	}
}

// Summary returns the listing view.
func (m *Match) Summary() MatchSummary {
	snap := m.Snapshot()
	return MatchSummary{
		ID:           m.ID,
		Phase:        snap.Phase,
		Map:          snap.Map,
		Total:        snap.Total,
		Remaining:    snap.Remaining,
		Winner:       snap.Winner,
		CreatedAt:    m.CreatedAt,
		LastActivity: m.LastActivity(),
	}
}

// Touch records viewer activity so the match is not expired.
func (m *Match) Touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

func (m *Match) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}
