package game

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playmatatu/lastone/internal/config"
	"github.com/redis/go-redis/v9"
)

// MatchEventsChannel is the Redis channel carrying match lifecycle events.
const MatchEventsChannel = "match_events"

// Broadcaster fans session events out to connected viewers.
type Broadcaster interface {
	BroadcastEvent(e Event)
}

// MatchManager owns every match hosted by this process
type MatchManager struct {
	matches  map[string]*Match // keyed by match ID
	rdb      *redis.Client     // optional, relays lifecycle events to other instances
	hub      Broadcaster
	config   *config.Config
	settings Settings
	ctx      context.Context
	mu       sync.RWMutex
}

var (
	// Global match manager instance
	Manager *MatchManager
)

// InitializeManager initializes the global match manager and its expiry job
func InitializeManager(ctx context.Context, rdb *redis.Client, cfg *config.Config, hub Broadcaster) {
	Manager = NewMatchManager(ctx, rdb, cfg, hub)
	go Manager.StartExpiryChecker(ctx)
}

// NewMatchManager creates a new match manager
func NewMatchManager(ctx context.Context, rdb *redis.Client, cfg *config.Config, hub Broadcaster) *MatchManager {
	return &MatchManager{
		matches:  make(map[string]*Match),
		rdb:      rdb,
		hub:      hub,
		config:   cfg,
		settings: SettingsFromConfig(cfg),
		ctx:      ctx,
	}
}

// Settings returns the defaults new matches are created with.
func (mm *MatchManager) Settings() Settings {
	return mm.settings
}

// CreateMatch registers a new idle match
func (mm *MatchManager) CreateMatch() *Match {
	m := NewMatch(mm.ctx, uuid.New().String(), mm.settings, mm.handleEvent)

	mm.mu.Lock()
	mm.matches[m.ID] = m
	mm.mu.Unlock()

	log.Printf("[MATCH] Created %s", m.ID)
	return m
}

// GetMatch retrieves a match by ID
func (mm *MatchManager) GetMatch(id string) (*Match, error) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	m, ok := mm.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// RemoveMatch tears down a match and forgets it
func (mm *MatchManager) RemoveMatch(id string) error {
	mm.mu.Lock()
	m, ok := mm.matches[id]
	delete(mm.matches, id)
	mm.mu.Unlock()

	if !ok {
		return ErrMatchNotFound
	}
	m.Reset()
	log.Printf("[MATCH] Removed %s", id)
	return nil
}

// ListMatches returns every match, oldest first
func (mm *MatchManager) ListMatches() []MatchSummary {
	mm.mu.RLock()
	matches := make([]*Match, 0, len(mm.matches))
	for _, m := range mm.matches {
		matches = append(matches, m)
	}
	mm.mu.RUnlock()

	out := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// GetActiveMatchCount returns the number of matches currently playing
func (mm *MatchManager) GetActiveMatchCount() int {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	n := 0
	for _, m := range mm.matches {
		if m.Phase() == PhasePlaying {
			n++
		}
	}
	return n
}

// handleEvent is the sink shared by every match.
func (mm *MatchManager) handleEvent(e Event) {
	if mm.hub != nil {
		mm.hub.BroadcastEvent(e)
	}
	if mm.rdb != nil && e.IsLifecycle() {
		go mm.publish(e)
	}
}

func (mm *MatchManager) publish(e Event) {
	b, err := json.Marshal(e)
	if err != nil {
		log.Printf("[REDIS] Failed to encode %s event for %s: %v", e.Type, e.MatchID, err)
		return
	}
	if n, err := mm.rdb.Publish(mm.ctx, MatchEventsChannel, b).Result(); err != nil {
		log.Printf("[REDIS] Publish %s failed: match=%s err=%v", e.Type, e.MatchID, err)
	} else {
		log.Printf("[REDIS] Published %s: match=%s subscribers=%d", e.Type, e.MatchID, n)
	}
}

// StartExpiryChecker runs a background job that removes abandoned matches
func (mm *MatchManager) StartExpiryChecker(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[EXPIRY] Expiry checker stopping")
			return
		case <-ticker.C:
			mm.checkExpiredMatches(time.Now())
		}
	}
}

// checkExpiredMatches removes matches that are not playing and have seen no
// activity for the configured idle period.
func (mm *MatchManager) checkExpiredMatches(now time.Time) int {
	minutes := 30
	if mm.config != nil && mm.config.MatchIdleExpiryMinutes > 0 {
		minutes = mm.config.MatchIdleExpiryMinutes
	}
	cutoff := now.Add(-time.Duration(minutes) * time.Minute)

	// Collect candidates under read lock
	mm.mu.RLock()
	var expired []string
	for id, m := range mm.matches {
		if m.Phase() != PhasePlaying && m.LastActivity().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	mm.mu.RUnlock()

	for _, id := range expired {
		if err := mm.RemoveMatch(id); err == nil {
			log.Printf("[EXPIRY] Match %s expired after %d idle minutes", id, minutes)
		}
	}
	return len(expired)
}
