package game

// EventType names a notification published by a running session.
type EventType string

const (
	EventSnapshot    EventType = "snapshot"
	EventBurst       EventType = "burst"
	EventBallSpawned EventType = "ball_spawned"
	EventEliminated  EventType = "eliminated"
	EventFinished    EventType = "match_finished"
	EventReset       EventType = "match_reset"
)

// Event is delivered to an EventSink after the step that produced it.
type Event struct {
	Type    EventType `json:"type"`
	MatchID string    `json:"match_id,omitempty"`
	Data    any       `json:"data,omitempty"`
}

// EventSink receives session events. It runs on the simulation goroutine, so
// it must not block and must not call back into the match.
type EventSink func(Event)

// Burst is a cosmetic particle effect at a world position.
type Burst struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// BallSpawn announces a ball added by the spawn timer.
type BallSpawn struct {
	BallID int     `json:"ball_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Balls  int     `json:"balls"`
}

// Elimination announces a destroyed target.
type Elimination struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Target    int    `json:"target"`
	Remaining int    `json:"remaining"`
}

// Finish announces the winner.
type Finish struct {
	Winner       string `json:"winner"`
	SurvivorMode bool   `json:"survivor_mode"`
}

// IsLifecycle reports whether the event changes the match outcome rather
// than its presentation.
func (e Event) IsLifecycle() bool {
	switch e.Type {
	case EventEliminated, EventFinished, EventReset:
		return true
	}
	return false
}
