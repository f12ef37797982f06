package game

import (
	"time"

	"github.com/playmatatu/lastone/internal/physics"
)

// BodyState is the read-only view of a target or obstacle.
type BodyState struct {
	ID       int               `json:"id"`
	Kind     string            `json:"kind"`
	Shape    physics.ShapeKind `json:"shape"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Angle    float64           `json:"angle"`
	Radius   float64           `json:"radius"`
	Vertices []physics.Vec2    `json:"vertices,omitempty"`
	Color    string            `json:"color"`
	Opacity  float64           `json:"opacity"`
	Solid    bool              `json:"solid"`
	Name     string            `json:"name,omitempty"`
}

// BallState is the read-only view of a ball and its trail.
type BallState struct {
	ID    int            `json:"id"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	VX    float64        `json:"vx"`
	VY    float64        `json:"vy"`
	Trail []physics.Vec2 `json:"trail"`
}

// Snapshot is a copy of the presentation state. It shares nothing with the
// running session.
type Snapshot struct {
	MatchID        string        `json:"match_id,omitempty"`
	Phase          Phase         `json:"phase"`
	SurvivorMode   bool          `json:"survivor_mode"`
	Map            MapType       `json:"map,omitempty"`
	Winner         string        `json:"winner,omitempty"`
	Arena          Arena         `json:"arena"`
	ViewHeight     float64       `json:"view_height"`
	Viewport       Viewport      `json:"viewport"`
	Participants   []Participant `json:"participants"`
	Total          int           `json:"total"`
	Remaining      int           `json:"remaining"`
	Targets        []BodyState   `json:"targets,omitempty"`
	Obstacles      []BodyState   `json:"obstacles,omitempty"`
	Balls          []BallState   `json:"balls,omitempty"`
	Step           int           `json:"step"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	FinishedAt     *time.Time    `json:"finished_at,omitempty"`
}

func bodyState(kind string, b *physics.Body, color string) BodyState {
	return BodyState{
		ID:       b.ID,
		Kind:     kind,
		Shape:    b.Shape,
		X:        b.Position.X,
		Y:        b.Position.Y,
		Angle:    b.Angle,
		Radius:   b.Radius,
		Vertices: b.Vertices(),
		Color:    color,
		Opacity:  b.Opacity,
		Solid:    b.Filter.Mask != physics.MaskNone && !b.Sensor,
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	started := s.startedAt
	snap := Snapshot{
		Phase:          s.phase,
		SurvivorMode:   s.survivorMode,
		Map:            s.mapType,
		Winner:         s.winner,
		Arena:          s.settings.Arena,
		ViewHeight:     s.settings.ViewHeight,
		Viewport:       s.viewport,
		Participants:   append([]Participant(nil), s.participants...),
		Total:          len(s.participants),
		Remaining:      s.remaining,
		Step:           s.steps,
		ElapsedSeconds: s.world.Timestamp() / 1000,
		StartedAt:      &started,
	}
	if s.finishedAt != nil {
		finished := *s.finishedAt
		snap.FinishedAt = &finished
	}

	for _, t := range s.targets {
		if t.Destroyed {
			continue
		}
		bs := bodyState("target", t.Body, t.Color)
		bs.Name = t.Name
		snap.Targets = append(snap.Targets, bs)
	}
	for _, o := range s.obstacles {
		if o.Destroyed {
			continue
		}
		kind := "obstacle"
		switch {
		case o.Booster != nil:
			kind = "booster"
		case o.Breakable:
			kind = "breakable"
		case o.Spinner != nil:
			kind = "spinner"
		case o.Bumper:
			kind = "bumper"
		}
		snap.Obstacles = append(snap.Obstacles, bodyState(kind, o.Body, o.Color))
	}
	for _, b := range s.balls {
		snap.Balls = append(snap.Balls, BallState{
			ID:    b.ID,
			X:     b.Body.Position.X,
			Y:     b.Body.Position.Y,
			VX:    b.Body.Velocity.X,
			VY:    b.Body.Velocity.Y,
			Trail: append([]physics.Vec2(nil), b.Trail...),
		})
	}
	return snap
}
