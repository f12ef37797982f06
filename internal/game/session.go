package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/playmatatu/lastone/internal/physics"
)

const targetRestitution = 1.0

// Target is the body standing for one participant entry.
type Target struct {
	Index       int // creation order, used as the tie-break between simultaneous hits
	Participant int // index into the session's participants
	Name        string
	Color       string
	Radius      float64
	Body        *physics.Body
	Destroyed   bool
}

// Session is one run of the simulation from start to teardown. It owns the
// physics world and every body in it; nothing outlives Stop.
type Session struct {
	settings     Settings
	survivorMode bool
	mapType      MapType
	rng          *rand.Rand
	sink         EventSink

	world        *physics.World
	participants []Participant
	targets      []*Target
	remaining    int
	obstacles    []*Obstacle
	balls        []*Ball
	nextBallID   int

	phase      Phase
	winner     string
	viewport   Viewport
	steps      int
	spawnClock float64 // simulated ms since the last timed spawn
	startedAt  time.Time
	finishedAt *time.Time

	destroyedThisStep []*Target
	eliminated        int
	pending           []Event

	started  bool
	closed   bool
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// NewSession lays out the arena for the given names and puts the first ball
// into play. The names are in input order; the draw order is shuffled here.
func NewSession(settings Settings, names []string, survivorMode bool, mapType MapType, sink EventSink) (*Session, error) {
	if len(names) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	if settings.MaxParticipants > 0 && len(names) > settings.MaxParticipants {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyParticipants, len(names), settings.MaxParticipants)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	layout, err := GenerateLayout(len(names), settings.Arena.Width, rng)
	if err != nil {
		return nil, err
	}
	obstacles, err := buildObstacles(mapType, settings.Arena, layout.Bottom()+fieldGap)
	if err != nil {
		return nil, err
	}

	s := &Session{
		settings:     settings,
		survivorMode: survivorMode,
		mapType:      mapType,
		rng:          rng,
		sink:         sink,
		world:        physics.NewWorld(gravity()),
		participants: NewParticipants(names),
		obstacles:    obstacles,
		phase:        PhasePlaying,
		startedAt:    time.Now(),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	s.world.MaxSpeed = maxBallSpeed
	s.world.MaxTravel = maxBallTravel
	s.world.Add(buildWalls(settings.Arena)...)

	for k, pi := range Shuffle(len(names), rng) {
		p := s.participants[pi]
		pos := layout.Positions[k]
		body := physics.NewCircle(pos.X, pos.Y, layout.Radius, physics.BodyOptions{
			Label:       p.Name,
			Static:      true,
			Restitution: targetRestitution,
		})
		t := &Target{Index: k, Participant: pi, Name: p.Name, Color: p.Color, Radius: layout.Radius, Body: body}
		body.Data = t
		s.targets = append(s.targets, t)
		s.world.Add(body)
	}
	s.remaining = len(s.targets)

	for _, o := range obstacles {
		s.world.Add(o.Body)
	}
	s.spawnBall()

	s.world.OnBeforeStep(s.beforeStep)
	s.world.OnCollisionStart(s.dispatchCollisions)
	s.viewport = TrackViewport(s.ballPositions(), settings.Arena, settings.ViewHeight)

	log.Printf("[SESSION] Started: %d targets, map=%s survivor=%v radius=%.0f", len(s.targets), mapType, survivorMode, layout.Radius)
	return s, nil
}

// Start runs the step loop on its own goroutine until the match finishes,
// ctx is cancelled or Stop is called.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.run(ctx)
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.settings.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-ticker.C:
			if !s.Step() {
				return
			}
		}
	}
}

// Stop halts the loop, waits for it to exit and releases the world. It is
// safe to call more than once and must not be called from an EventSink.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)

		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.done
		}

		s.mu.Lock()
		s.closed = true
		s.world.Clear()
		s.balls = nil
		s.obstacles = nil
		s.targets = nil
		s.pending = nil
		s.mu.Unlock()

		log.Printf("[SESSION] Stopped after %d steps", s.steps)
	})
}

// Step advances the simulation by one fixed step and reports whether the
// session is still playing. Events produced by the step are delivered after
// the session lock is released.
func (s *Session) Step() bool {
	s.mu.Lock()
	if s.closed || s.phase != PhasePlaying {
		s.mu.Unlock()
		return false
	}

	s.world.Step(physics.DefaultDelta)
	s.steps++
	s.containBalls()
	s.evaluateEliminations()
	s.viewport = TrackViewport(s.ballPositions(), s.settings.Arena, s.settings.ViewHeight)

	every := s.settings.SnapshotEvery
	if every <= 0 {
		every = 1
	}
	if s.phase != PhasePlaying || s.steps%every == 0 {
		snap := s.snapshotLocked()
		s.emit(EventSnapshot, &snap)
	}

	playing := s.phase == PhasePlaying
	events := s.drain()
	s.mu.Unlock()

	s.deliver(events)
	return playing
}

// beforeStep runs at the start of every world step, before integration.
func (s *Session) beforeStep(timestamp float64) {
	UpdateObstacles(s.obstacles, timestamp/1000)

	s.spawnClock += physics.DefaultDelta
	if interval := s.settings.spawnIntervalMs(); interval > 0 && s.spawnClock >= interval {
		s.spawnClock -= interval
		s.spawnTimedBall()
	}

	for _, b := range s.balls {
		b.recordTrail()
		if b.fallen(s.settings.Arena.Height) {
			b.relaunch(s.rng)
		}
	}
}

// containBalls respawns any ball pushed out of the arena, so no ball is
// ever lost and the camera only follows balls in play.
func (s *Session) containBalls() {
	for _, b := range s.balls {
		if b.escaped(s.settings.Arena) {
			log.Printf("[SESSION] Ball %d escaped at (%.0f, %.0f), respawning", b.ID, b.Body.Position.X, b.Body.Position.Y)
			b.respawn(s.settings.Arena, s.rng)
		}
	}
}

func (s *Session) spawnBall() *Ball {
	s.nextBallID++
	b := newBall(s.nextBallID, s.settings.Arena, s.rng)
	s.balls = append(s.balls, b)
	s.world.Add(b.Body)
	return b
}

// spawnTimedBall adds a ball while more than one target is left, up to the
// configured cap.
func (s *Session) spawnTimedBall() {
	if s.remaining <= 1 {
		return
	}
	if s.settings.MaxBalls > 0 && len(s.balls) >= s.settings.MaxBalls {
		return
	}
	b := s.spawnBall()
	s.burst(b.Body.Position, spawnBurstColor)
	s.emit(EventBallSpawned, BallSpawn{BallID: b.ID, X: b.Body.Position.X, Y: b.Body.Position.Y, Balls: len(s.balls)})
}

// evaluateEliminations decides the winner from the targets destroyed during
// the step that just ran. Simultaneous destructions are ordered by creation
// index.
func (s *Session) evaluateEliminations() {
	if len(s.destroyedThisStep) == 0 {
		return
	}
	batch := s.destroyedThisStep
	s.destroyedThisStep = nil
	sort.Slice(batch, func(i, j int) bool { return batch[i].Index < batch[j].Index })

	if s.phase != PhasePlaying {
		return
	}

	before := s.eliminated
	s.eliminated += len(batch)
	for i, t := range batch {
		// count as if the batch fell one target at a time, in tie-break order
		left := s.remaining + len(batch) - 1 - i
		log.Printf("[SESSION] Eliminated %q (%d left)", t.Name, left)
		s.emit(EventEliminated, Elimination{Name: t.Name, Color: t.Color, Target: t.Index, Remaining: left})
	}

	winner := ""
	switch {
	case !s.survivorMode && before == 0:
		winner = batch[0].Name
	case s.survivorMode && s.remaining == 1:
		for _, t := range s.targets {
			if !t.Destroyed {
				winner = t.Name
				break
			}
		}
	case s.remaining == 0:
		winner = batch[0].Name
	}
	if winner != "" {
		s.finish(winner)
	}
}

func (s *Session) finish(winner string) {
	if s.phase != PhasePlaying {
		return
	}
	now := time.Now()
	s.phase = PhaseFinished
	s.winner = winner
	s.finishedAt = &now
	log.Printf("[SESSION] Winner: %q after %.1fs", winner, s.world.Timestamp()/1000)
	s.emit(EventFinished, Finish{Winner: winner, SurvivorMode: s.survivorMode})
}

func (s *Session) burst(p physics.Vec2, color string) {
	s.emit(EventBurst, Burst{X: p.X, Y: p.Y, Color: color})
}

func (s *Session) emit(t EventType, data any) {
	s.pending = append(s.pending, Event{Type: t, Data: data})
}

func (s *Session) drain() []Event {
	events := s.pending
	s.pending = nil
	return events
}

func (s *Session) deliver(events []Event) {
	if s.sink == nil {
		return
	}
	for _, e := range events {
		s.sink(e)
	}
}

func (s *Session) ballPositions() []physics.Vec2 {
	out := make([]physics.Vec2, len(s.balls))
	for i, b := range s.balls {
		out[i] = b.Body.Position
	}
	return out
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Winner returns the winner's name, or "" while undecided.
func (s *Session) Winner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner
}
