package game

import (
	"math"
	"testing"

	"github.com/playmatatu/lastone/internal/physics"
)

func TestBumperVelocity(t *testing.T) {
	bumper := physics.NewVec2(100, 100)

	right := BumperVelocity(physics.NewVec2(110, 90), physics.NewVec2(1, 6), bumper)
	if right.X != 4 || right.Y != -15 {
		t.Errorf("ball right of bumper: got %v, want (4, -15)", right)
	}

	left := BumperVelocity(physics.NewVec2(90, 90), physics.NewVec2(1, 6), bumper)
	if left.X != -2 || left.Y != -15 {
		t.Errorf("ball left of bumper: got %v, want (-2, -15)", left)
	}

	// dead centre counts as the left side
	centre := BumperVelocity(physics.NewVec2(100, 80), physics.Vec2{}, bumper)
	if centre.X != -3 {
		t.Errorf("ball centred on bumper: vx=%.1f, want -3", centre.X)
	}
}

func TestBoostVelocityClampsLift(t *testing.T) {
	v := BoostVelocity(physics.NewVec2(3, -4), 1.6)

	if math.Abs(v.X-4.8) > 1e-9 {
		t.Errorf("vx=%.4f, want 4.8", v.X)
	}
	if v.Y != boostMinLiftY {
		t.Errorf("vy=%.4f, want clamp %.0f", v.Y, boostMinLiftY)
	}

	// already strongly upwards: direction and speed are kept
	fast := BoostVelocity(physics.NewVec2(0, -10), 1.5)
	if math.Abs(fast.Y+15) > 1e-9 || math.Abs(fast.X) > 1e-9 {
		t.Errorf("fast upward ball boosted to %v, want (0, -15)", fast)
	}

	// falling balls are turned upwards
	down := BoostVelocity(physics.NewVec2(0, 8), 1.6)
	if down.Y != boostMinLiftY {
		t.Errorf("falling ball vy=%.2f, want %.0f", down.Y, boostMinLiftY)
	}
}

func obstacleWith(s *Session, match func(*Obstacle) bool) *Obstacle {
	for _, o := range s.obstacles {
		if match(o) {
			return o
		}
	}
	return nil
}

func dispatch(s *Session, a, b *physics.Body) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatchCollisions([]physics.Pair{{BodyA: a, BodyB: b}})
	return s.drain()
}

func TestDispatchBumperBoosterSpinner(t *testing.T) {
	s, _ := newTestSession(t, []string{"A", "B", "C"}, false)
	ball := s.balls[0]

	bumper := obstacleWith(s, func(o *Obstacle) bool { return o.Bumper })
	ball.Body.SetVelocity(physics.NewVec2(0, 5))
	events := dispatch(s, bumper.Body, ball.Body)
	if ball.Body.Velocity.Y != bumperLaunchY {
		t.Errorf("bumper hit: vy=%.1f, want %.0f", ball.Body.Velocity.Y, bumperLaunchY)
	}
	if len(events) != 1 || events[0].Type != EventBurst || events[0].Data.(Burst).Color != bumper.Color {
		t.Errorf("bumper hit events = %+v", events)
	}

	booster := obstacleWith(s, func(o *Obstacle) bool { return o.Booster != nil })
	ball.Body.SetVelocity(physics.NewVec2(3, -4))
	dispatch(s, ball.Body, booster.Body)
	if ball.Body.Velocity.Y != boostMinLiftY {
		t.Errorf("booster: vy=%.2f, want %.0f", ball.Body.Velocity.Y, boostMinLiftY)
	}

	spinner := obstacleWith(s, func(o *Obstacle) bool { return o.Spinner != nil })
	dispatch(s, spinner.Body, ball.Body)
	if spinner.Spinner.Speed != spinner.Spinner.MaxSpeed {
		t.Errorf("spinner speed %.3f, want max %.3f", spinner.Spinner.Speed, spinner.Spinner.MaxSpeed)
	}
}

func TestDispatchIgnoresPairsWithoutBall(t *testing.T) {
	s, _ := newTestSession(t, []string{"A", "B", "C"}, false)
	bumper := obstacleWith(s, func(o *Obstacle) bool { return o.Bumper })
	target := s.targets[0]

	events := dispatch(s, bumper.Body, target.Body)

	if target.Destroyed || len(events) != 0 {
		t.Errorf("obstacle/target pair had effects: destroyed=%v events=%d", target.Destroyed, len(events))
	}
}

func TestDispatchBreakable(t *testing.T) {
	s, _ := newTestSession(t, []string{"A", "B", "C"}, false)
	ball := s.balls[0]
	brick := obstacleWith(s, func(o *Obstacle) bool { return o.Breakable })

	first := dispatch(s, ball.Body, brick.Body)
	second := dispatch(s, ball.Body, brick.Body)

	if !brick.Destroyed || brick.Body.InWorld() {
		t.Error("breakable should be destroyed and removed")
	}
	if len(first) != 1 || first[0].Data.(Burst).Color != breakableColor {
		t.Errorf("first hit events = %+v", first)
	}
	if len(second) != 0 {
		t.Errorf("second hit produced %d events", len(second))
	}
	for _, o := range s.Snapshot().Obstacles {
		if o.ID == brick.Body.ID {
			t.Error("destroyed breakable still in snapshot")
		}
	}
}
