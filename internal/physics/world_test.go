package physics

import (
	"math"
	"testing"
)

// setupDrop places a ball of radius 10 above a static obstacle and returns
// the world, the ball and a pointer to the collision-start counter.
func setupDrop(obstacle *Body) (*World, *Body, *int) {
	world := NewWorld(Vec2{})
	ball := NewCircle(100, 100, 10, BodyOptions{Restitution: 1})
	ball.SetVelocity(NewVec2(0, 5))
	world.Add(ball, obstacle)

	hits := 0
	world.OnCollisionStart(func(pairs []Pair) {
		for _, p := range pairs {
			if p.Involves(ball) && p.Involves(obstacle) {
				hits++
			}
		}
	})
	return world, ball, &hits
}

func TestGravityAcceleratesDynamicBodies(t *testing.T) {
	world := NewWorld(NewVec2(0, 0.6))
	ball := NewCircle(0, 0, 5, BodyOptions{})
	wall := NewRectangle(0, 500, 100, 10, BodyOptions{Static: true})
	world.Add(ball, wall)

	world.Step(DefaultDelta)

	want := 0.6 * DefaultGravityScale * DefaultDelta * DefaultDelta
	if math.Abs(ball.Velocity.Y-want) > 1e-9 {
		t.Errorf("vy after one step = %.6f, want %.6f", ball.Velocity.Y, want)
	}
	if wall.Velocity.Y != 0 || wall.Position.Y != 500 {
		t.Errorf("static body moved: pos=%v vel=%v", wall.Position, wall.Velocity)
	}
	if got := world.Timestamp(); math.Abs(got-DefaultDelta) > 1e-9 {
		t.Errorf("timestamp = %.4f, want %.4f", got, DefaultDelta)
	}
}

func TestBallBouncesOffStaticCircle(t *testing.T) {
	bumper := NewCircle(100, 140, 20, BodyOptions{Static: true, Restitution: 1})
	world, ball, hits := setupDrop(bumper)

	for i := 0; i < 10; i++ {
		world.Step(DefaultDelta)
	}

	if ball.Velocity.Y >= 0 {
		t.Errorf("ball should be moving up after the bounce, vy=%.3f", ball.Velocity.Y)
	}
	if *hits != 1 {
		t.Errorf("collision start fired %d times, want 1", *hits)
	}
}

func TestBallBouncesOffRotatedRectangle(t *testing.T) {
	bar := NewRectangle(100, 140, 80, 10, BodyOptions{Static: true, Restitution: 1, Angle: 0.2})
	world, ball, hits := setupDrop(bar)

	for i := 0; i < 10; i++ {
		world.Step(DefaultDelta)
	}

	if ball.Velocity.Y >= 0 {
		t.Errorf("ball should deflect upwards off the bar, vy=%.3f", ball.Velocity.Y)
	}
	if ball.Velocity.X == 0 {
		t.Errorf("tilted bar should add a horizontal component")
	}
	if *hits != 1 {
		t.Errorf("collision start fired %d times, want 1", *hits)
	}
}

func TestSensorReportsOnceWithoutDeflecting(t *testing.T) {
	zone := NewRectangle(100, 180, 100, 100, BodyOptions{Static: true, Sensor: true})
	world, ball, hits := setupDrop(zone)

	for i := 0; i < 30; i++ {
		world.Step(DefaultDelta)
	}

	if ball.Velocity.Y != 5 || ball.Velocity.X != 0 {
		t.Errorf("sensor changed the ball's velocity: %v", ball.Velocity)
	}
	if *hits != 1 {
		t.Errorf("sensor overlap reported %d times, want 1", *hits)
	}
}

func TestClearedMaskLetsBallsThrough(t *testing.T) {
	bumper := NewCircle(100, 140, 20, BodyOptions{Static: true, Restitution: 1})
	bumper.SetMask(MaskNone)
	world, ball, hits := setupDrop(bumper)

	for i := 0; i < 20; i++ {
		world.Step(DefaultDelta)
	}

	if ball.Velocity.Y != 5 {
		t.Errorf("intangible body deflected the ball: vy=%.3f", ball.Velocity.Y)
	}
	if *hits != 0 {
		t.Errorf("intangible body reported %d collisions", *hits)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	world := NewWorld(Vec2{})
	a := NewCircle(0, 0, 5, BodyOptions{Static: true})
	b := NewCircle(50, 0, 5, BodyOptions{})
	world.Add(a, b)

	world.Remove(a)
	world.Remove(a)

	if a.InWorld() {
		t.Error("removed body still reports InWorld")
	}
	if got := len(world.Bodies()); got != 1 {
		t.Errorf("world has %d bodies, want 1", got)
	}
	if a.ID == b.ID {
		t.Errorf("bodies share ID %d", a.ID)
	}
}

func TestBeforeStepSeesAdvancedClock(t *testing.T) {
	world := NewWorld(Vec2{})
	var seen []float64
	world.OnBeforeStep(func(ts float64) { seen = append(seen, ts) })

	world.Step(10)
	world.Step(10)

	if len(seen) != 2 || seen[0] != 10 || seen[1] != 20 {
		t.Errorf("before-step timestamps = %v, want [10 20]", seen)
	}
}

func TestMaxSpeedClamp(t *testing.T) {
	world := NewWorld(Vec2{})
	world.MaxSpeed = 10
	ball := NewCircle(0, 0, 5, BodyOptions{})
	ball.SetVelocity(NewVec2(30, 40))
	world.Add(ball)

	world.Step(DefaultDelta)

	if speed := ball.Velocity.Magnitude(); math.Abs(speed-10) > 1e-9 {
		t.Errorf("speed = %.4f, want 10", speed)
	}
}

func TestMaxSpeedHoldsThroughBouncyContacts(t *testing.T) {
	bumper := NewCircle(100, 140, 20, BodyOptions{Static: true, Restitution: 2})
	world, ball, hits := setupDrop(bumper)
	world.MaxSpeed = 10
	ball.SetVelocity(NewVec2(0, 8))

	for i := 0; i < 10; i++ {
		world.Step(DefaultDelta)
		if speed := ball.Velocity.Magnitude(); speed > 10+1e-9 {
			t.Fatalf("step %d: speed %.3f exceeds the clamp", i, speed)
		}
	}
	if *hits != 1 || ball.Velocity.Y >= 0 {
		t.Errorf("hits=%d vy=%.3f, want one bounce upwards", *hits, ball.Velocity.Y)
	}
}

func TestFastBodiesGetExtraSubsteps(t *testing.T) {
	world := NewWorld(Vec2{})
	world.Substeps = 1
	world.MaxTravel = 5
	wall := NewRectangle(100, 0, 10, 200, BodyOptions{Static: true, Restitution: 1})
	ball := NewCircle(52, 0, 5, BodyOptions{Restitution: 1})
	ball.SetVelocity(NewVec2(60, 0))
	world.Add(ball, wall)

	if n := world.substeps(); n != 12 {
		t.Errorf("substeps = %d, want 12", n)
	}

	for i := 0; i < 3; i++ {
		world.Step(DefaultDelta)
	}
	if ball.Position.X >= 95 || ball.Velocity.X >= 0 {
		t.Errorf("ball tunnelled or stuck: x=%.1f vx=%.1f", ball.Position.X, ball.Velocity.X)
	}

	ball.SetVelocity(NewVec2(1000, 0))
	if n := world.substeps(); n != maxSubsteps {
		t.Errorf("substeps = %d, want the cap %d", n, maxSubsteps)
	}
}
