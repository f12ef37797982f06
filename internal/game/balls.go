package game

import (
	"math/rand"

	"github.com/playmatatu/lastone/internal/physics"
)

const (
	BallRadius  = 16.0
	TrailLength = 15

	ballRestitution = 0.95
	launchSpeedY    = -18.0
	launchSpreadX   = 5.0   // horizontal launch speed is drawn from ±launchSpreadX/2
	spawnSpreadX    = 200.0 // spawn x is drawn from centre ±spawnSpreadX/2
	spawnLift       = 80.0  // spawn height above the arena floor
	fallMargin      = 50.0  // balls below arenaHeight-fallMargin are relaunched
	maxBallSpeed    = 36.0  // per step; bumpers and boosters add energy
	maxBallTravel   = BallRadius / 2

	spawnBurstColor = "#00d4ff"
)

// Ball is a dynamic body with a short history of its recent positions.
type Ball struct {
	ID    int
	Body  *physics.Body
	Trail []physics.Vec2
}

// launchVelocity returns the upward launch used for new and fallen balls.
func launchVelocity(rng *rand.Rand) physics.Vec2 {
	return physics.NewVec2((rng.Float64()-0.5)*launchSpreadX, launchSpeedY)
}

// spawnPosition is the launch point near the bottom centre of the arena.
func spawnPosition(a Arena, rng *rand.Rand) physics.Vec2 {
	return physics.NewVec2(a.Width/2+(rng.Float64()-0.5)*spawnSpreadX, a.Height-spawnLift)
}

func newBall(id int, a Arena, rng *rand.Rand) *Ball {
	pos := spawnPosition(a, rng)
	body := physics.NewCircle(pos.X, pos.Y, BallRadius, physics.BodyOptions{
		Label:       "ball",
		Restitution: ballRestitution,
	})
	body.SetVelocity(launchVelocity(rng))
	ball := &Ball{ID: id, Body: body}
	body.Data = ball
	return ball
}

// recordTrail appends the current position, keeping the last TrailLength.
func (b *Ball) recordTrail() {
	b.Trail = append(b.Trail, b.Body.Position)
	if len(b.Trail) > TrailLength {
		b.Trail = b.Trail[len(b.Trail)-TrailLength:]
	}
}

// fallen reports whether the ball has dropped below the play field.
func (b *Ball) fallen(arenaHeight float64) bool {
	return b.Body.Position.Y > arenaHeight-fallMargin
}

// escaped reports whether the ball's centre has left the arena on any side.
func (b *Ball) escaped(a Arena) bool {
	p := b.Body.Position
	return p.X < 0 || p.X > a.Width || p.Y < 0 || p.Y > a.Height
}

// relaunch sends a fallen ball back up from where it is.
func (b *Ball) relaunch(rng *rand.Rand) {
	b.Body.SetVelocity(launchVelocity(rng))
}

// respawn puts an escaped ball back at the launch point and relaunches it.
func (b *Ball) respawn(a Arena, rng *rand.Rand) {
	b.Body.SetPosition(spawnPosition(a, rng))
	b.Trail = nil
	b.relaunch(rng)
}
