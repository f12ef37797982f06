package game

import (
	"math"

	"github.com/playmatatu/lastone/internal/physics"
)

const (
	bumperLaunchY  = -15.0
	bumperNudgeX   = 3.0
	boostMinLiftY  = -10.0
	spinBurstColor = "#fff"
)

// BumperVelocity is the velocity of a ball after striking a bumper: thrown
// upwards and pushed away from the side of the bumper it hit.
func BumperVelocity(ballPos, ballVel, bumperPos physics.Vec2) physics.Vec2 {
	nudge := -bumperNudgeX
	if ballPos.X-bumperPos.X > 0 {
		nudge = bumperNudgeX
	}
	return physics.NewVec2(ballVel.X+nudge, bumperLaunchY)
}

// BoostVelocity scales a ball's speed by power, keeping its direction except
// that the vertical component is at least boostMinLiftY upwards.
func BoostVelocity(vel physics.Vec2, power float64) physics.Vec2 {
	speed := vel.Magnitude() * power
	angle := vel.Angle()
	return physics.NewVec2(
		math.Cos(angle)*speed,
		math.Min(math.Sin(angle)*speed, boostMinLiftY),
	)
}

func ballOf(bodies ...*physics.Body) *Ball {
	for _, b := range bodies {
		if ball, ok := b.Data.(*Ball); ok {
			return ball
		}
	}
	return nil
}

func targetOf(bodies ...*physics.Body) *Target {
	for _, b := range bodies {
		if t, ok := b.Data.(*Target); ok {
			return t
		}
	}
	return nil
}

// dispatchCollisions applies the gameplay effect of every pair that started
// touching this step. Effects are checked in a fixed order and each one is
// guarded so it cannot fire twice for the same pair.
func (s *Session) dispatchCollisions(pairs []physics.Pair) {
	for _, p := range pairs {
		if s.phase != PhasePlaying {
			return
		}
		ball := ballOf(p.BodyA, p.BodyB)

		for _, body := range []*physics.Body{p.BodyA, p.BodyB} {
			o, ok := body.Data.(*Obstacle)
			if !ok {
				continue
			}
			if ball != nil {
				if o.Bumper {
					s.bump(o, ball)
				}
				if o.Spinner != nil {
					o.SpinUp()
					s.burst(o.Body.Position, spinBurstColor)
				}
				if o.Booster != nil {
					ball.Body.SetVelocity(BoostVelocity(ball.Body.Velocity, o.Booster.Power))
					s.burst(o.Body.Position, boosterColor)
				}
			}
			if o.Breakable && !o.Destroyed {
				o.Destroyed = true
				s.world.Remove(o.Body)
				s.burst(o.Body.Position, breakableColor)
			}
		}

		if ball == nil {
			continue
		}
		s.world.ClampSpeed(ball.Body)
		if t := targetOf(p.BodyA, p.BodyB); t != nil {
			s.destroyTarget(t)
		}
	}
}

func (s *Session) bump(o *Obstacle, ball *Ball) {
	ball.Body.SetVelocity(BumperVelocity(ball.Body.Position, ball.Body.Velocity, o.Body.Position))
	s.burst(o.Body.Position, o.Color)
}

// destroyTarget removes a target from play. The win check for it runs at the
// end of the step.
func (s *Session) destroyTarget(t *Target) {
	if t.Destroyed {
		return
	}
	t.Destroyed = true
	s.world.Remove(t.Body)
	s.remaining--
	s.participants[t.Participant].Alive = false
	s.burst(t.Body.Position, t.Color)
	s.destroyedThisStep = append(s.destroyedThisStep, t)
}
