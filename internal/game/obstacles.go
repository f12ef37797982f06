package game

import (
	"math"

	"github.com/playmatatu/lastone/internal/physics"
)

const (
	spinDecay      = 0.995
	blinkRate      = 3.0
	blinkFloor     = 0.3
	blinkRange     = 0.7
	hiddenOpacity  = 0.1
	defaultMinSpin = 0.01
)

// Oscillation moves an obstacle along one axis around Start.
type Oscillation struct {
	Start     float64 `json:"start"`
	Amplitude float64 `json:"amplitude"`
	Speed     float64 `json:"speed"`
	Phase     float64 `json:"phase"`
}

func (o *Oscillation) at(t float64) float64 {
	return o.Start + math.Sin(t*o.Speed+o.Phase)*o.Amplitude
}

// Rotation turns an obstacle by a fixed signed angle every step.
type Rotation struct {
	Speed float64 `json:"speed"`
}

// Spin is a rotation that jumps to MaxSpeed on a ball hit and decays back to
// MinSpeed.
type Spin struct {
	Speed    float64 `json:"speed"`
	MaxSpeed float64 `json:"max_speed"`
	MinSpeed float64 `json:"min_speed"`
}

// Blink alternates an obstacle between solid and intangible.
type Blink struct {
	Phase float64 `json:"phase"`
}

// Boost scales the speed of balls passing through a sensor.
type Boost struct {
	Power float64 `json:"power"`
}

// Obstacle is a static or sensor body with any combination of behaviours.
// A nil record means the behaviour is absent.
type Obstacle struct {
	Body      *physics.Body
	Color     string
	Bumper    bool
	Breakable bool
	Destroyed bool

	Rotation *Rotation
	OscX     *Oscillation
	OscY     *Oscillation
	Blink    *Blink
	Spinner  *Spin
	Booster  *Boost
}

func newObstacle(body *physics.Body, color string) *Obstacle {
	o := &Obstacle{Body: body, Color: color}
	body.Data = o
	return o
}

// Solid reports whether balls currently collide with the obstacle.
func (o *Obstacle) Solid() bool {
	return o.Body.Filter.Mask != physics.MaskNone && !o.Body.Sensor
}

// Update advances the obstacle's kinematic state to simulated time t, in
// seconds. Each behaviour only touches its own axis or field.
func (o *Obstacle) Update(t float64) {
	if o.Destroyed {
		return
	}
	b := o.Body

	if o.Rotation != nil {
		b.SetAngle(b.Angle + o.Rotation.Speed)
	}
	if o.OscX != nil {
		b.SetPosition(physics.NewVec2(o.OscX.at(t), b.Position.Y))
	}
	if o.OscY != nil {
		b.SetPosition(physics.NewVec2(b.Position.X, o.OscY.at(t)))
	}
	if o.Blink != nil {
		v := math.Sin(t*blinkRate + o.Blink.Phase)
		if v > 0 {
			b.SetMask(physics.MaskAll)
			b.Opacity = blinkFloor + math.Abs(v)*blinkRange
		} else {
			b.SetMask(physics.MaskNone)
			b.Opacity = hiddenOpacity
		}
	}
	if s := o.Spinner; s != nil {
		b.SetAngle(b.Angle + s.Speed)
		s.Speed = math.Max(s.MinSpeed, s.Speed*spinDecay)
	}
}

// SpinUp resets a spinner to its maximum speed.
func (o *Obstacle) SpinUp() {
	if o.Spinner != nil {
		o.Spinner.Speed = o.Spinner.MaxSpeed
	}
}

// UpdateObstacles runs the per-step behaviour of every obstacle.
func UpdateObstacles(obstacles []*Obstacle, t float64) {
	for _, o := range obstacles {
		o.Update(t)
	}
}

// Builder helpers used by the map definitions. Each returns the obstacle so
// behaviours can be chained.

func (o *Obstacle) bumper() *Obstacle {
	o.Bumper = true
	return o
}

func (o *Obstacle) rotating(speed float64) *Obstacle {
	o.Rotation = &Rotation{Speed: speed}
	return o
}

func (o *Obstacle) movingX(speed, amplitude, phase float64) *Obstacle {
	o.OscX = &Oscillation{Start: o.Body.Position.X, Amplitude: amplitude, Speed: speed, Phase: phase}
	return o
}

func (o *Obstacle) movingY(speed, amplitude, phase float64) *Obstacle {
	o.OscY = &Oscillation{Start: o.Body.Position.Y, Amplitude: amplitude, Speed: speed, Phase: phase}
	return o
}

func (o *Obstacle) blinking(phase float64) *Obstacle {
	o.Blink = &Blink{Phase: phase}
	return o
}

func (o *Obstacle) spinner(maxSpeed float64) *Obstacle {
	o.Spinner = &Spin{Speed: defaultMinSpin, MaxSpeed: maxSpeed, MinSpeed: defaultMinSpin}
	return o
}

func (o *Obstacle) booster(power float64) *Obstacle {
	o.Booster = &Boost{Power: power}
	return o
}

func (o *Obstacle) breakable() *Obstacle {
	o.Breakable = true
	return o
}
