package physics

import (
	"math"
	"sort"
)

const (
	// DefaultGravityScale matches the scale used by browser engines, so a
	// gravity of 0.6 produces the same per-step acceleration.
	DefaultGravityScale = 0.001
	// DefaultDelta is one step at 60 Hz, in milliseconds.
	DefaultDelta = 1000.0 / 60.0

	correctionPercent = 0.8
	correctionSlop    = 0.05

	maxSubsteps = 16
)

// Pair is two bodies that started touching during a step. BodyA always has
// the lower ID.
type Pair struct {
	BodyA *Body
	BodyB *Body
}

// Involves reports whether b is one of the pair's bodies.
func (p Pair) Involves(b *Body) bool {
	return p.BodyA == b || p.BodyB == b
}

type pairKey struct {
	a, b int
}

func keyFor(a, b *Body) pairKey {
	if a.ID > b.ID {
		a, b = b, a
	}
	return pairKey{a: a.ID, b: b.ID}
}

// World owns a set of bodies and advances them in fixed steps.
type World struct {
	Gravity      Vec2
	GravityScale float64
	Substeps     int
	MaxSpeed     float64 // 0 disables the clamp
	MaxTravel    float64 // per-substep displacement that adds substeps; 0 disables

	bodies         []*Body
	nextID         int
	timestamp      float64 // simulated milliseconds
	active         map[pairKey]bool
	beforeStep     []func(timestamp float64)
	collisionStart []func(pairs []Pair)
}

// NewWorld creates an empty world with the given gravity direction.
func NewWorld(gravity Vec2) *World {
	return &World{
		Gravity:      gravity,
		GravityScale: DefaultGravityScale,
		Substeps:     2,
		active:       make(map[pairKey]bool),
	}
}

// Add registers bodies. Bodies without an ID get the next free one.
func (w *World) Add(bodies ...*Body) {
	for _, b := range bodies {
		if b == nil || b.world == w {
			continue
		}
		if b.ID == 0 {
			w.nextID++
			b.ID = w.nextID
		} else if b.ID > w.nextID {
			w.nextID = b.ID
		}
		b.world = w
		w.bodies = append(w.bodies, b)
	}
}

// Remove unregisters a body. Removing a body twice is a no-op.
func (w *World) Remove(b *Body) {
	if b == nil || b.world != w {
		return
	}
	for i, cur := range w.bodies {
		if cur == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	b.world = nil
	for k := range w.active {
		if k.a == b.ID || k.b == b.ID {
			delete(w.active, k)
		}
	}
}

// Clear removes every body and drops all hooks.
func (w *World) Clear() {
	for _, b := range w.bodies {
		b.world = nil
	}
	w.bodies = nil
	w.active = make(map[pairKey]bool)
	w.beforeStep = nil
	w.collisionStart = nil
}

// Bodies returns a copy of the registered bodies.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Timestamp returns the simulated time in milliseconds.
func (w *World) Timestamp() float64 {
	return w.timestamp
}

// OnBeforeStep registers a hook that runs at the start of every step, after
// the clock has advanced.
func (w *World) OnBeforeStep(fn func(timestamp float64)) {
	w.beforeStep = append(w.beforeStep, fn)
}

// OnCollisionStart registers a hook that receives the pairs that began
// touching during a step.
func (w *World) OnCollisionStart(fn func(pairs []Pair)) {
	w.collisionStart = append(w.collisionStart, fn)
}

// Step advances the world by delta milliseconds.
func (w *World) Step(delta float64) {
	w.timestamp += delta
	for _, fn := range w.beforeStep {
		fn(w.timestamp)
	}

	w.integrate(delta)

	current := make(map[pairKey]Pair)
	substeps := w.substeps()
	for s := 0; s < substeps; s++ {
		w.move(1 / float64(substeps))
		w.collide(current)
	}

	started := make([]Pair, 0)
	for k, p := range current {
		if !w.active[k] {
			started = append(started, p)
		}
	}
	sort.Slice(started, func(i, j int) bool {
		if started[i].BodyA.ID != started[j].BodyA.ID {
			return started[i].BodyA.ID < started[j].BodyA.ID
		}
		return started[i].BodyB.ID < started[j].BodyB.ID
	})

	w.active = make(map[pairKey]bool, len(current))
	for k := range current {
		w.active[k] = true
	}

	if len(started) == 0 {
		return
	}
	for _, fn := range w.collisionStart {
		fn(started)
	}
}

// substeps returns how many sub-moves this step needs so that no body
// travels further than MaxTravel in one of them.
func (w *World) substeps() int {
	n := w.Substeps
	if n < 1 {
		n = 1
	}
	if w.MaxTravel <= 0 {
		return n
	}
	fastest := 0.0
	for _, b := range w.bodies {
		if !b.Static {
			fastest = math.Max(fastest, b.Velocity.Magnitude())
		}
	}
	if need := int(math.Ceil(fastest / w.MaxTravel)); need > n {
		n = need
	}
	if n > maxSubsteps {
		n = maxSubsteps
	}
	return n
}

// ClampSpeed limits a body's speed to MaxSpeed. Callers that set velocities
// outside Step use it to respect the same limit.
func (w *World) ClampSpeed(b *Body) {
	if w.MaxSpeed <= 0 || b.Static {
		return
	}
	if speed := b.Velocity.Magnitude(); speed > w.MaxSpeed {
		b.Velocity = b.Velocity.Times(w.MaxSpeed / speed)
	}
}

func (w *World) integrate(delta float64) {
	accel := w.Gravity.Times(w.GravityScale * delta * delta)
	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		v := b.Velocity.Plus(accel)
		if b.FrictionAir > 0 {
			v = v.Times(1 - b.FrictionAir)
		}
		b.Velocity = v
		w.ClampSpeed(b)
	}
}

func (w *World) move(fraction float64) {
	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		b.Position = b.Position.Plus(b.Velocity.Times(fraction))
	}
}

func (w *World) collide(current map[pairKey]Pair) {
	for _, a := range w.bodies {
		if a.Static {
			continue
		}
		for _, b := range w.bodies {
			if a == b || (!b.Static && b.ID < a.ID) {
				continue
			}
			if !a.Filter.accepts(b.Filter) {
				continue
			}
			c, ok := detect(a, b)
			if !ok {
				continue
			}
			k := keyFor(a, b)
			if _, seen := current[k]; !seen {
				if a.ID < b.ID {
					current[k] = Pair{BodyA: a, BodyB: b}
				} else {
					current[k] = Pair{BodyA: b, BodyB: a}
				}
			}
			if a.Sensor || b.Sensor {
				continue
			}
			resolve(a, b, c)
			// restitution above 1 adds energy on every contact
			w.ClampSpeed(a)
			w.ClampSpeed(b)
		}
	}
}

// resolve separates two overlapping bodies and applies a restitution impulse
// along the contact normal.
func resolve(a, b *Body, c contact) {
	sum := a.invMass + b.invMass
	if sum == 0 {
		return
	}

	if depth := c.depth - correctionSlop; depth > 0 {
		corr := c.normal.Times(depth / sum * correctionPercent)
		a.Position = a.Position.Minus(corr.Times(a.invMass))
		b.Position = b.Position.Plus(corr.Times(b.invMass))
	}

	rel := b.Velocity.Minus(a.Velocity)
	along := rel.Dot(c.normal)
	if along > 0 {
		return
	}

	e := math.Max(a.Restitution, b.Restitution)
	j := -(1 + e) * along / sum
	impulse := c.normal.Times(j)
	a.Velocity = a.Velocity.Minus(impulse.Times(a.invMass))
	b.Velocity = b.Velocity.Plus(impulse.Times(b.invMass))

	mu := math.Min(a.Friction, b.Friction)
	if mu <= 0 {
		return
	}
	rel = b.Velocity.Minus(a.Velocity)
	tangent := rel.Minus(c.normal.Times(rel.Dot(c.normal)))
	if tangent.MagnitudeSquared() < 1e-12 {
		return
	}
	tangent = tangent.Normalize()
	jt := -rel.Dot(tangent) / sum
	if limit := math.Abs(j) * mu; math.Abs(jt) > limit {
		jt = math.Copysign(limit, jt)
	}
	fi := tangent.Times(jt)
	a.Velocity = a.Velocity.Minus(fi.Times(a.invMass))
	b.Velocity = b.Velocity.Plus(fi.Times(b.invMass))
}
