package physics

import "math"

// ShapeKind identifies the collision geometry of a body.
type ShapeKind string

const (
	ShapeCircle  ShapeKind = "circle"
	ShapePolygon ShapeKind = "polygon"
)

const (
	CategoryDefault uint32 = 0x0001
	MaskAll         uint32 = 0xFFFFFFFF
	MaskNone        uint32 = 0
)

// Filter decides which bodies may touch. Two bodies collide when each one's
// mask contains the other's category.
type Filter struct {
	Category uint32 `json:"category"`
	Mask     uint32 `json:"mask"`
}

func (f Filter) accepts(o Filter) bool {
	return f.Mask&o.Category != 0 && o.Mask&f.Category != 0
}

// BodyOptions carries the construction-time parameters of a body.
type BodyOptions struct {
	Label       string
	Static      bool
	Sensor      bool
	Restitution float64
	Friction    float64
	FrictionAir float64
	Angle       float64
}

// Body is a rigid body registered with a World.
type Body struct {
	ID          int       `json:"id"`
	Label       string    `json:"label,omitempty"`
	Shape       ShapeKind `json:"shape"`
	Static      bool      `json:"static"`
	Sensor      bool      `json:"sensor"`
	Position    Vec2      `json:"position"`
	Velocity    Vec2      `json:"velocity"`
	Angle       float64   `json:"angle"`
	Radius      float64   `json:"radius"` // circle radius, circumradius for polygons
	Restitution float64   `json:"restitution"`
	Friction    float64   `json:"friction"`
	FrictionAir float64   `json:"friction_air"`
	Filter      Filter    `json:"filter"`
	Opacity     float64   `json:"opacity"`

	// Data links the body back to its owner in the simulation.
	Data any `json:"-"`

	vertices []Vec2 // local, unrotated, relative to Position
	invMass  float64
	world    *World
}

func newBody(shape ShapeKind, x, y float64, opts BodyOptions) *Body {
	b := &Body{
		Label:       opts.Label,
		Shape:       shape,
		Static:      opts.Static,
		Sensor:      opts.Sensor,
		Position:    NewVec2(x, y),
		Angle:       opts.Angle,
		Restitution: opts.Restitution,
		Friction:    opts.Friction,
		FrictionAir: opts.FrictionAir,
		Filter:      Filter{Category: CategoryDefault, Mask: MaskAll},
		Opacity:     1,
	}
	if !b.Static {
		b.invMass = 1
	}
	return b
}

// NewCircle creates a circular body centred on (x, y).
func NewCircle(x, y, radius float64, opts BodyOptions) *Body {
	b := newBody(ShapeCircle, x, y, opts)
	b.Radius = radius
	return b
}

// NewRectangle creates an axis-aligned (before rotation) box centred on (x, y).
func NewRectangle(x, y, width, height float64, opts BodyOptions) *Body {
	b := newBody(ShapePolygon, x, y, opts)
	hw, hh := width/2, height/2
	b.vertices = []Vec2{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	b.Radius = math.Hypot(hw, hh)
	return b
}

// NewPolygon creates a regular polygon with the given number of sides whose
// vertices lie on a circle of the given radius.
func NewPolygon(x, y float64, sides int, radius float64, opts BodyOptions) *Body {
	if sides < 3 {
		return NewCircle(x, y, radius, opts)
	}
	b := newBody(ShapePolygon, x, y, opts)
	theta := 2 * math.Pi / float64(sides)
	offset := theta * 0.5
	b.vertices = make([]Vec2, sides)
	for i := 0; i < sides; i++ {
		a := offset + float64(i)*theta
		b.vertices[i] = Vec2{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
	}
	b.Radius = radius
	return b
}

// SetPosition teleports the body. Static bodies keep zero velocity.
func (b *Body) SetPosition(p Vec2) {
	b.Position = p
}

func (b *Body) SetAngle(angle float64) {
	b.Angle = angle
}

func (b *Body) SetVelocity(v Vec2) {
	if b.Static {
		return
	}
	b.Velocity = v
}

// SetMask replaces the collision mask, keeping the category.
func (b *Body) SetMask(mask uint32) {
	b.Filter.Mask = mask
}

// InWorld reports whether the body is currently registered with a world.
func (b *Body) InWorld() bool {
	return b.world != nil
}

// Vertices returns the polygon's vertices in world space. Circles have none.
func (b *Body) Vertices() []Vec2 {
	if b.Shape != ShapePolygon {
		return nil
	}
	out := make([]Vec2, len(b.vertices))
	for i, v := range b.vertices {
		out[i] = v.Rotate(b.Angle).Plus(b.Position)
	}
	return out
}

// Bounds returns the body's axis-aligned bounding box.
func (b *Body) Bounds() AABB {
	return AABB{
		Min: Vec2{X: b.Position.X - b.Radius, Y: b.Position.Y - b.Radius},
		Max: Vec2{X: b.Position.X + b.Radius, Y: b.Position.Y + b.Radius},
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

func (a AABB) Overlaps(o AABB) bool {
	return a.Min.X <= o.Max.X && a.Max.X >= o.Min.X &&
		a.Min.Y <= o.Max.Y && a.Max.Y >= o.Min.Y
}
