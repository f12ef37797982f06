package physics

import "math"

// contact describes an overlap between two bodies. Normal points from the
// first body towards the second.
type contact struct {
	normal Vec2
	depth  float64
}

// closestPointOnSegment returns the point of segment a-b nearest to p.
func closestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Minus(a)
	lenSq := ab.MagnitudeSquared()
	if lenSq == 0 {
		return a
	}
	t := p.Minus(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Plus(ab.Times(t))
}

// pointInConvexPolygon reports whether p lies inside the convex polygon given
// by its vertices in either winding order.
func pointInConvexPolygon(p Vec2, verts []Vec2) bool {
	sign := 0
	for i := range verts {
		a := verts[i]
		b := verts[(i+1)%len(verts)]
		c := b.Minus(a).Cross(p.Minus(a))
		switch {
		case c > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case c < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}

func circleCircle(a, b *Body) (contact, bool) {
	delta := b.Position.Minus(a.Position)
	total := a.Radius + b.Radius
	distSq := delta.MagnitudeSquared()
	if distSq >= total*total {
		return contact{}, false
	}
	dist := math.Sqrt(distSq)
	normal := Vec2{X: 0, Y: 1}
	if dist > 0 {
		normal = delta.Times(1 / dist)
	}
	return contact{normal: normal, depth: total - dist}, true
}

func circlePolygon(circle, poly *Body) (contact, bool) {
	verts := poly.Vertices()
	center := circle.Position

	best := verts[0]
	bestDistSq := math.Inf(1)
	for i := range verts {
		p := closestPointOnSegment(center, verts[i], verts[(i+1)%len(verts)])
		if d := p.Minus(center).MagnitudeSquared(); d < bestDistSq {
			best, bestDistSq = p, d
		}
	}
	dist := math.Sqrt(bestDistSq)

	if pointInConvexPolygon(center, verts) {
		normal := poly.Position.Minus(center).Normalize()
		if dist > 0 {
			normal = center.Minus(best).Times(1 / dist)
		}
		return contact{normal: normal, depth: circle.Radius + dist}, true
	}

	if dist >= circle.Radius {
		return contact{}, false
	}
	normal := best.Minus(center).Normalize()
	if normal.IsZero() {
		normal = poly.Position.Minus(center).Normalize()
	}
	return contact{normal: normal, depth: circle.Radius - dist}, true
}

// detect returns the contact between a and b, if any.
func detect(a, b *Body) (contact, bool) {
	if !a.Bounds().Overlaps(b.Bounds()) {
		return contact{}, false
	}
	switch {
	case a.Shape == ShapeCircle && b.Shape == ShapeCircle:
		return circleCircle(a, b)
	case a.Shape == ShapeCircle && b.Shape == ShapePolygon:
		return circlePolygon(a, b)
	case a.Shape == ShapePolygon && b.Shape == ShapeCircle:
		c, ok := circlePolygon(b, a)
		c.normal = c.normal.Invert()
		return c, ok
	}
	// Polygon pairs only occur between static bodies, which never collide.
	return contact{}, false
}
