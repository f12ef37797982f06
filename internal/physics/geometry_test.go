package physics

import (
	"math"
	"testing"
)

func TestPolygonVertices(t *testing.T) {
	tri := NewPolygon(10, 20, 3, 10, BodyOptions{})
	verts := tri.Vertices()
	if len(verts) != 3 {
		t.Fatalf("triangle has %d vertices", len(verts))
	}
	for i, v := range verts {
		if d := v.DistanceTo(tri.Position); math.Abs(d-10) > 1e-9 {
			t.Errorf("vertex %d at distance %.4f, want 10", i, d)
		}
	}

	bar := NewRectangle(0, 0, 10, 2, BodyOptions{Angle: math.Pi / 2})
	for _, v := range bar.Vertices() {
		if math.Abs(math.Abs(v.X)-1) > 1e-9 || math.Abs(math.Abs(v.Y)-5) > 1e-9 {
			t.Errorf("rotated bar vertex %v, want (±1, ±5)", v)
		}
	}
}

func TestPointInConvexPolygon(t *testing.T) {
	square := NewRectangle(0, 0, 10, 10, BodyOptions{}).Vertices()

	tests := []struct {
		p    Vec2
		want bool
	}{
		{NewVec2(0, 0), true},
		{NewVec2(4.9, -4.9), true},
		{NewVec2(6, 0), false},
		{NewVec2(0, -5.1), false},
	}
	for _, tt := range tests {
		if got := pointInConvexPolygon(tt.p, square); got != tt.want {
			t.Errorf("pointInConvexPolygon(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a, b := NewVec2(0, 0), NewVec2(10, 0)
	tests := []struct {
		p, want Vec2
	}{
		{NewVec2(5, 3), NewVec2(5, 0)},
		{NewVec2(-4, 1), NewVec2(0, 0)},
		{NewVec2(15, -2), NewVec2(10, 0)},
	}
	for _, tt := range tests {
		if got := closestPointOnSegment(tt.p, a, b); got != tt.want {
			t.Errorf("closestPointOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestDetectCircleInsidePolygon(t *testing.T) {
	box := NewRectangle(0, 0, 100, 100, BodyOptions{Static: true})
	ball := NewCircle(10, 0, 5, BodyOptions{})

	c, ok := detect(ball, box)
	if !ok {
		t.Fatal("ball inside the box should overlap")
	}
	if c.depth <= ball.Radius {
		t.Errorf("depth %.2f should exceed the radius when the centre is inside", c.depth)
	}

	far := NewCircle(200, 0, 5, BodyOptions{})
	if _, ok := detect(far, box); ok {
		t.Error("distant ball reported as overlapping")
	}
}
