package game

import (
	"math"

	"github.com/playmatatu/lastone/internal/physics"
)

// Viewport is the camera window in world coordinates.
type Viewport struct {
	Min physics.Vec2 `json:"min"`
	Max physics.Vec2 `json:"max"`
}

// TrackViewport centres the camera vertically on the topmost ball, the one
// closest to the remaining targets. The window always spans the full arena
// width and never leaves the arena.
func TrackViewport(balls []physics.Vec2, a Arena, viewHeight float64) Viewport {
	offset := 0.0
	if len(balls) > 0 {
		top := balls[0].Y
		for _, p := range balls[1:] {
			top = math.Min(top, p.Y)
		}
		maxOffset := math.Max(0, a.Height-viewHeight)
		offset = math.Max(0, math.Min(maxOffset, top-viewHeight/2))
	}
	return Viewport{
		Min: physics.NewVec2(0, offset),
		Max: physics.NewVec2(a.Width, offset+viewHeight),
	}
}
