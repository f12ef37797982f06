package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/playmatatu/lastone/internal/physics"
)

const (
	layoutMarginX   = 50.0 // first column centre and total horizontal margin
	layoutMarginTop = 60.0
	layoutWallGap   = 30.0 // cells closer than this to a side wall are dropped
	layoutJitter    = 5.0
	honeycombPitch  = 0.866
)

// Layout is the placement of every target in draw order.
type Layout struct {
	Radius    float64        `json:"radius"`
	Spacing   float64        `json:"spacing"`
	Positions []physics.Vec2 `json:"positions"`
}

// TargetRadius picks the target radius for the participant count.
func TargetRadius(n int) float64 {
	switch {
	case n > 30:
		return 22
	case n > 20:
		return 25
	case n > 12:
		return 28
	default:
		return 30
	}
}

// honeycombCells enumerates candidate target centres row by row. Odd rows
// are shifted by half a cell and hold one cell fewer.
func honeycombCells(n int, arenaWidth, spacing float64) []physics.Vec2 {
	cols := int(math.Floor((arenaWidth - layoutMarginX) / spacing))
	if cols < 1 {
		return nil
	}
	rows := int(math.Ceil(float64(n)/float64(cols))) + 2

	var cells []physics.Vec2
	for row := 0; row < rows+2; row++ {
		offset := row%2 == 1
		count := cols
		if offset {
			count--
		}
		for col := 0; col < count; col++ {
			x := layoutMarginX + float64(col)*spacing
			if offset {
				x += spacing / 2
			}
			y := layoutMarginTop + float64(row)*spacing*honeycombPitch
			if x > layoutWallGap && x < arenaWidth-layoutWallGap {
				cells = append(cells, physics.NewVec2(x, y))
			}
		}
	}
	return cells
}

// GenerateLayout places n targets on shuffled honeycomb cells with a small
// jitter. It fails with ErrLayoutExhausted when the arena has fewer cells
// than targets.
func GenerateLayout(n int, arenaWidth float64, rng *rand.Rand) (Layout, error) {
	radius := TargetRadius(n)
	spacing := radius * 2.4

	cells := honeycombCells(n, arenaWidth, spacing)
	if len(cells) < n {
		return Layout{}, fmt.Errorf("%w: %d cells for %d targets", ErrLayoutExhausted, len(cells), n)
	}

	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	positions := make([]physics.Vec2, n)
	for i := 0; i < n; i++ {
		positions[i] = physics.NewVec2(
			cells[i].X+(rng.Float64()-0.5)*2*layoutJitter,
			cells[i].Y+(rng.Float64()-0.5)*2*layoutJitter,
		)
	}
	return Layout{Radius: radius, Spacing: spacing, Positions: positions}, nil
}

// Bottom returns the lowest extent of the placed targets.
func (l Layout) Bottom() float64 {
	bottom := 0.0
	for _, p := range l.Positions {
		bottom = math.Max(bottom, p.Y)
	}
	return bottom + l.Radius
}
