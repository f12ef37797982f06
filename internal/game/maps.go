package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/playmatatu/lastone/internal/physics"
)

// MapType selects the obstacle field placed below the targets.
type MapType string

const (
	MapCat     MapType = "cat"
	MapOctopus MapType = "octopus"
	MapStar    MapType = "star"
)

// MapInfo describes a selectable map.
type MapInfo struct {
	Type        MapType `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// Maps lists the available maps in display order.
func Maps() []MapInfo {
	return []MapInfo{
		{Type: MapCat, Name: "Cat", Description: "Wiggling ears, roving eyes and twitching whiskers"},
		{Type: MapOctopus, Name: "Octopus", Description: "A floating head over swinging tentacle bars"},
		{Type: MapStar, Name: "Star", Description: "Blinking star points around a pulsing core"},
	}
}

// ParseMapType validates a map name. Matching ignores case and surrounding
// whitespace.
func ParseMapType(s string) (MapType, error) {
	switch m := MapType(strings.ToLower(strings.TrimSpace(s))); m {
	case MapCat, MapOctopus, MapStar:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMap, s)
}

// Arena is the size of the simulated world.
type Arena struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

const (
	wallThickness   = 50.0
	wallRestitution = 0.8
	wallColor       = "#16213e"

	fieldGap      = 80.0  // between the lowest target and the obstacle field
	mapCenterDrop = 150.0 // from the top of the field to the map's centrepiece

	boosterColor   = "#00ff88"
	breakableColor = "#ffc107"
)

// buildWalls encloses the arena on all four sides.
func buildWalls(a Arena) []*physics.Body {
	opts := physics.BodyOptions{Label: "wall", Static: true, Restitution: wallRestitution}
	half := wallThickness / 2
	return []*physics.Body{
		physics.NewRectangle(a.Width/2, -half, a.Width, wallThickness, opts),
		physics.NewRectangle(a.Width/2, a.Height+half, a.Width, wallThickness, opts),
		physics.NewRectangle(-half, a.Height/2, wallThickness, a.Height, opts),
		physics.NewRectangle(a.Width+half, a.Height/2, wallThickness, a.Height, opts),
	}
}

// mapBuilder collects the obstacles of one map. cx and cy are the centre of
// the map's centrepiece.
type mapBuilder struct {
	w, h      float64
	cx, cy    float64
	fieldTop  float64
	obstacles []*Obstacle
}

func (b *mapBuilder) add(o ...*Obstacle) {
	b.obstacles = append(b.obstacles, o...)
}

func circle(x, y, r, restitution float64, color string) *Obstacle {
	body := physics.NewCircle(x, y, r, physics.BodyOptions{Label: "obstacle", Static: true, Restitution: restitution})
	return newObstacle(body, color)
}

func rect(x, y, width, height, angle, restitution float64, color string) *Obstacle {
	body := physics.NewRectangle(x, y, width, height, physics.BodyOptions{
		Label: "obstacle", Static: true, Restitution: restitution, Angle: angle,
	})
	return newObstacle(body, color)
}

func polygon(x, y float64, sides int, r, angle, restitution float64, color string) *Obstacle {
	body := physics.NewPolygon(x, y, sides, r, physics.BodyOptions{
		Label: "obstacle", Static: true, Restitution: restitution, Angle: angle,
	})
	return newObstacle(body, color)
}

func boosterZone(x, y, width, height, power float64) *Obstacle {
	body := physics.NewRectangle(x, y, width, height, physics.BodyOptions{Label: "booster", Static: true, Sensor: true})
	return newObstacle(body, boosterColor).booster(power)
}

// alternate returns 1 for even i and -1 for odd i.
func alternate(i int) float64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}

// buildObstacles lays out the selected map below fieldTop.
func buildObstacles(m MapType, a Arena, fieldTop float64) ([]*Obstacle, error) {
	b := &mapBuilder{
		w: a.Width, h: a.Height,
		cx: a.Width / 2, cy: fieldTop + mapCenterDrop,
		fieldTop: fieldTop,
	}
	switch m {
	case MapCat:
		b.cat()
	case MapOctopus:
		b.octopus()
	case MapStar:
		b.star()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMap, m)
	}
	b.breakables()
	return b.obstacles, nil
}

// breakables places a row of brittle blocks across the top of the field.
func (b *mapBuilder) breakables() {
	y := b.fieldTop + 20
	for _, f := range []float64{0.15, 0.35, 0.65, 0.85} {
		o := rect(b.w*f, y, 36, 12, 0, 0.6, breakableColor).breakable()
		o.Body.Label = "breakable"
		b.add(o)
	}
}

// wallBumpers adds the pair of bumpers bobbing along both side walls.
func (b *mapBuilder) wallBumpers(startOffset, r, speed, speedStep, amplitude, phaseStep float64, color string) {
	for i := 0; i < 5; i++ {
		y := b.cy + startOffset + float64(i)*150
		if y > b.h-100 {
			break
		}
		s := speed + float64(i)*speedStep
		phase := float64(i) * phaseStep
		b.add(
			circle(40, y, r, 2.0, color).bumper().movingY(s, amplitude, phase),
			circle(b.w-40, y, r, 2.0, color).bumper().movingY(s, amplitude, phase+math.Pi),
		)
	}
}

func (b *mapBuilder) cat() {
	const (
		main   = "#f472b6"
		light  = "#f9a8d4"
		dark   = "#db2777"
		pupil  = "#1a1a2e"
		bright = "#fff"
	)
	cx, cy, w, h := b.cx, b.cy, b.w, b.h
	tones := []string{main, light, dark}

	b.add(
		polygon(cx-90, cy-50, 3, 42, -math.Pi/10, 1.8, main).bumper().rotating(0.008),
		polygon(cx+90, cy-50, 3, 42, math.Pi/10, 1.8, main).bumper().rotating(-0.008),
		circle(cx-55, cy+20, 32, 2.0, pupil).bumper().movingX(1.5, 15, 0),
		circle(cx+55, cy+20, 32, 2.0, pupil).bumper().movingX(1.5, 15, 0),
		circle(cx-62, cy+12, 10, 1.5, bright).blinking(0),
		circle(cx+48, cy+12, 10, 1.5, bright).blinking(0),
		circle(cx, cy+70, 16, 1.5, dark).bumper().movingY(2, 8, 0),
	)

	whiskers := []struct{ x, y, angle, speed float64 }{
		{cx - 120, cy + 55, math.Pi / 15, 0.01},
		{cx - 115, cy + 80, 0, -0.012},
		{cx + 120, cy + 55, -math.Pi / 15, -0.01},
		{cx + 115, cy + 80, 0, 0.012},
	}
	for _, wh := range whiskers {
		b.add(rect(wh.x, wh.y, 55, 4, wh.angle, 1.3, light).rotating(wh.speed))
	}

	for i := 0; i < 3; i++ {
		y := cy + 200 + float64(i)*200
		if y > h-200 {
			break
		}
		b.add(rect(cx, y, 120, 10, 0, 1.5, dark).rotating(alternate(i) * 0.025))
	}

	for i := 0; i < 4; i++ {
		y := cy + 300 + float64(i)*180
		if y > h-150 {
			break
		}
		b.add(circle(cx, y, 22, 2.0, main).bumper().movingX(2.5+float64(i)*0.5, 130, float64(i)*math.Pi/2))
	}

	for row := 0; row < 4; row++ {
		y := cy + 250 + float64(row)*150
		if y > h-150 {
			break
		}
		for i, x := range []float64{w * 0.2, w * 0.8} {
			o := circle(x, y+float64(i)*50, 16, 1.9, tones[(row+i)%3]).bumper()
			if (row+i)%2 == 0 {
				o.blinking(float64(row) * math.Pi / 3)
			} else {
				o.movingX(1.8, 40, float64(row)*math.Pi/4)
			}
			b.add(o)
		}
	}

	b.wallBumpers(150, 14, 1.5, 0.2, 30, math.Pi/3, main)

	for i := 0; i < 3; i++ {
		y := cy + 400 + float64(i)*200
		if y > h-200 {
			break
		}
		b.add(rect(cx-alternate(i)*60, y, 90, 8, 0, 1.2, bright).spinner(0.18))
	}

	if y := cy + 550; y < h-150 {
		b.add(boosterZone(w*0.15, y, 50, 80, 1.6), boosterZone(w*0.85, y, 50, 80, 1.6))
	}
}

func (b *mapBuilder) octopus() {
	const (
		main   = "#8b5cf6"
		light  = "#a78bfa"
		dark   = "#6d28d9"
		accent = "#c4b5fd"
		pupil  = "#1a1a2e"
	)
	cx, cy, w, h := b.cx, b.cy, b.w, b.h
	tones := []string{main, light, dark, accent}

	b.add(
		circle(cx, cy, 55, 2.0, main).bumper().movingY(1.2, 20, 0),
		circle(cx-18, cy-8, 14, 1.5, "#fff").movingX(2, 8, 0),
		circle(cx+18, cy-8, 14, 1.5, "#fff").movingX(2, 8, 0),
		circle(cx-18, cy-5, 6, 1.2, pupil).blinking(0),
		circle(cx+18, cy-5, 6, 1.2, pupil).blinking(0),
	)

	for i := 0; i < 4; i++ {
		y := cy + 180 + float64(i)*180
		if y > h-200 {
			break
		}
		b.add(rect(cx, y, 140, 12, 0, 1.6, tones[i%4]).
			rotating(alternate(i)*0.03).
			movingX(1.2, 50, float64(i)*math.Pi/2))
	}

	for i := 0; i < 3; i++ {
		y := cy + 280 + float64(i)*200
		if y > h-150 {
			break
		}
		speed := 2 + float64(i)*0.4
		b.add(
			circle(w*0.25, y, 20, 2.0, main).bumper().movingX(speed, 100, 0),
			circle(w*0.75, y, 20, 2.0, main).bumper().movingX(speed, 100, math.Pi),
		)
	}

	for row := 0; row < 3; row++ {
		y := cy + 380 + float64(row)*150
		if y > h-150 {
			break
		}
		for col := 0; col < 3; col++ {
			x := w / 4 * float64(col+1)
			o := circle(x, y, 16, 1.9, tones[(row+col)%4]).bumper()
			switch (row + col) % 3 {
			case 0:
				o.blinking(float64(row+col) * math.Pi / 4)
			case 1:
				o.movingY(1.5, 25, float64(col)*math.Pi/3)
			default:
				o.movingX(1.5, 30, float64(row)*math.Pi/3)
			}
			b.add(o)
		}
	}

	b.wallBumpers(120, 13, 1.8, 0, 35, math.Pi/4, main)

	for i := 0; i < 3; i++ {
		y := cy + 450 + float64(i)*180
		if y > h-200 {
			break
		}
		b.add(rect(cx-alternate(i)*70, y, 100, 10, 0, 1.3, light).spinner(0.15))
	}

	if y := cy + 600; y < h-150 {
		b.add(boosterZone(cx, y, 60, 90, 1.6))
	}
}

func (b *mapBuilder) star() {
	const (
		main   = "#fbbf24"
		light  = "#fcd34d"
		dark   = "#f59e0b"
		accent = "#fef3c7"

		points      = 5
		outerRadius = 140.0
		innerRadius = 60.0
	)
	cx, cy, w, h := b.cx, b.cy, b.w, b.h
	tones := []string{main, light, dark}

	for i := 0; i < points; i++ {
		a := float64(i)/points*2*math.Pi - math.Pi/2
		y := cy + math.Sin(a)*outerRadius
		o := circle(cx+math.Cos(a)*outerRadius, y, 28, 2.0, main).bumper()
		if i%2 == 0 {
			o.blinking(float64(i) * math.Pi / 3)
		} else {
			o.movingY(1.5, 20, float64(i)*math.Pi/4)
		}
		b.add(o)
	}

	for i := 0; i < points; i++ {
		a := float64(i)/points*2*math.Pi - math.Pi/2 + math.Pi/points
		b.add(circle(cx+math.Cos(a)*innerRadius, cy+math.Sin(a)*innerRadius, 18, 1.8, dark).
			bumper().
			movingX(1.2, 15, float64(i)*math.Pi/2.5))
	}

	b.add(
		circle(cx, cy, 38, 2.2, dark).bumper().blinking(0),
		circle(cx, cy, 15, 1.5, accent).movingY(2.5, 10, math.Pi/2),
	)

	for i := 0; i < 3; i++ {
		y := cy + 250 + float64(i)*200
		if y > h-200 {
			break
		}
		b.add(rect(cx, y, 150, 10, 0, 1.5, tones[i%3]).
			rotating(alternate(i)*0.025).
			movingX(1.3, 60, float64(i)*math.Pi/2))
	}

	for i := 0; i < 4; i++ {
		y := cy + 350 + float64(i)*160
		if y > h-150 {
			break
		}
		b.add(polygon(cx, y, 5, 22, 0, 2.0, main).
			bumper().
			rotating(0.04).
			movingX(2.5+float64(i)*0.4, 120, float64(i)*math.Pi/3))
	}

	for row := 0; row < 3; row++ {
		y := cy + 300 + float64(row)*180
		if y > h-150 {
			break
		}
		for i, x := range []float64{w * 0.2, w * 0.8} {
			o := circle(x, y+float64(i)*40, 16, 1.9, tones[(row+i)%3]).bumper()
			if (row+i)%2 == 0 {
				o.blinking(float64(row) * math.Pi / 3)
			} else {
				o.movingY(1.6, 30, float64(row)*math.Pi/4)
			}
			b.add(o)
		}
	}

	b.wallBumpers(150, 14, 1.6, 0.2, 35, math.Pi/3, main)

	for i, x := range []float64{w * 0.22, w * 0.78} {
		y := cy + 450
		if y > h-150 {
			continue
		}
		b.add(polygon(x, y, 3, 30, 0, 2.0, dark).
			bumper().
			rotating(alternate(i)*0.025).
			movingX(1.5, 50, float64(i)*math.Pi))
	}

	for i := 0; i < 2; i++ {
		y := cy + 520 + float64(i)*200
		if y > h-200 {
			break
		}
		b.add(rect(cx, y, 130, 8, 0, 1.2, light).spinner(0.14))
	}

	for _, x := range []float64{w * 0.2, w * 0.8} {
		if y := cy + 580; y <= h-150 {
			b.add(boosterZone(x, y, 45, 70, 1.5))
		}
	}
}
