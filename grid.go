package cityblocks

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// GridOverlay is a debug grid drawn over the ground, in world space.
type GridOverlay struct {
	// Size is the length of the (square) grid before ScaleX / ScaleY are applied
	Size float64

	// Divisions is the number of lines along each side
	Divisions int

	// Centre of the road bounding box
	Centre r2.Point

	// ScaleX, ScaleY stretch the square grid onto the ground
	ScaleX float64
	ScaleY float64

	Visible bool
}

// buildGridOverlay sizes a grid to cover the road bounding box plus extra
// cells of ground, scale is the world size of a cell.
func buildGridOverlay(bounds image.Rectangle, scale float64, extra int) *GridOverlay {
	size := bounds.Size()

	world := r2.RectFromPoints(
		r2.Point{X: float64(bounds.Min.X) * scale, Y: float64(bounds.Min.Y) * scale},
		r2.Point{X: float64(bounds.Max.X) * scale, Y: float64(bounds.Max.Y) * scale},
	)
	ground := groundSize(size, scale, extra)
	square := math.Max(ground.X, ground.Y)

	return &GridOverlay{
		Size:      square,
		Divisions: maxint(size.X, size.Y) + extra,
		Centre:    world.Center(),
		ScaleX:    ground.X / square,
		ScaleY:    ground.Y / square,
	}
}

// groundSize is the world size of the ground under a city whose roads span
// size cells
func groundSize(size image.Point, scale float64, extra int) r2.Point {
	return r2.Point{
		X: float64(size.X+extra) * scale,
		Y: float64(size.Y+extra) * scale,
	}
}

// Ground returns the area the grid covers in world space
func (g *GridOverlay) Ground() r2.Rect {
	return r2.RectFromCenterSize(g.Centre, r2.Point{X: g.Size * g.ScaleX, Y: g.Size * g.ScaleY})
}

// Lines returns the grid lines in world space; Divisions+1 lines running
// along Y followed by Divisions+1 running along X.
func (g *GridOverlay) Lines() [][2]r2.Point {
	if g.Divisions < 1 {
		return nil
	}

	ground := g.Ground()
	lo, hi := ground.Lo(), ground.Hi()
	size := ground.Size()
	stepX := size.X / float64(g.Divisions)
	stepY := size.Y / float64(g.Divisions)

	lines := make([][2]r2.Point, 0, 2*(g.Divisions+1))
	for i := 0; i <= g.Divisions; i++ {
		x := lo.X + float64(i)*stepX
		lines = append(lines, [2]r2.Point{{X: x, Y: lo.Y}, {X: x, Y: hi.Y}})
	}
	for i := 0; i <= g.Divisions; i++ {
		y := lo.Y + float64(i)*stepY
		lines = append(lines, [2]r2.Point{{X: lo.X, Y: y}, {X: hi.X, Y: y}})
	}

	return lines
}
