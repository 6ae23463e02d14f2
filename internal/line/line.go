package line

import (
	"image"
)

// Walk calls fn for every cell on the line from a to b (inclusive) using
// Bresenham's algorithm. Cells are visited in order starting at a.
func Walk(a, b image.Point, fn func(image.Point)) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)

	err := dx + dy
	x, y := a.X, a.Y
	for {
		fn(image.Pt(x, y))
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func sign(a int) int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	}
	return 0
}
