package cityblocks

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"math/rand"
	"os"

	"github.com/unixpickle/model3d/model2d"
)

// ctxCheckEvery is how many loop iterations we run between context checks
const ctxCheckEvery = 1024

// randomDirection picks an axis (50/50) then a sign (50/50).
func randomDirection(rng *rand.Rand) image.Point {
	alongX := rng.Intn(2) == 0
	step := 1
	if rng.Intn(2) == 0 {
		step = -1
	}
	if alongX {
		return image.Pt(step, 0)
	}
	return image.Pt(0, step)
}

// cellCoord turns a grid cell into continuous grid space
func cellCoord(p image.Point) model2d.Coord {
	return model2d.Coord{X: float64(p.X), Y: float64(p.Y)}
}

// calculateDist standard pythag.
func calculateDist(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}

// savePNG to disk
func savePNG(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, buff.Bytes(), 0644)
}

// maxint returns the highest of two ints
func maxint(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// minint returns the lowest of two ints
func minint(a, b int) int {
	if a < b {
		return a
	}
	return b
}
