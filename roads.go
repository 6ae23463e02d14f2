package cityblocks

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"math/rand"
)

// Axis is the axis a road cell was grown along.
type Axis int

const (
	AxisNone Axis = iota // the origin
	AxisX
	AxisY
)

func axisOf(dir image.Point) Axis {
	switch {
	case dir.X != 0:
		return AxisX
	case dir.Y != 0:
		return AxisY
	}
	return AxisNone
}

// RoadSet is the set of road cells of a city. It always holds the origin and
// every other member is connected to the origin through unit steps over
// members.
//
// Members are kept in insertion order along with the axis each was grown on.
type RoadSet struct {
	cells []image.Point
	axes  []Axis
	index map[image.Point]int

	// column x -> y values, row y -> x values
	byColumn map[int][]int
	byRow    map[int][]int

	min, max image.Point
}

// newRoadSet returns a RoadSet holding only the origin
func newRoadSet() *RoadSet {
	r := &RoadSet{
		cells:    []image.Point{},
		axes:     []Axis{},
		index:    map[image.Point]int{},
		byColumn: map[int][]int{},
		byRow:    map[int][]int{},
	}
	r.add(image.Point{}, AxisNone)
	return r
}

func (r *RoadSet) add(p image.Point, a Axis) {
	if _, ok := r.index[p]; ok {
		return
	}
	if len(r.cells) == 0 {
		r.min, r.max = p, p
	}
	r.index[p] = len(r.cells)
	r.cells = append(r.cells, p)
	r.axes = append(r.axes, a)
	r.byColumn[p.X] = append(r.byColumn[p.X], p.Y)
	r.byRow[p.Y] = append(r.byRow[p.Y], p.X)

	r.min = image.Pt(minint(r.min.X, p.X), minint(r.min.Y, p.Y))
	r.max = image.Pt(maxint(r.max.X, p.X), maxint(r.max.Y, p.Y))
}

// Contains returns if p is a road
func (r *RoadSet) Contains(p image.Point) bool {
	_, ok := r.index[p]
	return ok
}

// Len returns the number of road cells, including the origin
func (r *RoadSet) Len() int {
	return len(r.cells)
}

// Cells returns a copy of all road cells in insertion order
func (r *RoadSet) Cells() []image.Point {
	out := make([]image.Point, len(r.cells))
	copy(out, r.cells)
	return out
}

// Axis returns the axis p was grown along, AxisNone for the origin or a non member.
func (r *RoadSet) Axis(p image.Point) Axis {
	i, ok := r.index[p]
	if !ok {
		return AxisNone
	}
	return r.axes[i]
}

// Random returns a uniformly chosen member
func (r *RoadSet) Random(rng *rand.Rand) image.Point {
	return r.cells[rng.Intn(len(r.cells))]
}

// Bounds returns the bounding box of all road cells (Max is exclusive, as with
// any image.Rectangle).
func (r *RoadSet) Bounds() image.Rectangle {
	return image.Rect(r.min.X, r.min.Y, r.max.X+1, r.max.Y+1)
}

// Size of the bounding box in cells
func (r *RoadSet) Size() image.Point {
	return r.Bounds().Size()
}

// MarshalJSON writes the road cells in insertion order
func (r *RoadSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.cells)
}

// tooClose returns if a candidate reached by stepping along dir sits within
// spacing of a member on the same line.
// Growing along X we look down the candidate's column, growing along Y we look
// along its row; a road can't run alongside another road too closely.
func (r *RoadSet) tooClose(candidate, dir image.Point, sp Spacing) bool {
	if dir.X != 0 {
		for _, y := range r.byColumn[candidate.X] {
			if math.Abs(float64(y-candidate.Y)) <= sp.Y {
				return true
			}
		}
		return false
	}
	for _, x := range r.byRow[candidate.Y] {
		if math.Abs(float64(x-candidate.X)) <= sp.X {
			return true
		}
	}
	return false
}

// generateRoads grows a road network from the origin until tiles cells have
// been added.
// Returns stalled = true (and whatever we managed) if maxFailures candidates
// in a row are rejected.
func generateRoads(ctx context.Context, rng *rand.Rand, sp Spacing, tiles, maxFailures int) (*RoadSet, bool, error) {
	roads := newRoadSet()

	failures := 0
	for i := 0; roads.Len()-1 < tiles; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return roads, false, fmt.Errorf("road layout stopped after %d tiles: %w", roads.Len()-1, err)
			}
		}

		base := roads.Random(rng)
		dir := randomDirection(rng)
		candidate := base.Add(dir)

		if roads.Contains(candidate) || roads.tooClose(candidate, dir, sp) {
			failures++
			if failures >= maxFailures {
				return roads, true, nil
			}
			continue
		}

		failures = 0
		roads.add(candidate, axisOf(dir))
	}

	return roads, false, nil
}
