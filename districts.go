package cityblocks

import (
	"image"
	"math/rand"

	"github.com/unixpickle/model3d/model2d"
)

// District is a circular area of the city around a road cell.
// Districts are immutable once assigned.
type District struct {
	// ID for this district, the city centre is 0
	ID int

	Zone ZoneType

	// Centre in grid space (cell co-ords)
	Centre model2d.Coord

	// Radius in cells
	Radius float64
}

// Contains returns if p (grid space) is within the district
func (d *District) Contains(p model2d.Coord) bool {
	return d.Centre.Dist(p) <= d.Radius
}

// ContainsCell returns if the given cell is within the district
func (d *District) ContainsCell(p image.Point) bool {
	return d.Contains(cellCoord(p))
}

// districtRadius for a city whose roads span size cells
func districtRadius(rng *rand.Rand, size image.Point) float64 {
	m := float64(minint(size.X, size.Y))
	return rng.Float64()*m/16 + m/8
}

// assignDistricts places up to count districts centred on road cells.
// The first is the city centre. Any further districts (sub-centres) keep at
// least the centre's radius away from existing districts, we give up after
// count*5 attempts so we might return less than asked for.
func assignDistricts(rng *rand.Rand, roads *RoadSet, count int) []*District {
	size := roads.Size()

	centre := &District{
		ID:     0,
		Zone:   ZoneCentre,
		Centre: cellCoord(roads.Random(rng)),
		Radius: districtRadius(rng, size),
	}
	out := []*District{centre}

	for i := 0; i < count*5 && len(out) < count; i++ {
		site := cellCoord(roads.Random(rng))

		ok := true
		for _, d := range out {
			if d.Centre.Dist(site) < centre.Radius {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		out = append(out, &District{
			ID:     len(out),
			Zone:   ZoneSubCentre,
			Centre: site,
			Radius: districtRadius(rng, size),
		})
	}

	return out
}

// districtFor returns the district containing p, or nil.
// If districts overlap the one with the nearest centre wins.
func districtFor(districts []*District, p image.Point) *District {
	c := cellCoord(p)
	var found []*District
	for _, d := range districts {
		if d.Contains(c) {
			found = append(found, d)
		}
	}
	switch len(found) {
	case 0:
		return nil
	case 1:
		return found[0]
	}
	sortDistrictsByDistance(c, found)
	return found[0]
}
