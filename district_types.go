package cityblocks

import (
	"sort"

	"github.com/unixpickle/model3d/model2d"
)

// ZoneType indicates roughly what a part of the city is like; which decides
// how tall buildings get and which textures they're dressed in.
type ZoneType string

const (
	ZoneOutskirts ZoneType = "outskirts"  // anything outside of a district
	ZoneCentre    ZoneType = "centre"     // the city centre (first district)
	ZoneSubCentre ZoneType = "sub-centre" // any further districts
)

// zoneRules are the building height rules for a zone,
// height = floor(r * heightRange) + minHeight
type zoneRules struct {
	heightRange int
	minHeight   int
}

var (
	allZones = []ZoneType{ZoneOutskirts, ZoneCentre, ZoneSubCentre}

	zoneindex = map[ZoneType]int{
		ZoneOutskirts: 0,
		ZoneCentre:    1,
		ZoneSubCentre: 2,
	}

	invZoneIndex = map[int]ZoneType{}

	zoneHeights = map[ZoneType]zoneRules{
		ZoneOutskirts: {heightRange: 2, minHeight: 1},
		ZoneCentre:    {heightRange: 6, minHeight: 3},
		ZoneSubCentre: {heightRange: 6, minHeight: 3},
	}
)

func init() {
	for k, v := range zoneindex {
		invZoneIndex[v] = k
	}
}

// defaultPalettes are the texture sets we ship with
func defaultPalettes() Palettes {
	return Palettes{
		Centre:    []string{"concrete", "glass", "steel", "marble", "brick", "tiles"},
		Outskirts: []string{"brick", "plaster", "wood"},
		Path:      []string{"pavement"},
	}
}

// ID returns the index of a zone type
func (z ZoneType) ID() int {
	v, ok := zoneindex[z]
	if !ok {
		return 0
	}
	return v
}

// zoneForID is the inversion of ZoneType.ID()
func zoneForID(i int) ZoneType {
	z, ok := invZoneIndex[i]
	if !ok {
		return ZoneOutskirts
	}
	return z
}

// rules returns the height rules for the zone, outskirts if unknown
func (z ZoneType) rules() zoneRules {
	r, ok := zoneHeights[z]
	if !ok {
		return zoneHeights[ZoneOutskirts]
	}
	return r
}

// palette returns the building textures the zone picks from
func (z ZoneType) palette(p *Palettes) []string {
	if z == ZoneOutskirts {
		return p.Outskirts
	}
	return p.Centre
}

// AllZoneTypes returns all known ZoneType enums
func AllZoneTypes() []ZoneType {
	return allZones
}

// sortDistrictsByDistance sorts districts by how close their centre is to p
func sortDistrictsByDistance(p model2d.Coord, in []*District) {
	sort.SliceStable(in, func(a, b int) bool {
		dista := calculateDist(in[a].Centre.X, in[a].Centre.Y, p.X, p.Y)
		distb := calculateDist(in[b].Centre.X, in[b].Centre.Y, p.X, p.Y)
		return dista < distb
	})
}
