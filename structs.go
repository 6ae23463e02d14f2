package cityblocks

import (
	"image"

	"github.com/unixpickle/model3d/model2d"
)

// CityStats holds generic stats about the city
type CityStats struct {
	RoadsRequested int
	RoadsPlaced    int  // not counting the origin
	RoadsStalled   bool `json:",omitempty"`

	BuildingsRequested int
	BuildingsPlaced    int
	BuildingsStalled   bool `json:",omitempty"`

	Paths int

	// Count of the number of buildings in a given zone
	BuildingsByZone map[ZoneType]int
}

// newCityStats returns blank CityStats
func newCityStats() *CityStats {
	return &CityStats{BuildingsByZone: map[ZoneType]int{}}
}

// increment BuildingsByZone by 1
func (c *CityStats) increment(z ZoneType) {
	c.BuildingsByZone[z]++
}

// count returns number of buildings by zone
func (c *CityStats) count(z ZoneType) int {
	return c.BuildingsByZone[z]
}

// Footprint is the size of a box in cell units.
// Width runs along X, Depth along Y & Height is up.
type Footprint struct {
	Width  float64
	Height float64
	Depth  float64
}

// Offset is where the centre of a footprint sits within its cell, in local
// cell units [0,1] measured from the cell's minimum corner.
type Offset struct {
	X float64
	Y float64
}

// Building is a box placed on a free cell next to a road.
type Building struct {
	// Origin is the cell the building sits on, it's never a road
	Origin image.Point

	// Road is the road cell the building faces, Origin = Road + Direction
	Road      image.Point
	Direction image.Point

	Footprint Footprint
	Offset    Offset

	// Aligned buildings sit flush against the road facing edge of their cell
	Aligned bool

	// InCentre is true if any district contains the building
	InCentre   bool
	DistrictID int // -1 if in no district
	Zone       ZoneType

	// Texture is the palette name the building is dressed in
	Texture     string
	GeometryKey string
	MaterialKey string
}

// Path is a thin pad joining a building that doesn't fill its cell to the road.
type Path struct {
	Origin image.Point
	Road   image.Point

	Footprint Footprint
	Offset    Offset

	Texture     string
	GeometryKey string
	MaterialKey string
}

// DistrictMarker is a debug overlay for a district, in world space.
type DistrictMarker struct {
	DistrictID int
	Centre     model2d.Coord
	Radius     float64
	Visible    bool
}
