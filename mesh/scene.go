package mesh

import (
	"image"

	"github.com/unixpickle/model3d/model3d"

	"github.com/voidshard/cityblocks"
)

// Scene returns the city as a single world space mesh; the ground slab with
// its top at z=0 plus every building & path.
func Scene(c *cityblocks.City) *model3d.Mesh {
	m := model3d.NewMesh()
	s := c.Scale()

	if c.Grid != nil {
		ground := c.Grid.Ground()
		addBox(
			m,
			model3d.XYZ(ground.Lo().X, ground.Lo().Y, -cityblocks.GroundThickness*s),
			model3d.XYZ(ground.Hi().X, ground.Hi().Y, 0),
		)
	}

	for _, p := range c.Paths {
		addFootprint(m, p.Origin, p.Offset, p.Footprint, s)
	}
	for _, b := range c.Buildings {
		addFootprint(m, b.Origin, b.Offset, b.Footprint, s)
	}

	return m
}

// SaveSTL writes the city Scene to path
func SaveSTL(c *cityblocks.City, path string) error {
	return Scene(c).SaveGroupedSTL(path)
}

// addFootprint adds a box of footprint f centred at offset within the cell at
// origin, standing on z=0
func addFootprint(m *model3d.Mesh, origin image.Point, off cityblocks.Offset, f cityblocks.Footprint, scale float64) {
	cx := (float64(origin.X) + off.X) * scale
	cy := (float64(origin.Y) + off.Y) * scale
	hw := f.Width * scale / 2
	hd := f.Depth * scale / 2
	addBox(m, model3d.XYZ(cx-hw, cy-hd, 0), model3d.XYZ(cx+hw, cy+hd, f.Height*scale))
}
