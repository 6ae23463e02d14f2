package cityblocks

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/boljen/go-bitmap"
	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"golang.org/x/image/colornames"

	"github.com/voidshard/cityblocks/internal/encoding"
	"github.com/voidshard/cityblocks/internal/line"
)

const (
	// bit numbers for our bitmap
	bitRoad     = 0
	bitBuilding = 1
	bitPath     = 2
	bitDistrict = 3
	bitGrid     = 4
)

// CityMap is a graphical representation of a City, one pixel per cell.
type CityMap interface {
	// Save as custom file in a format defined by the library
	Save(fpath string) error

	// SaveAdv saves as an image with the given color scheme, each cell
	// drawn cellPx pixels wide
	SaveAdv(fpath string, scheme *ColourScheme, cellPx int) error

	// CustomImage returns an image with the given color scheme
	CustomImage(scheme *ColourScheme, cellPx int) (image.Image, error)

	// Bounds of the map in cells
	Bounds() image.Rectangle

	IsRoad(x, y int) bool
	IsBuilding(x, y int) bool
	IsPath(x, y int) bool
	IsGridLine(x, y int) bool

	// District returns the zone & district id at the given x,y.
	// The id is -1 outside of any district.
	District(x, y int) (ZoneType, int, error)

	// BuildingIndex returns the index into City.Buildings of the building
	// at x,y or -1 if there isn't one.
	BuildingIndex(x, y int) (int, error)
}

// imageMap is a particular implementation of CityMap using a RGBA64,
// see encoding.Pixel for how each pixel is split up.
type imageMap struct {
	im   *image.RGBA64
	city *City
}

// ColourScheme defines how various features in a city should be coloured.
type ColourScheme struct {
	Ground    color.Color
	Roads     color.Color
	Buildings color.Color
	Paths     color.Color
	Grid      color.Color
	Markers   color.Color
	Zones     map[ZoneType]color.Color
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Ground:    colornames.Whitesmoke,
		Roads:     colornames.Dimgray,
		Buildings: colornames.Black,
		Paths:     colornames.Darkgray,
		Grid:      colornames.Lightblue,
		Markers:   colornames.Crimson,
		Zones: map[ZoneType]color.Color{
			ZoneCentre:    colornames.Gold,
			ZoneSubCentre: colornames.Khaki,
		},
	}
}

// newMap rasterises the given city
func newMap(c *City) *imageMap {
	m := &imageMap{
		im:   image.NewRGBA64(mapBounds(c)),
		city: c,
	}

	bnds := m.im.Bounds()
	for y := bnds.Min.Y; y < bnds.Max.Y; y++ {
		for x := bnds.Min.X; x < bnds.Max.X; x++ {
			d := districtFor(c.Districts, image.Pt(x, y))
			if d != nil {
				m.setDistrict(x, y, d)
			}
		}
	}

	for _, p := range c.Roads.Cells() {
		m.setFlag(p.X, p.Y, bitRoad)
	}
	for i, b := range c.Buildings {
		m.setBuilding(b.Origin.X, b.Origin.Y, i)
	}
	for _, p := range c.Paths {
		m.setFlag(p.Origin.X, p.Origin.Y, bitPath)
	}

	if c.Grid != nil {
		for _, l := range c.Grid.Lines() {
			a := m.clamp(worldToCell(l[0], c.Scale()))
			b := m.clamp(worldToCell(l[1], c.Scale()))
			line.Walk(a, b, func(p image.Point) {
				m.setFlag(p.X, p.Y, bitGrid)
			})
		}
	}

	return m
}

// mapBounds covers the ground under the city, the roads & every building
func mapBounds(c *City) image.Rectangle {
	bnds := c.Roads.Bounds()
	if c.Grid != nil {
		ground := c.Grid.Ground()
		s := c.Scale()
		bnds = bnds.Union(image.Rect(
			int(math.Floor(ground.Lo().X/s)),
			int(math.Floor(ground.Lo().Y/s)),
			int(math.Ceil(ground.Hi().X/s)),
			int(math.Ceil(ground.Hi().Y/s)),
		))
	}
	for _, b := range c.Buildings {
		bnds = bnds.Union(image.Rect(b.Origin.X, b.Origin.Y, b.Origin.X+1, b.Origin.Y+1))
	}
	return bnds
}

// worldToCell returns the cell a world space point falls in
func worldToCell(p r2.Point, scale float64) image.Point {
	return image.Pt(int(math.Floor(p.X/scale)), int(math.Floor(p.Y/scale)))
}

// clamp p into the map bounds
func (c *imageMap) clamp(p image.Point) image.Point {
	bnds := c.im.Bounds()
	return image.Pt(
		maxint(bnds.Min.X, minint(p.X, bnds.Max.X-1)),
		maxint(bnds.Min.Y, minint(p.Y, bnds.Max.Y-1)),
	)
}

// Bounds of the map in cells
func (c *imageMap) Bounds() image.Rectangle {
	return c.im.Bounds()
}

// Save the CityMap as is to disk
func (c *imageMap) Save(fpath string) error {
	return savePNG(fpath, c.im)
}

// CustomImage returns the CityMap coloured with the given Scheme.
// Buildings & paths are drawn at their real footprint within their cell,
// district markers & the grid are drawn only if visible.
func (c *imageMap) CustomImage(scheme *ColourScheme, cellPx int) (image.Image, error) {
	if scheme == nil {
		scheme = DefaultScheme()
	}
	if cellPx < 1 {
		cellPx = 1
	}

	bnds := c.im.Bounds()
	px := float64(cellPx)
	toPx := func(x, y float64) (float64, float64) {
		return (x - float64(bnds.Min.X)) * px, (y - float64(bnds.Min.Y)) * px
	}

	ctx := gg.NewContext(bnds.Dx()*cellPx, bnds.Dy()*cellPx)
	if scheme.Ground != nil {
		ctx.SetColor(scheme.Ground)
		ctx.Clear()
	}

	footprints := []int{}
	for dy := bnds.Min.Y; dy < bnds.Max.Y; dy++ {
		for dx := bnds.Min.X; dx < bnds.Max.X; dx++ {
			x, y := toPx(float64(dx), float64(dy))
			bm := c.getBM(dx, dy)

			if bm.Get(bitRoad) {
				ctx.SetColor(scheme.Roads)
				ctx.DrawRectangle(x, y, px, px)
				ctx.Fill()
				continue
			}

			if bm.Get(bitDistrict) {
				zone, _, err := c.District(dx, dy)
				if err != nil {
					return nil, err
				}
				col, ok := scheme.Zones[zone]
				if ok {
					ctx.SetColor(col)
					ctx.DrawRectangle(x, y, px, px)
					ctx.Fill()
				}
			}

			if bm.Get(bitBuilding) {
				idx, err := c.BuildingIndex(dx, dy)
				if err != nil {
					return nil, err
				}
				footprints = append(footprints, idx)
			}
		}
	}

	// paths first so buildings sit on top of them
	ctx.SetColor(scheme.Paths)
	for _, p := range c.city.Paths {
		drawFootprint(ctx, toPx, p.Origin, p.Offset, p.Footprint, px)
	}
	ctx.SetColor(scheme.Buildings)
	for _, idx := range footprints {
		b := c.city.Buildings[idx]
		drawFootprint(ctx, toPx, b.Origin, b.Offset, b.Footprint, px)
	}

	if c.city.Grid != nil && c.city.Grid.Visible {
		ctx.SetColor(scheme.Grid)
		ctx.SetLineWidth(1)
		s := c.city.Scale()
		for _, l := range c.city.Grid.Lines() {
			ax, ay := toPx(l[0].X/s, l[0].Y/s)
			bx, by := toPx(l[1].X/s, l[1].Y/s)
			ctx.DrawLine(ax, ay, bx, by)
			ctx.Stroke()
		}
	}

	ctx.SetColor(scheme.Markers)
	ctx.SetLineWidth(2)
	for _, m := range c.city.Markers {
		if !m.Visible {
			continue
		}
		s := c.city.Scale()
		x, y := toPx(m.Centre.X/s, m.Centre.Y/s)
		ctx.DrawCircle(x, y, m.Radius/s*px)
		ctx.Stroke()
	}

	return ctx.Image(), nil
}

// drawFootprint fills a footprint rectangle within the cell at origin
func drawFootprint(ctx *gg.Context, toPx func(x, y float64) (float64, float64), origin image.Point, off Offset, f Footprint, px float64) {
	x, y := toPx(
		float64(origin.X)+off.X-f.Width/2,
		float64(origin.Y)+off.Y-f.Depth/2,
	)
	ctx.DrawRectangle(x, y, f.Width*px, f.Depth*px)
	ctx.Fill()
}

// SaveAdv essentially saves the CityMap using the given scheme to disk.
// Essentially sugar around "CustomImage()" followed by writing out a PNG.
func (c *imageMap) SaveAdv(fpath string, scheme *ColourScheme, cellPx int) error {
	im, err := c.CustomImage(scheme, cellPx)
	if err != nil {
		return err
	}
	return savePNG(fpath, im)
}

// District returns the zone & district ID at x,y
func (c *imageMap) District(x, y int) (ZoneType, int, error) {
	if c.isOutOfBounds(x, y) {
		return ZoneOutskirts, -1, fmt.Errorf("(%d,%d) is out of bounds", x, y)
	}
	px := c.pixel(x, y)
	return zoneForID(int(px.Zone)), int(px.District) - 1, nil
}

// BuildingIndex returns the index of the building at x,y or -1
func (c *imageMap) BuildingIndex(x, y int) (int, error) {
	if c.isOutOfBounds(x, y) {
		return -1, fmt.Errorf("(%d,%d) is out of bounds", x, y)
	}
	return int(c.pixel(x, y).Building) - 1, nil
}

// IsRoad returns if there is a road at x,y
func (c *imageMap) IsRoad(x, y int) bool {
	return c.hasFlag(x, y, bitRoad)
}

// IsBuilding returns if there is a building at x,y
func (c *imageMap) IsBuilding(x, y int) bool {
	return c.hasFlag(x, y, bitBuilding)
}

// IsPath returns if there is a path at x,y
func (c *imageMap) IsPath(x, y int) bool {
	return c.hasFlag(x, y, bitPath)
}

// IsGridLine returns if a grid overlay line passes through x,y
func (c *imageMap) IsGridLine(x, y int) bool {
	return c.hasFlag(x, y, bitGrid)
}

func (c *imageMap) hasFlag(x, y, bit int) bool {
	if c.isOutOfBounds(x, y) {
		return false
	}
	return c.getBM(x, y).Get(bit)
}

func (c *imageMap) pixel(x, y int) encoding.Pixel {
	return encoding.Unpack(c.im.RGBA64At(x, y))
}

func (c *imageMap) setPixel(x, y int, px encoding.Pixel) {
	c.im.SetRGBA64(x, y, encoding.Pack(px))
}

// setBuilding sets building index i at x,y
func (c *imageMap) setBuilding(x, y, i int) {
	if c.isOutOfBounds(x, y) {
		return
	}
	px := c.pixel(x, y)
	px.Building = uint32(i + 1)
	c.setPixel(x, y, px)
	c.setFlag(x, y, bitBuilding)
}

// setDistrict sets the given district at x,y
func (c *imageMap) setDistrict(x, y int, d *District) {
	px := c.pixel(x, y)
	px.District = uint16(d.ID + 1)
	px.Zone = uint8(d.Zone.ID())
	c.setPixel(x, y, px)
	c.setFlag(x, y, bitDistrict)
}

// setFlag sets the given bit at x,y
func (c *imageMap) setFlag(x, y, bit int) {
	if c.isOutOfBounds(x, y) {
		return
	}
	bm := c.getBM(x, y)
	bm.Set(bit, true)
	c.setBM(x, y, bm)
}

// setBM sets the 8 bit bitmap at x,y
func (c *imageMap) setBM(x, y int, bm bitmap.Bitmap) {
	px := c.pixel(x, y)
	px.Flags = encoding.FromFlagBytes(bm.Data(true))
	c.setPixel(x, y, px)
}

// getBM gets the 8 bit bitmap at x,y
func (c *imageMap) getBM(x, y int) bitmap.Bitmap {
	return bitmap.Bitmap(encoding.FlagBytes(c.pixel(x, y).Flags))
}

// isOutOfBounds determines if x,y is outside of the image area
func (c *imageMap) isOutOfBounds(x, y int) bool {
	return !image.Pt(x, y).In(c.im.Bounds())
}
