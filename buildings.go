package cityblocks

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

const (
	// chance a building sits flush against its road
	alignedProbability = 0.6

	// paths are pads barely above the ground
	pathHeight = 0.005

	// path lengths are snapped to 1/pathSteps of a cell so paths can share geometry
	pathSteps = 100
)

// placer handles placing buildings next to roads & resolving the resources
// they're drawn with.
type placer struct {
	rng         *rand.Rand
	cache       *ResourceCache
	factory     Factory
	tiers       Tiers
	palettes    *Palettes
	pathWidth   float64
	maxFailures int
	progress    ProgressFunc
	log         *logrus.Entry
}

// place tries to put count buildings on free cells adjacent to roads.
//
// Each attempt picks a random road cell & direction; the cell in that
// direction must not be a road or already hold a building. Once maxFailures
// attempts in a row have been rejected we give up, returning what we have with
// stalled = true.
func (p *placer) place(ctx context.Context, roads *RoadSet, districts []*District, count int) ([]*Building, []*Path, bool, error) {
	buildings := []*Building{}
	paths := []*Path{}
	taken := map[image.Point]bool{}

	failures := 0
	for i := 0; len(buildings) < count; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return buildings, paths, false, fmt.Errorf("building placement stopped after %d buildings: %w", len(buildings), err)
			}
		}

		dir := randomDirection(p.rng)
		road := roads.Random(p.rng)
		candidate := road.Add(dir)

		if roads.Contains(candidate) || taken[candidate] {
			failures++
			if failures >= p.maxFailures {
				return buildings, paths, true, nil
			}
			continue
		}
		failures = 0
		taken[candidate] = true

		b := p.newBuilding(candidate, road, dir, districts)
		err := p.resolveBuilding(b)
		if err != nil {
			return buildings, paths, false, err
		}
		buildings = append(buildings, b)

		path := newPath(b, p.pathWidth)
		if path == nil {
			continue
		}
		err = p.resolvePath(path)
		if err != nil {
			return buildings, paths, false, err
		}
		paths = append(paths, path)
	}

	return buildings, paths, false, nil
}

// newBuilding rolls the size & alignment of a building at origin
func (p *placer) newBuilding(origin, road, dir image.Point, districts []*District) *Building {
	b := &Building{
		Origin:     origin,
		Road:       road,
		Direction:  dir,
		DistrictID: -1,
		Zone:       ZoneOutskirts,
	}
	if d := districtFor(districts, origin); d != nil {
		b.InCentre = true
		b.DistrictID = d.ID
		b.Zone = d.Zone
	}

	zr := b.Zone.rules()
	b.Footprint = Footprint{
		Width:  math.Floor(p.rng.Float64()*6+5) / 10,
		Depth:  math.Floor(p.rng.Float64()*6+5) / 10,
		Height: math.Floor(p.rng.Float64()*float64(zr.heightRange)) + float64(zr.minHeight),
	}

	b.Aligned = p.rng.Float64() < alignedProbability
	setback := 0.0
	if !b.Aligned {
		setback = p.rng.Float64()
	}
	b.Offset = alignmentOffset(dir, b.Footprint, setback)

	return b
}

// alignmentOffset works out where the centre of a footprint sits in its cell.
// The road is on the cell edge opposite dir; a setback of 0 puts the footprint
// flush against that edge, 1 pushes it to the far side.
// Only the axis facing the road moves & only if the footprint doesn't already
// fill it.
func alignmentOffset(dir image.Point, f Footprint, setback float64) Offset {
	off := Offset{X: 0.5, Y: 0.5}

	switch {
	case dir.X > 0 && f.Width < 1:
		off.X = f.Width/2 + setback*(1-f.Width)
	case dir.X < 0 && f.Width < 1:
		off.X = 1 - f.Width/2 - setback*(1-f.Width)
	case dir.Y > 0 && f.Depth < 1:
		off.Y = f.Depth/2 + setback*(1-f.Depth)
	case dir.Y < 0 && f.Depth < 1:
		off.Y = 1 - f.Depth/2 - setback*(1-f.Depth)
	}

	return off
}

// newPath returns the pad joining b to its road, or nil if b fills its cell.
// The path runs from the road facing edge of the cell to (about) the footprint
// centre; its length is snapped to 1/pathSteps of a cell.
func newPath(b *Building, width float64) *Path {
	f := b.Footprint
	if f.Width >= 1 && f.Depth >= 1 {
		return nil
	}

	path := &Path{
		Origin:    b.Origin,
		Road:      b.Road,
		Footprint: Footprint{Height: pathHeight},
	}

	switch {
	case b.Direction.X > 0: // road on the low x edge
		length := snapPath(b.Offset.X)
		path.Offset = Offset{X: length / 2, Y: b.Offset.Y}
		path.Footprint.Width, path.Footprint.Depth = length, width
	case b.Direction.X < 0: // road on the high x edge
		length := snapPath(1 - b.Offset.X)
		path.Offset = Offset{X: 1 - length/2, Y: b.Offset.Y}
		path.Footprint.Width, path.Footprint.Depth = length, width
	case b.Direction.Y > 0:
		length := snapPath(b.Offset.Y)
		path.Offset = Offset{X: b.Offset.X, Y: length / 2}
		path.Footprint.Width, path.Footprint.Depth = width, length
	default:
		length := snapPath(1 - b.Offset.Y)
		path.Offset = Offset{X: b.Offset.X, Y: 1 - length/2}
		path.Footprint.Width, path.Footprint.Depth = width, length
	}

	return path
}

func snapPath(length float64) float64 {
	return math.Round(length*pathSteps) / pathSteps
}

// resolveBuilding picks a texture for b & makes sure the cache holds its
// geometry, material & texture set.
func (p *placer) resolveBuilding(b *Building) error {
	palette := b.Zone.palette(p.palettes)
	b.Texture = palette[p.rng.Intn(len(palette))]

	b.GeometryKey = geometryKey(b.Footprint)
	_, err := p.cache.Geometry(b.GeometryKey, func() (Resource, error) {
		return p.factory.Box(b.Footprint.Width, b.Footprint.Height, b.Footprint.Depth)
	})
	if err != nil {
		return fmt.Errorf("geometry %s: %w", b.GeometryKey, err)
	}

	// textures repeat once per floor
	repeatX, repeatY := 1, int(b.Footprint.Height)
	tier := p.tiers.Building

	b.MaterialKey = materialKey(b.Texture, tier, repeatX, repeatY)
	_, err = p.cache.Material(b.MaterialKey, func() (Resource, error) {
		set, err := p.cache.MultiTexture(multiTextureKey(b.Texture, tier), func() (*MultiTexture, error) {
			return p.loadMultiTexture(b.Texture, tier)
		})
		if err != nil {
			return nil, err
		}
		return p.factory.Material(&MaterialRequest{
			Name:    b.Texture,
			Tier:    tier,
			Maps:    set.maps(),
			RepeatX: repeatX,
			RepeatY: repeatY,
		})
	})
	if err != nil {
		return fmt.Errorf("material %s: %w", b.MaterialKey, err)
	}

	return nil
}

// loadMultiTexture asks the factory for all three maps of a texture set.
// If any fail the ones we did load are released.
func (p *placer) loadMultiTexture(name, tier string) (*MultiTexture, error) {
	loaded := []Resource{}
	for _, kind := range []TextureKind{TextureMap, TextureNormal, TextureAO} {
		r, err := p.factory.Texture(name, kind, tier)
		if err != nil {
			for _, l := range loaded {
				l.Release()
			}
			return nil, fmt.Errorf("texture %s/%s@%s: %w", name, kind, tier, err)
		}
		loaded = append(loaded, r)
	}

	p.log.WithFields(logrus.Fields{"texture": name, "tier": tier}).Debug("loaded texture set")
	p.progress.tick()

	return &MultiTexture{Map: loaded[0], Normal: loaded[1], AO: loaded[2]}, nil
}

// resolvePath picks a texture for the path & makes sure the cache holds its
// geometry, material & texture.
func (p *placer) resolvePath(path *Path) error {
	path.Texture = p.palettes.Path[p.rng.Intn(len(p.palettes.Path))]
	tier := p.tiers.Path

	path.GeometryKey = geometryKey(path.Footprint)
	_, err := p.cache.Geometry(path.GeometryKey, func() (Resource, error) {
		return p.factory.Box(path.Footprint.Width, path.Footprint.Height, path.Footprint.Depth)
	})
	if err != nil {
		return fmt.Errorf("geometry %s: %w", path.GeometryKey, err)
	}

	path.MaterialKey = materialKey(path.Texture, tier, 1, 1)
	_, err = p.cache.Material(path.MaterialKey, func() (Resource, error) {
		tex, err := p.cache.Texture(textureKey(path.Texture, tier), func() (Resource, error) {
			r, err := p.factory.Texture(path.Texture, TextureMap, tier)
			if err != nil {
				return nil, err
			}
			p.progress.tick()
			return r, nil
		})
		if err != nil {
			return nil, err
		}
		return p.factory.Material(&MaterialRequest{
			Name:    path.Texture,
			Tier:    tier,
			Maps:    []Resource{tex},
			RepeatX: 1,
			RepeatY: 1,
		})
	})
	if err != nil {
		return fmt.Errorf("material %s: %w", path.MaterialKey, err)
	}

	return nil
}
