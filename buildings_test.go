package cityblocks

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"
)

func testPlacer(seed int64, f Factory, cache *ResourceCache, maxFailures int) *placer {
	palettes := defaultPalettes()
	return &placer{
		rng:         rand.New(rand.NewSource(seed)),
		cache:       cache,
		factory:     f,
		tiers:       DefaultConfig().Tiers,
		palettes:    &palettes,
		pathWidth:   defaultPathWidth,
		maxFailures: maxFailures,
		log:         logrus.WithField("test", true),
	}
}

func TestPlace_OriginsFreeAndUnique(t *testing.T) {
	roads := testRoads(t, 21, 300)
	districts := assignDistricts(rand.New(rand.NewSource(21)), roads, 2)
	p := testPlacer(21, &stubFactory{}, NewResourceCache(), defaultMaxBuildingFailures)

	buildings, paths, stalled, err := p.place(context.Background(), roads, districts, 200)
	require.NoError(t, err)
	assert.False(t, stalled)
	assert.Len(t, buildings, 200)

	seen := map[image.Point]bool{}
	for _, b := range buildings {
		assert.False(t, roads.Contains(b.Origin), "building on road %v", b.Origin)
		assert.False(t, seen[b.Origin], "duplicate origin %v", b.Origin)
		seen[b.Origin] = true

		assert.True(t, roads.Contains(b.Road))
		assert.Equal(t, b.Origin, b.Road.Add(b.Direction))
		assert.Contains(t, []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}, b.Direction)
	}
	for _, path := range paths {
		assert.True(t, seen[path.Origin])
	}
}

func TestPlace_FootprintRules(t *testing.T) {
	roads := testRoads(t, 8, 300)
	districts := assignDistricts(rand.New(rand.NewSource(8)), roads, 1)
	p := testPlacer(8, &stubFactory{}, NewResourceCache(), defaultMaxBuildingFailures)

	buildings, _, _, err := p.place(context.Background(), roads, districts, 250)
	require.NoError(t, err)

	for _, b := range buildings {
		for _, dim := range []float64{b.Footprint.Width, b.Footprint.Depth} {
			tenths := math.Round(dim * 10)
			assert.InDelta(t, tenths, dim*10, 1e-9)
			assert.GreaterOrEqual(t, tenths, 5.0)
			assert.LessOrEqual(t, tenths, 10.0)
		}

		d := districtFor(districts, b.Origin)
		assert.Equal(t, d != nil, b.InCentre)
		if b.InCentre {
			assert.Equal(t, d.ID, b.DistrictID)
			assert.GreaterOrEqual(t, b.Footprint.Height, 3.0)
			assert.LessOrEqual(t, b.Footprint.Height, 8.0)
			assert.Contains(t, defaultPalettes().Centre, b.Texture)
		} else {
			assert.Equal(t, -1, b.DistrictID)
			assert.GreaterOrEqual(t, b.Footprint.Height, 1.0)
			assert.LessOrEqual(t, b.Footprint.Height, 2.0)
			assert.Contains(t, defaultPalettes().Outskirts, b.Texture)
		}

		assert.Equal(t, geometryKey(b.Footprint), b.GeometryKey)
		assert.GreaterOrEqual(t, b.Offset.X, 0.0)
		assert.LessOrEqual(t, b.Offset.X, 1.0)
		assert.GreaterOrEqual(t, b.Offset.Y, 0.0)
		assert.LessOrEqual(t, b.Offset.Y, 1.0)
	}
}

func TestPlace_ZeroCount_NothingCached(t *testing.T) {
	f := &stubFactory{}
	cache := NewResourceCache()
	p := testPlacer(1, f, cache, defaultMaxBuildingFailures)

	buildings, paths, stalled, err := p.place(context.Background(), testRoads(t, 1, 50), nil, 0)
	require.NoError(t, err)

	assert.False(t, stalled)
	assert.Empty(t, buildings)
	assert.Empty(t, paths)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, f.total())
}

func TestPlace_NoRoom_Stalls(t *testing.T) {
	// a lone road cell only has 4 free neighbours
	p := testPlacer(3, &stubFactory{}, NewResourceCache(), 1000)

	buildings, _, stalled, err := p.place(context.Background(), newRoadSet(), nil, 10)
	require.NoError(t, err)

	assert.True(t, stalled)
	assert.Len(t, buildings, 4)
}

func TestPlace_ResourcesShared(t *testing.T) {
	f := &stubFactory{}
	cache := NewResourceCache()
	p := testPlacer(12, f, cache, defaultMaxBuildingFailures)
	ticks := 0
	p.progress = func() { ticks++ }

	buildings, paths, _, err := p.place(context.Background(), testRoads(t, 12, 300), nil, 150)
	require.NoError(t, err)

	keys := map[string]bool{}
	for _, b := range buildings {
		keys[b.GeometryKey] = true
	}
	for _, path := range paths {
		keys[path.GeometryKey] = true
	}

	stats := cache.Stats()
	assert.Equal(t, len(keys), stats.Geometry.Entries)
	assert.Equal(t, f.boxes, stats.Geometry.Entries)
	assert.Equal(t, f.materials, stats.Material.Entries)
	assert.Equal(t, f.textures, 3*stats.MultiTexture.Entries+stats.Texture.Entries)
	assert.Equal(t, stats.MultiTexture.Entries+stats.Texture.Entries, ticks)
	assert.Less(t, stats.Geometry.Entries, len(buildings)+len(paths))
}

func TestPlace_CachedGeometryMatchesFootprint(t *testing.T) {
	cache := NewResourceCache()
	p := testPlacer(12, &stubFactory{}, cache, defaultMaxBuildingFailures)

	buildings, paths, _, err := p.place(context.Background(), testRoads(t, 12, 300), nil, 200)
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	notCached := func() (Resource, error) { return nil, fmt.Errorf("not cached") }
	check := func(key string, f Footprint) {
		r, err := cache.Geometry(key, notCached)
		require.NoError(t, err)
		box := r.(*stubResource)
		assert.Equal(t, [3]float64{f.Width, f.Height, f.Depth}, box.size, key)
	}

	for _, b := range buildings {
		check(b.GeometryKey, b.Footprint)
	}
	for _, path := range paths {
		check(path.GeometryKey, path.Footprint)
		for _, dim := range []float64{path.Footprint.Width, path.Footprint.Depth} {
			assert.InDelta(t, math.Round(dim*pathSteps), dim*pathSteps, 1e-9)
		}
	}
}

func TestPlace_FactoryError(t *testing.T) {
	f := &stubFactory{failTexture: true}
	cache := NewResourceCache()
	p := testPlacer(2, f, cache, defaultMaxBuildingFailures)

	_, _, _, err := p.place(context.Background(), testRoads(t, 2, 50), nil, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "texture")

	// nothing half built is left in the material or texture set stores
	stats := cache.Stats()
	assert.Equal(t, 0, stats.Material.Entries)
	assert.Equal(t, 0, stats.MultiTexture.Entries)
}

func TestPlace_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testPlacer(2, &stubFactory{}, NewResourceCache(), defaultMaxBuildingFailures)
	_, _, _, err := p.place(ctx, testRoads(t, 2, 50), nil, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAlignmentOffset(t *testing.T) {
	tests := []struct {
		name    string
		dir     image.Point
		f       Footprint
		setback float64
		want    Offset
	}{
		{"east aligned", image.Pt(1, 0), Footprint{Width: 0.5, Depth: 0.7}, 0, Offset{X: 0.25, Y: 0.5}},
		{"west aligned", image.Pt(-1, 0), Footprint{Width: 0.5, Depth: 0.7}, 0, Offset{X: 0.75, Y: 0.5}},
		{"south aligned", image.Pt(0, 1), Footprint{Width: 0.5, Depth: 0.6}, 0, Offset{X: 0.5, Y: 0.3}},
		{"north aligned", image.Pt(0, -1), Footprint{Width: 0.5, Depth: 0.6}, 0, Offset{X: 0.5, Y: 0.7}},
		{"east set back fully", image.Pt(1, 0), Footprint{Width: 0.5, Depth: 0.7}, 1, Offset{X: 0.75, Y: 0.5}},
		{"west set back half", image.Pt(-1, 0), Footprint{Width: 0.6, Depth: 0.7}, 0.5, Offset{X: 0.5, Y: 0.5}},
		{"full width ignores alignment", image.Pt(1, 0), Footprint{Width: 1, Depth: 0.5}, 0, Offset{X: 0.5, Y: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignmentOffset(tt.dir, tt.f, tt.setback)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestNewPath(t *testing.T) {
	full := &Building{Direction: image.Pt(1, 0), Footprint: Footprint{Width: 1, Depth: 1, Height: 2}, Offset: Offset{X: 0.5, Y: 0.5}}
	assert.Nil(t, newPath(full, 0.2))

	east := &Building{
		Origin:    image.Pt(4, 4),
		Road:      image.Pt(3, 4),
		Direction: image.Pt(1, 0),
		Footprint: Footprint{Width: 0.5, Depth: 0.8, Height: 1},
		Offset:    Offset{X: 0.25, Y: 0.5},
	}
	path := newPath(east, 0.2)
	require.NotNil(t, path)
	assert.Equal(t, east.Origin, path.Origin)
	assert.Equal(t, east.Road, path.Road)
	assert.InDelta(t, 0.125, path.Offset.X, 1e-9)
	assert.InDelta(t, 0.5, path.Offset.Y, 1e-9)
	assert.InDelta(t, 0.25, path.Footprint.Width, 1e-9)
	assert.InDelta(t, 0.2, path.Footprint.Depth, 1e-9)
	assert.InDelta(t, pathHeight, path.Footprint.Height, 1e-12)

	north := &Building{
		Direction: image.Pt(0, -1),
		Footprint: Footprint{Width: 0.7, Depth: 0.6, Height: 1},
		Offset:    Offset{X: 0.5, Y: 0.7},
	}
	path = newPath(north, 0.2)
	require.NotNil(t, path)
	assert.InDelta(t, 0.85, path.Offset.Y, 1e-9)
	assert.InDelta(t, 0.3, path.Footprint.Depth, 1e-9)
	assert.InDelta(t, 0.2, path.Footprint.Width, 1e-9)
}

func TestNewBuilding_ZoneFromDistrict(t *testing.T) {
	d := &District{ID: 0, Zone: ZoneCentre, Centre: model2d.Coord{}, Radius: 3}
	p := testPlacer(1, &stubFactory{}, NewResourceCache(), 10)

	in := p.newBuilding(image.Pt(1, 0), image.Point{}, image.Pt(1, 0), []*District{d})
	assert.True(t, in.InCentre)
	assert.Equal(t, ZoneCentre, in.Zone)

	out := p.newBuilding(image.Pt(9, 0), image.Pt(8, 0), image.Pt(1, 0), []*District{d})
	assert.False(t, out.InCentre)
	assert.Equal(t, ZoneOutskirts, out.Zone)
	assert.Equal(t, -1, out.DistrictID)
}
