package mesh

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/cityblocks"
)

func testConfig(seed int64) *cityblocks.Config {
	cfg := cityblocks.DefaultConfig()
	cfg.Seed = seed
	cfg.TileCount = 120
	cfg.BuildingCount = 80
	return cfg
}

func TestFactory_Box(t *testing.T) {
	f := NewFactory()

	r, err := f.Box(0.5, 3, 0.7)
	require.NoError(t, err)

	h := r.(*Handle)
	assert.Equal(t, KindBox, h.Kind)
	require.NotNil(t, h.Mesh)
	assert.InDelta(t, 0.5, h.Mesh.Max().X, 1e-9)
	assert.InDelta(t, 0.7, h.Mesh.Max().Y, 1e-9)
	assert.InDelta(t, 3, h.Mesh.Max().Z, 1e-9)
	assert.InDelta(t, 0, h.Mesh.Min().Z, 1e-9)

	_, err = f.Box(0, 1, 1)
	assert.Error(t, err)
}

func TestFactory_TracksLiveHandles(t *testing.T) {
	f := NewFactory()

	tex, err := f.Texture("brick", cityblocks.TextureMap, "1k")
	require.NoError(t, err)
	mat, err := f.Material(&cityblocks.MaterialRequest{Name: "brick", Tier: "1k", Maps: []cityblocks.Resource{tex}, RepeatX: 1, RepeatY: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, f.Live())
	assert.Equal(t, map[Kind]int{KindTexture: 1, KindMaterial: 1}, f.LiveByKind())

	mat.Release()
	mat.Release()
	assert.Equal(t, 1, f.Live())
	assert.Equal(t, 1, f.DoubleReleases())
	assert.Equal(t, 2, f.Created())

	_, err = f.Material(&cityblocks.MaterialRequest{Name: "empty"})
	assert.Error(t, err)
	_, err = f.Texture("", cityblocks.TextureAO, "1k")
	assert.Error(t, err)
}

func TestFactory_CityLeavesNothingLive(t *testing.T) {
	f := NewFactory()

	city, err := cityblocks.New(context.Background(), testConfig(1), f)
	require.NoError(t, err)
	assert.Greater(t, f.Live(), 0)

	city.Dispose()
	assert.Equal(t, 0, f.Live())
	assert.Equal(t, 0, f.DoubleReleases())
}

func TestFactory_ConcurrentCitiesSharedCache(t *testing.T) {
	f := NewFactory()
	cache := cityblocks.NewResourceCache()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			city, err := cityblocks.New(context.Background(), testConfig(seed), f, cityblocks.WithCache(cache))
			if assert.NoError(t, err) {
				city.Dispose()
			}
		}(int64(i + 1))
	}
	wg.Wait()

	// what is left live is what the cache holds, each texture set being three handles
	assert.Equal(t, f.Live(), cache.Len()+cache.Stats().MultiTexture.Entries*2)

	cache.DisposeAll()
	assert.Equal(t, 0, f.Live())
	assert.Equal(t, 0, f.DoubleReleases())
}

func TestScene(t *testing.T) {
	city, err := cityblocks.New(context.Background(), testConfig(5), NewFactory())
	require.NoError(t, err)
	defer city.Dispose()

	m := Scene(city)
	ground := city.Grid.Ground()

	assert.InDelta(t, ground.Lo().X, m.Min().X, 1e-9)
	assert.InDelta(t, ground.Hi().Y, m.Max().Y, 1e-9)
	assert.InDelta(t, -cityblocks.GroundThickness*city.Scale(), m.Min().Z, 1e-9)

	tallest := 0.0
	for _, b := range city.Buildings {
		if b.Footprint.Height > tallest {
			tallest = b.Footprint.Height
		}
	}
	assert.InDelta(t, tallest*city.Scale(), m.Max().Z, 1e-9)
}

func TestSaveSTL(t *testing.T) {
	city, err := cityblocks.New(context.Background(), testConfig(6), NewFactory())
	require.NoError(t, err)
	defer city.Dispose()

	fpath := filepath.Join(t.TempDir(), "city.stl")
	require.NoError(t, SaveSTL(city, fpath))

	info, err := os.Stat(fpath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
