package cityblocks

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/voidshard/cityblocks/internal/store"
)

// MultiTexture is a full texture set (colour, normal & ambient occlusion maps).
type MultiTexture struct {
	Map    Resource
	Normal Resource
	AO     Resource
}

// Release all three maps
func (m *MultiTexture) Release() {
	for _, r := range m.maps() {
		if r != nil {
			r.Release()
		}
	}
}

// maps returns the textures in map, normal, ao order
func (m *MultiTexture) maps() []Resource {
	return []Resource{m.Map, m.Normal, m.AO}
}

// ResourceCache deduplicates renderer resources by key.
//
// Each kind of resource has its own store; for a given key the generator runs
// at most once until DisposeAll is called, including when several sessions
// share one cache across goroutines.
type ResourceCache struct {
	geometry     *store.Store[Resource]
	material     *store.Store[Resource]
	texture      *store.Store[Resource]
	multiTexture *store.Store[*MultiTexture]
}

// StoreStats are the counters of a single store within a ResourceCache
type StoreStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// CacheStats holds StoreStats for each store in a ResourceCache
type CacheStats struct {
	Geometry     StoreStats
	Material     StoreStats
	Texture      StoreStats
	MultiTexture StoreStats
}

// NewResourceCache returns an empty cache
func NewResourceCache() *ResourceCache {
	return &ResourceCache{
		geometry:     store.New[Resource](),
		material:     store.New[Resource](),
		texture:      store.New[Resource](),
		multiTexture: store.New[*MultiTexture](),
	}
}

// Geometry returns the geometry stored under key, generating it if needed
func (c *ResourceCache) Geometry(key string, gen func() (Resource, error)) (Resource, error) {
	return c.geometry.GetOrGenerate(key, gen)
}

// Material returns the material stored under key, generating it if needed
func (c *ResourceCache) Material(key string, gen func() (Resource, error)) (Resource, error) {
	return c.material.GetOrGenerate(key, gen)
}

// Texture returns the texture stored under key, generating it if needed
func (c *ResourceCache) Texture(key string, gen func() (Resource, error)) (Resource, error) {
	return c.texture.GetOrGenerate(key, gen)
}

// MultiTexture returns the texture set stored under key, generating it if needed
func (c *ResourceCache) MultiTexture(key string, gen func() (*MultiTexture, error)) (*MultiTexture, error) {
	return c.multiTexture.GetOrGenerate(key, gen)
}

// Len returns the total number of entries across all stores
func (c *ResourceCache) Len() int {
	return c.geometry.Len() + c.material.Len() + c.texture.Len() + c.multiTexture.Len()
}

// Stats returns per store counters
func (c *ResourceCache) Stats() *CacheStats {
	stat := func(entries int, hits, misses uint64) StoreStats {
		return StoreStats{Entries: entries, Hits: hits, Misses: misses}
	}
	gh, gm := c.geometry.Stats()
	mh, mm := c.material.Stats()
	th, tm := c.texture.Stats()
	xh, xm := c.multiTexture.Stats()
	return &CacheStats{
		Geometry:     stat(c.geometry.Len(), gh, gm),
		Material:     stat(c.material.Len(), mh, mm),
		Texture:      stat(c.texture.Len(), th, tm),
		MultiTexture: stat(c.multiTexture.Len(), xh, xm),
	}
}

// DisposeAll releases every stored resource exactly once & empties the cache.
// The cache can be used again afterwards.
func (c *ResourceCache) DisposeAll() {
	geometry := c.geometry.Drain()
	material := c.material.Drain()
	texture := c.texture.Drain()
	multi := c.multiTexture.Drain()

	logrus.WithFields(logrus.Fields{
		"geometry":      geometry,
		"material":      material,
		"texture":       texture,
		"multi_texture": multi,
	}).Debug("disposed resource cache")
}

// geometryKey for a box of the given footprint. %g keeps every digit needed,
// so equal keys always mean equal boxes.
func geometryKey(f Footprint) string {
	return fmt.Sprintf("box:%gx%gx%g", f.Width, f.Height, f.Depth)
}

// materialKey for a texture at a tier, repeated rx by ry times
func materialKey(name, tier string, rx, ry int) string {
	return fmt.Sprintf("mat:%s:%s:%dx%d", name, tier, rx, ry)
}

// textureKey for a single texture map at a tier
func textureKey(name, tier string) string {
	return fmt.Sprintf("tex:%s:%s", name, tier)
}

// multiTextureKey for a texture set at a tier
func multiTextureKey(name, tier string) string {
	return fmt.Sprintf("set:%s:%s", name, tier)
}
