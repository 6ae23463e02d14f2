package cityblocks

// Resource is an opaque handle handed out by a Factory (a mesh, a texture, a
// material ..). Whoever owns a Resource must Release it exactly once.
type Resource interface {
	Release()
}

// Disposable is implemented by anything that owns Resources outside of a
// ResourceCache.
type Disposable interface {
	Resources() []Resource
}

// TextureKind is one of the maps in a texture set.
type TextureKind string

const (
	TextureMap    TextureKind = "map"
	TextureNormal TextureKind = "normal"
	TextureAO     TextureKind = "ao"
)

// MaterialRequest asks a Factory for a material built from already loaded maps.
type MaterialRequest struct {
	Name string
	Tier string

	// Maps in the order map, normal, ao. Paths only carry a single map.
	Maps []Resource

	// how many times the texture repeats across the faces
	RepeatX int
	RepeatY int
}

// Factory turns logical requests into whatever the renderer needs.
// Sizes are in cell units, the renderer is expected to scale them by the
// city scale.
//
// Implementations must be safe for concurrent use if a ResourceCache is shared
// between sessions running at the same time.
type Factory interface {
	// Box returns geometry for a box of the given size.
	Box(width, height, depth float64) (Resource, error)

	// Texture loads a single texture map by name at a resolution tier (eg. "1k").
	Texture(name string, kind TextureKind, tier string) (Resource, error)

	// Material creates a material from loaded texture maps.
	Material(req *MaterialRequest) (Resource, error)
}

// ProgressFunc is called as a heartbeat while a city is assembled.
type ProgressFunc func()

// tick calls f if set
func (f ProgressFunc) tick() {
	if f != nil {
		f()
	}
}
