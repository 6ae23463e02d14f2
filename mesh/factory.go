package mesh

import (
	"fmt"
	"sync"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model3d"

	"github.com/voidshard/cityblocks"
)

// Kind of resource a Handle holds
type Kind string

const (
	KindBox      Kind = "box"
	KindTexture  Kind = "texture"
	KindMaterial Kind = "material"
)

// Handle is a resource created by a Factory.
type Handle struct {
	ID   int
	Kind Kind
	Name string

	// Mesh is set for boxes; a unit cell is 1x1 & the box sits on z=0
	Mesh *model3d.Mesh

	factory  *Factory
	released bool
}

// Release returns the handle to its factory
func (h *Handle) Release() {
	h.factory.release(h)
}

// Factory implements cityblocks.Factory by building model3d meshes for
// geometry & named handles for textures and materials.
//
// It keeps track of every handle that hasn't been released yet, which makes
// leaks (or double frees) easy to spot. Safe for concurrent use.
type Factory struct {
	lock sync.Mutex

	live           []*Handle
	created        int
	doubleReleases int
}

// NewFactory returns a new Factory
func NewFactory() *Factory {
	return &Factory{live: []*Handle{}}
}

// Box returns a handle holding a box mesh of the given size.
// Width runs along x, depth along y & height along z.
func (f *Factory) Box(width, height, depth float64) (cityblocks.Resource, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid box size %vx%vx%v", width, height, depth)
	}
	m := model3d.NewMesh()
	addBox(m, model3d.XYZ(0, 0, 0), model3d.XYZ(width, depth, height))
	return f.add(KindBox, fmt.Sprintf("%.2fx%.2fx%.2f", width, height, depth), m), nil
}

// Texture returns a named handle for the texture
func (f *Factory) Texture(name string, kind cityblocks.TextureKind, tier string) (cityblocks.Resource, error) {
	if name == "" {
		return nil, fmt.Errorf("texture name required")
	}
	return f.add(KindTexture, fmt.Sprintf("%s_%s@%s", name, kind, tier), nil), nil
}

// Material returns a named handle for the material
func (f *Factory) Material(req *cityblocks.MaterialRequest) (cityblocks.Resource, error) {
	if len(req.Maps) == 0 {
		return nil, fmt.Errorf("material %s requires at least one map", req.Name)
	}
	return f.add(KindMaterial, fmt.Sprintf("%s@%s:%dx%d", req.Name, req.Tier, req.RepeatX, req.RepeatY), nil), nil
}

// Live returns the number of handles created but not yet released
func (f *Factory) Live() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.live)
}

// LiveByKind returns the number of unreleased handles of each kind
func (f *Factory) LiveByKind() map[Kind]int {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := map[Kind]int{}
	for _, h := range f.live {
		out[h.Kind]++
	}
	return out
}

// Created returns the number of handles ever created
func (f *Factory) Created() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.created
}

// DoubleReleases returns how many times Release was called on an already
// released handle
func (f *Factory) DoubleReleases() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.doubleReleases
}

func (f *Factory) add(kind Kind, name string, m *model3d.Mesh) *Handle {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.created++
	h := &Handle{ID: f.created, Kind: kind, Name: name, Mesh: m, factory: f}
	f.live = append(f.live, h)

	return h
}

func (f *Factory) release(h *Handle) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if h.released {
		f.doubleReleases++
		return
	}
	h.released = true

	for i, l := range f.live {
		if l == h {
			essentials.UnorderedDelete(&f.live, i)
			break
		}
	}
}

// addBox adds the 12 triangles of an axis aligned box to m.
// Faces wind counter clockwise when seen from outside.
func addBox(m *model3d.Mesh, lo, hi model3d.Coord3D) {
	c := [8]model3d.Coord3D{
		model3d.XYZ(lo.X, lo.Y, lo.Z),
		model3d.XYZ(hi.X, lo.Y, lo.Z),
		model3d.XYZ(hi.X, hi.Y, lo.Z),
		model3d.XYZ(lo.X, hi.Y, lo.Z),
		model3d.XYZ(lo.X, lo.Y, hi.Z),
		model3d.XYZ(hi.X, lo.Y, hi.Z),
		model3d.XYZ(hi.X, hi.Y, hi.Z),
		model3d.XYZ(lo.X, hi.Y, hi.Z),
	}
	faces := [6][4]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{2, 3, 7, 6}, // back
		{1, 2, 6, 5}, // right
		{3, 0, 4, 7}, // left
	}
	for _, f := range faces {
		m.Add(&model3d.Triangle{c[f[0]], c[f[1]], c[f[2]]})
		m.Add(&model3d.Triangle{c[f[0]], c[f[2]], c[f[3]]})
	}
}
