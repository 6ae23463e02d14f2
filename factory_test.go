package cityblocks

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// stubResource counts how often it's released
type stubResource struct {
	name     string
	size     [3]float64 // boxes only
	releases int32
}

func (s *stubResource) Release() {
	atomic.AddInt32(&s.releases, 1)
}

func (s *stubResource) released() int {
	return int(atomic.LoadInt32(&s.releases))
}

// stubFactory records every resource it hands out
type stubFactory struct {
	lock sync.Mutex
	made []*stubResource

	boxes     int
	textures  int
	materials int

	failTexture bool
	failBox     bool
}

func (f *stubFactory) add(name string) *stubResource {
	f.lock.Lock()
	defer f.lock.Unlock()
	r := &stubResource{name: name}
	f.made = append(f.made, r)
	return r
}

func (f *stubFactory) Box(w, h, d float64) (Resource, error) {
	if f.failBox {
		return nil, fmt.Errorf("no boxes today")
	}
	f.lock.Lock()
	f.boxes++
	f.lock.Unlock()
	r := f.add(fmt.Sprintf("box %vx%vx%v", w, h, d))
	r.size = [3]float64{w, h, d}
	return r, nil
}

func (f *stubFactory) Texture(name string, kind TextureKind, tier string) (Resource, error) {
	if f.failTexture {
		return nil, fmt.Errorf("texture %s missing", name)
	}
	f.lock.Lock()
	f.textures++
	f.lock.Unlock()
	return f.add(fmt.Sprintf("tex %s %s %s", name, kind, tier)), nil
}

func (f *stubFactory) Material(req *MaterialRequest) (Resource, error) {
	f.lock.Lock()
	f.materials++
	f.lock.Unlock()
	return f.add(fmt.Sprintf("mat %s %s", req.Name, req.Tier)), nil
}

// releaseCounts returns how many resources were released never, once & more than once
func (f *stubFactory) releaseCounts() (never, once, many int) {
	f.lock.Lock()
	defer f.lock.Unlock()
	for _, r := range f.made {
		switch n := r.released(); {
		case n == 0:
			never++
		case n == 1:
			once++
		default:
			many++
		}
	}
	return
}

func (f *stubFactory) total() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.made)
}
