package cityblocks

import (
	"hash/fnv"
	"math/rand"
)

const (
	subsystemRoads     = "roads"
	subsystemDistricts = "districts"
	subsystemBuildings = "buildings"
)

// partitionedRNG hands each generation phase its own *rand.Rand derived from
// the city seed, so adding draws to one phase doesn't shift the others.
// Not thread safe.
type partitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

func newPartitionedRNG(seed int64) *partitionedRNG {
	return &partitionedRNG{seed: seed, subsystems: map[string]*rand.Rand{}}
}

// forSubsystem returns the (cached) rng for the named phase, seeded with
// seed ^ fnv1a(name).
func (p *partitionedRNG) forSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
