package cityblocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_Deterministic(t *testing.T) {
	a := newPartitionedRNG(42)
	b := newPartitionedRNG(42)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.forSubsystem(subsystemRoads).Int63(), b.forSubsystem(subsystemRoads).Int63())
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	a := newPartitionedRNG(42)
	b := newPartitionedRNG(42)

	// drawing from roads on a only must not shift buildings
	for i := 0; i < 100; i++ {
		a.forSubsystem(subsystemRoads).Int63()
	}
	assert.Equal(t, a.forSubsystem(subsystemBuildings).Int63(), b.forSubsystem(subsystemBuildings).Int63())
	assert.NotEqual(t, a.forSubsystem(subsystemDistricts).Int63(), a.forSubsystem(subsystemBuildings).Int63())
}

func TestPartitionedRNG_Cached(t *testing.T) {
	p := newPartitionedRNG(1)
	assert.Same(t, p.forSubsystem(subsystemRoads), p.forSubsystem(subsystemRoads))
}
