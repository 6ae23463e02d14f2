package store

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Releaser is anything a Store can hand back to its owner for disposal.
type Releaser interface {
	Release()
}

// Store is a keyed get-or-generate table.
//
// A generator runs at most once per key until the store is drained. Callers
// that miss on the same key at the same time share a single generator call
// rather than racing each other, the losers simply wait for the winner.
type Store[V Releaser] struct {
	mu    sync.RWMutex
	items map[string]V
	group singleflight.Group

	hits   uint64
	misses uint64
}

// New returns an empty Store.
func New[V Releaser]() *Store[V] {
	return &Store[V]{items: map[string]V{}}
}

// Get returns the stored value for key, if any. It never generates.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// GetOrGenerate returns the value stored under key, calling gen to create
// (and store) it if there isn't one. Errors from gen are returned as is and
// nothing is stored, so a later call may try again.
func (s *Store[V]) GetOrGenerate(key string, gen func() (V, error)) (V, error) {
	if v, ok := s.Get(key); ok {
		atomic.AddUint64(&s.hits, 1)
		return v, nil
	}

	generated := false
	out, err, _ := s.group.Do(key, func() (interface{}, error) {
		// a call that finished between our Get & Do has already stored it
		if v, ok := s.Get(key); ok {
			return v, nil
		}

		v, err := gen()
		if err != nil {
			return nil, err
		}
		generated = true

		s.mu.Lock()
		s.items[key] = v
		s.mu.Unlock()

		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	if generated {
		atomic.AddUint64(&s.misses, 1)
	} else {
		atomic.AddUint64(&s.hits, 1)
	}
	v, _ := out.(V)
	return v, nil
}

// Drain releases every stored value exactly once and empties the store.
// Returns how many values were released.
func (s *Store[V]) Drain() int {
	s.mu.Lock()
	items := s.items
	s.items = map[string]V{}
	s.mu.Unlock()

	for _, v := range items {
		v.Release()
	}
	return len(items)
}

// Len returns the number of stored values.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Stats returns how many lookups were served from the store (hits) and how
// many ran a generator (misses).
func (s *Store[V]) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&s.hits), atomic.LoadUint64(&s.misses)
}
