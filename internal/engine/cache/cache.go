// Package cache implements the open-addressed, lossy lookup tables shared
// by the minimax evaluator and the DP feasibility oracle: linear probing up
// to a small window, random eviction beyond it. A cache miss is never an
// error (spec §7) — every lookup here returns (zero, false) on miss.
package cache

import (
	"math/rand"
	"sync"
)

// probeLimit bounds how many consecutive slots a lookup or insert will
// scan before falling back to random eviction within the window.
const probeLimit = 8

// entry is one open-addressed slot holding a hash and its associated value.
type entry[V any] struct {
	hash  uint64
	valid bool
	value V
}

// Table is a fixed-size, power-of-two-sized open-addressed hash table
// mapping uint64 hashes to values of type V. It is safe for concurrent use;
// a single coarse mutex is adequate here since entries are small structs,
// not the DAG itself (which is never touched by more than one goroutine
// role at a time per §5).
type Table[V any] struct {
	mu    sync.Mutex
	slots []entry[V]
	size  uint64
	rng   *rand.Rand
}

// NewTable allocates a table of 2^logSize slots.
func NewTable[V any](logSize int) *Table[V] {
	if logSize < 1 {
		logSize = 1
	}
	size := uint64(1) << uint(logSize)
	return &Table[V]{
		slots: make([]entry[V], size),
		size:  size,
		rng:   rand.New(rand.NewSource(int64(logSize)*2654435761 + 1)),
	}
}

// Get looks up hash, probing up to probeLimit slots from its home position.
func (t *Table[V]) Get(hash uint64) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	home := hash & (t.size - 1)
	for i := uint64(0); i < probeLimit; i++ {
		s := &t.slots[(home+i)%t.size]
		if s.valid && s.hash == hash {
			return s.value, true
		}
		if !s.valid {
			var zero V
			return zero, false
		}
	}
	var zero V
	return zero, false
}

// Put inserts or overwrites hash -> value. If the probe window is full of
// distinct, live entries, one of them is evicted uniformly at random
// within the window (never the incoming entry: it always wins its slot).
func (t *Table[V]) Put(hash uint64, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	home := hash & (t.size - 1)
	for i := uint64(0); i < probeLimit; i++ {
		pos := (home + i) % t.size
		s := &t.slots[pos]
		if !s.valid || s.hash == hash {
			s.hash, s.valid, s.value = hash, true, value
			return
		}
	}
	victim := (home + uint64(t.rng.Intn(probeLimit))) % t.size
	t.slots[victim] = entry[V]{hash: hash, valid: true, value: value}
}

// Hashes returns every live entry's hash, in no particular order — used
// when serializing a cache to the minibs binary format.
func (t *Table[V]) Hashes() []uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]uint64, 0, len(t.slots))
	for _, s := range t.slots {
		if s.valid {
			out = append(out, s.hash)
		}
	}
	return out
}
