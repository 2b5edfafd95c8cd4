package cache

import "github.com/bohm/binstretch-search/internal/engine"

// StateCache maps a bc's state hash to its Victory, as used by the
// exploring-mode minimax evaluator to memoize subgame outcomes.
type StateCache struct {
	table *Table[engine.Victory]
}

// NewStateCache allocates a state cache with 2^logSize slots.
func NewStateCache(logSize int) *StateCache {
	return &StateCache{table: NewTable[engine.Victory](logSize)}
}

// Lookup returns the cached victory for hash, or (Uncertain, false) on miss.
func (c *StateCache) Lookup(hash uint64) (engine.Victory, bool) {
	return c.table.Get(hash)
}

// Store records hash -> victory. Only Victory values other than Uncertain
// are meaningful to store; callers should not cache an undecided vertex.
func (c *StateCache) Store(hash uint64, v engine.Victory) {
	c.table.Put(hash, v)
}

// KnownSumCache is a hash set of load hashes known to be algorithm-winning
// at the known-sum layer (item configuration "empty").
type KnownSumCache struct {
	table *Table[struct{}]
}

// NewKnownSumCache allocates a known-sum cache with 2^logSize slots.
func NewKnownSumCache(logSize int) *KnownSumCache {
	return &KnownSumCache{table: NewTable[struct{}](logSize)}
}

// Contains reports whether hash is recorded as algorithm-winning.
func (c *KnownSumCache) Contains(hash uint64) bool {
	_, ok := c.table.Get(hash)
	return ok
}

// Insert records hash as algorithm-winning.
func (c *KnownSumCache) Insert(hash uint64) {
	c.table.Put(hash, struct{}{})
}

// All returns every recorded hash, for serialization.
func (c *KnownSumCache) All() []uint64 {
	return c.table.Hashes()
}
