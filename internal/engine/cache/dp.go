package cache

// DPCache maps an item-configuration hash (with a candidate item virtually
// added) to whether that configuration is feasible, so a repeated
// feasibility question is answered without invoking DP again.
type DPCache struct {
	table *Table[bool]
}

// NewDPCache allocates a DP cache with 2^logSize slots.
func NewDPCache(logSize int) *DPCache {
	return &DPCache{table: NewTable[bool](logSize)}
}

// Lookup returns the cached feasibility for hash, or (false, false) on miss.
func (c *DPCache) Lookup(hash uint64) (bool, bool) {
	return c.table.Get(hash)
}

// Store records hash -> feasible.
func (c *DPCache) Store(hash uint64, feasible bool) {
	c.table.Put(hash, feasible)
}
