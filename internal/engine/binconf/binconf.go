package binconf

// BinConf is the full bin configuration: sorted bin loads, item
// multiplicities, the size of the most recently placed item, and the
// compound Zobrist hashes derived from the two.
type BinConf struct {
	LoadConf
	Items    ItemConf
	LastItem int
}

// NewBinConf returns an empty bc for the given game parameters.
func NewBinConf(t *Tables) *BinConf {
	return &BinConf{
		LoadConf: NewLoadConf(t),
		Items:    NewItemConf(t),
		LastItem: 1, // no item sent yet; matches the textual root's "(0 ... 0) 1" convention
	}
}

// Clone returns a deep copy.
func (b *BinConf) Clone() *BinConf {
	return &BinConf{
		LoadConf: b.LoadConf.Clone(),
		Items:    b.Items.Clone(),
		LastItem: b.LastItem,
	}
}

// undoFrame is the minimal state needed to reverse one Assign call,
// matching the "manual undo stack with guaranteed release on all exit
// paths" design note.
type undoFrame struct {
	bin      int
	size     int
	prevLast int
}

// Assign places an item of the given size into bin, updating loads, items,
// total load and last-item tag, and returns an undo frame plus the bin's
// new sorted position.
func (b *BinConf) Assign(t *Tables, bin, size int) (frame undoFrame, newPos int) {
	frame = undoFrame{bin: bin, size: size, prevLast: b.LastItem}
	newPos = b.LoadConf.AssignAndRehash(t, bin, size)
	b.Items.AddItem(t, size)
	b.LastItem = size
	return frame, newPos
}

// Unassign reverses the Assign call that produced frame at position pos.
func (b *BinConf) Unassign(t *Tables, frame undoFrame, pos int) {
	b.LoadConf.UnassignAndRehash(t, pos, frame.size)
	b.Items.RemoveItem(t, frame.size)
	b.LastItem = frame.prevLast
}

// IHash returns the item hash.
func (b *BinConf) IHash() uint64 { return b.Items.Hash }

// LHash returns the load hash.
func (b *BinConf) LHash() uint64 { return b.LoadConf.Hash }

// LoadItemHash returns load hash XOR item hash.
func (b *BinConf) LoadItemHash() uint64 { return b.LHash() ^ b.IHash() }

// HashWithLow returns the state hash: load hash XOR item hash XOR
// Zlow[lowest sendable item given lastItem and monotonicity].
func (b *BinConf) HashWithLow(t *Tables, monotonicity int) uint64 {
	low := LowestSendable(b.LastItem, monotonicity)
	return b.LoadItemHash() ^ t.Zlow[low]
}

// HashWithLast returns the adversary-vertex hash: load+item hash XOR
// Zlast[lastItem].
func (b *BinConf) HashWithLast(t *Tables) uint64 {
	return b.LoadItemHash() ^ t.Zlast[b.LastItem]
}

// AlgHash returns the algorithm-vertex hash for a just-announced next item.
func (b *BinConf) AlgHash(t *Tables, nextItem int) uint64 {
	return b.LoadItemHash() ^ t.Zalg[nextItem]
}

// StateHash is an alias for HashWithLow using the engine's monotonicity,
// kept distinct from HashWithLast so callers name the hash they mean.
func (b *BinConf) StateHash(t *Tables, monotonicity int) uint64 {
	return b.HashWithLow(t, monotonicity)
}

// ConsistencyCheck verifies the invariants of spec property 1-3: hashes
// agree with a from-scratch recomputation, loads stay sorted, and total
// load equals the sum of size*count over items.
func (b *BinConf) ConsistencyCheck(t *Tables) bool {
	if !b.LoadConf.Consistent(t) {
		return false
	}
	check := b.Items.Clone()
	check.RehashFromScratch(t)
	if check.Hash != b.Items.Hash {
		return false
	}
	sum := 0
	for size, cnt := range b.Items.Counts {
		sum += size * cnt
	}
	return sum == b.LoadConf.TotalLoad
}

// Duplicate returns a structural copy independent of t (no sharing of
// slices), matching the original's duplicate() free function used when
// heuristics need a scratch bc to mutate and discard.
func Duplicate(b *BinConf) *BinConf {
	return b.Clone()
}

// Equal reports whether two bcs have identical loads, items and last item
// (binconf_equal in the original).
func Equal(a, b *BinConf) bool {
	if a.LastItem != b.LastItem || len(a.Loads) != len(b.Loads) {
		return false
	}
	for i := range a.Loads {
		if a.Loads[i] != b.Loads[i] {
			return false
		}
	}
	for i := range a.Items.Counts {
		if a.Items.Counts[i] != b.Items.Counts[i] {
			return false
		}
	}
	return true
}
