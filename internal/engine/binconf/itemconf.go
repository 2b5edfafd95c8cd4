package binconf

// ItemConf is the item-multiplicity part of a bc: a count per item size in
// [1,S], plus its rolling Zobrist item hash.
type ItemConf struct {
	Counts []int // index 0..S, index 0 unused
	Hash   uint64
}

// NewItemConf returns an empty item configuration for the given S.
func NewItemConf(t *Tables) ItemConf {
	return ItemConf{Counts: make([]int, t.S+1)}
}

// Clone returns a deep copy.
func (ic ItemConf) Clone() ItemConf {
	out := ItemConf{Counts: make([]int, len(ic.Counts)), Hash: ic.Hash}
	copy(out.Counts, ic.Counts)
	return out
}

// RehashFromScratch recomputes Hash from Counts.
func (ic *ItemConf) RehashFromScratch(t *Tables) {
	var h uint64
	for size, cnt := range ic.Counts {
		if cnt == 0 {
			continue
		}
		h ^= t.Zi[size][cnt]
	}
	ic.Hash = h
}

// AddItem records one more item of the given size.
func (ic *ItemConf) AddItem(t *Tables, size int) {
	old := ic.Counts[size]
	if old > 0 {
		ic.Hash ^= t.Zi[size][old]
	}
	ic.Counts[size] = old + 1
	ic.Hash ^= t.Zi[size][old+1]
}

// RemoveItem undoes AddItem for the given size.
func (ic *ItemConf) RemoveItem(t *Tables, size int) {
	old := ic.Counts[size]
	ic.Hash ^= t.Zi[size][old]
	ic.Counts[size] = old - 1
	if old-1 > 0 {
		ic.Hash ^= t.Zi[size][old-1]
	}
}

// Total returns the total number of items recorded.
func (ic ItemConf) Total() int {
	n := 0
	for _, c := range ic.Counts {
		n += c
	}
	return n
}
