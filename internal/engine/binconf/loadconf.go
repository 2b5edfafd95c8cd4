package binconf

// LoadConf is the bin part of a bc: loads kept sorted non-increasing, plus
// the rolling Zobrist load hash and the total load.
type LoadConf struct {
	Loads     []int
	Hash      uint64
	TotalLoad int
}

// NewLoadConf returns an all-empty load configuration for the given bin
// count, with its hash pre-computed from scratch.
func NewLoadConf(t *Tables) LoadConf {
	lc := LoadConf{Loads: make([]int, t.Bins)}
	lc.RehashFromScratch(t)
	return lc
}

// Clone returns a deep copy.
func (lc LoadConf) Clone() LoadConf {
	out := LoadConf{Loads: make([]int, len(lc.Loads)), Hash: lc.Hash, TotalLoad: lc.TotalLoad}
	copy(out.Loads, lc.Loads)
	return out
}

// RehashFromScratch recomputes Hash from Loads, ignoring the current value.
// Used at construction and as the ground truth for the hash-integrity tests.
func (lc *LoadConf) RehashFromScratch(t *Tables) {
	var h uint64
	for i, l := range lc.Loads {
		h ^= t.Zl[i][l]
	}
	lc.Hash = h
}

// AssignAndRehash adds amount to bin's load, re-sorts the loads to restore
// the non-increasing invariant, and incrementally updates Hash by touching
// only the span of bin positions that moved — the "rehash the affected
// range" discipline. Returns the bin's new position (its rank).
func (lc *LoadConf) AssignAndRehash(t *Tables, bin, amount int) int {
	old := lc.Loads[bin]
	next := old + amount
	lc.Hash ^= t.Zl[bin][old]
	lc.Loads[bin] = next
	lc.Hash ^= t.Zl[bin][next]
	lc.TotalLoad += amount

	pos := bin
	for pos > 0 && lc.Loads[pos] > lc.Loads[pos-1] {
		a, b := lc.Loads[pos-1], lc.Loads[pos]
		lc.Hash ^= t.Zl[pos-1][a] ^ t.Zl[pos][b]
		lc.Loads[pos-1], lc.Loads[pos] = b, a
		lc.Hash ^= t.Zl[pos-1][b] ^ t.Zl[pos][a]
		pos--
	}
	return pos
}

// UnassignAndRehash is the exact inverse of AssignAndRehash: it subtracts
// amount from the bin that currently sits at position pos (the value
// returned by the matching AssignAndRehash call) and bubbles it back down.
// Returns the bin's original index after reversing the motion.
func (lc *LoadConf) UnassignAndRehash(t *Tables, pos, amount int) int {
	old := lc.Loads[pos]
	next := old - amount
	lc.Hash ^= t.Zl[pos][old]
	lc.Loads[pos] = next
	lc.Hash ^= t.Zl[pos][next]
	lc.TotalLoad -= amount

	cur := pos
	for cur < len(lc.Loads)-1 && lc.Loads[cur] < lc.Loads[cur+1] {
		a, b := lc.Loads[cur], lc.Loads[cur+1]
		lc.Hash ^= t.Zl[cur][a] ^ t.Zl[cur+1][b]
		lc.Loads[cur], lc.Loads[cur+1] = b, a
		lc.Hash ^= t.Zl[cur][b] ^ t.Zl[cur+1][a]
		cur++
	}
	return cur
}

// BinomialIndex maps the sorted load tuple to a compact, order-preserving
// u32-range integer: sum C(load_i + (m-i), load_i - 1) over bins with a
// positive load, per the "binomial index" alternative load key.
func (lc LoadConf) BinomialIndex(t *Tables) uint32 {
	var idx uint64
	m := len(lc.Loads)
	for i, l := range lc.Loads {
		if l <= 0 {
			continue
		}
		idx += t.binomial(l+(m-i), l-1)
	}
	return uint32(idx)
}

// Consistent reports whether Hash agrees with a from-scratch recomputation
// and the loads are sorted non-increasing — the round-trip/hash-integrity
// invariants of property 1-3.
func (lc LoadConf) Consistent(t *Tables) bool {
	check := lc.Clone()
	check.RehashFromScratch(t)
	if check.Hash != lc.Hash {
		return false
	}
	for i := 1; i < len(lc.Loads); i++ {
		if lc.Loads[i-1] < lc.Loads[i] {
			return false
		}
	}
	return true
}
