// Package dp implements the dynamic-programming feasibility oracle: given
// a multiset of items, decide whether it packs into m bins of capacity S,
// and find the largest additional item size that still packs.
package dp

import (
	"sort"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
)

// loadHash recomputes the Zobrist load hash from scratch for a plain load
// slice, used for the per-round dedup set inside Feasible — the DP oracle
// never touches a real bc, so it works on raw []int tuples instead of a
// full binconf.LoadConf.
func loadHash(t *binconf.Tables, loads []int) uint64 {
	var h uint64
	for i, l := range loads {
		h ^= t.Zl[i][l]
	}
	return h
}

// sortDesc sorts loads into non-increasing order in place.
func sortDesc(loads []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(loads)))
}

// Feasible decides whether items packs into t.Bins bins of capacity t.S.
// Size-S items must each occupy their own bin (checked up front); size-1
// items are folded into remaining volume at the end, both per spec §4.2.
func Feasible(t *binconf.Tables, items binconf.ItemConf) bool {
	bins, s := t.Bins, t.S

	bigCount := 0
	if s < len(items.Counts) {
		bigCount = items.Counts[s]
	}
	if bigCount > bins {
		return false
	}

	loads := make([]int, bins)
	for i := 0; i < bigCount; i++ {
		loads[i] = s
	}
	sortDesc(loads)

	current := map[uint64][]int{loadHash(t, loads): loads}

	for size := s - 1; size >= 2; size-- {
		cnt := 0
		if size < len(items.Counts) {
			cnt = items.Counts[size]
		}
		for c := 0; c < cnt; c++ {
			next := make(map[uint64][]int)
			for _, conf := range current {
				for i := bins - 1; i >= 0; i-- {
					if i < bins-1 && conf[i] == conf[i+1] {
						continue // symmetry break: already tried this load value
					}
					if conf[i]+size > s {
						continue
					}
					cand := make([]int, bins)
					copy(cand, conf)
					cand[i] += size
					sortDesc(cand)
					next[loadHash(t, cand)] = cand
				}
			}
			if len(next) == 0 {
				return false
			}
			current = next
		}
	}

	ones := 0
	if s > 1 && 1 < len(items.Counts) { // when S=1, size-1 items were already placed as size-S items
		ones = items.Counts[1]
	}
	if ones == 0 {
		return len(current) > 0
	}
	for _, conf := range current {
		free := 0
		for _, l := range conf {
			free += s - l
		}
		if free >= ones {
			return true
		}
	}
	return false
}

// itemHashWith returns the item-configuration hash with one virtual item
// of the given size added, without mutating items.
func itemHashWith(t *binconf.Tables, items binconf.ItemConf, size int) uint64 {
	clone := items.Clone()
	clone.AddItem(t, size)
	return clone.Hash
}

// MaxFeasibleItem returns the largest item size in [1,ub] such that items
// plus that one item still packs, using dpc to memoize per-candidate
// feasibility keyed by the item-hash-with-candidate-added. Returns
// (0, false) if nothing in [1,ub] is feasible.
func MaxFeasibleItem(t *binconf.Tables, items binconf.ItemConf, dpc *cache.DPCache, ub int) (int, bool) {
	if ub > t.S {
		ub = t.S
	}
	for size := ub; size >= 1; size-- {
		h := itemHashWith(t, items, size)
		if feasible, ok := dpc.Lookup(h); ok {
			if feasible {
				return size, true
			}
			continue
		}
		candidate := items.Clone()
		candidate.AddItem(t, size)
		feasible := Feasible(t, candidate)
		dpc.Store(h, feasible)
		if feasible {
			return size, true
		}
	}
	return 0, false
}
