package minibs

import (
	"sort"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
)

// loadTuples enumerates every sorted non-increasing load tuple of length
// bins with entries in [0, capR), used to drive the known-sum and layered
// fixed points over the whole load space.
func loadTuples(bins, capR int) [][]int {
	var out [][]int
	prefix := make([]int, 0, bins)
	var rec func(maxVal int)
	rec = func(maxVal int) {
		if len(prefix) == bins {
			cp := make([]int, bins)
			copy(cp, prefix)
			out = append(out, cp)
			return
		}
		for v := maxVal; v >= 0; v-- {
			prefix = append(prefix, v)
			rec(v)
			prefix = prefix[:len(prefix)-1]
		}
	}
	rec(capR - 1)
	return out
}

func loadHash(t *binconf.Tables, loads []int) uint64 {
	var h uint64
	for i, l := range loads {
		h ^= t.Zl[i][l]
	}
	return h
}

func sum(loads []int) int {
	s := 0
	for _, l := range loads {
		s += l
	}
	return s
}

// BuildKnownSum computes the known-sum layer — the minibs fixed point at
// the empty item configuration, depending only on the load tuple — and
// inserts every algorithm-winning load hash into ks. Load tuples are
// processed from the highest total load down, so that whenever a
// candidate placement's resulting tuple is checked, its own verdict (a
// heavier tuple) has already been decided.
func BuildKnownSum(t *binconf.Tables, ks *cache.KnownSumCache) {
	tuples := loadTuples(t.Bins, t.R)
	sort.Slice(tuples, func(i, j int) bool { return sum(tuples[i]) > sum(tuples[j]) })

	capacity := t.Bins * t.S

	for _, loads := range tuples {
		total := sum(loads)
		maxItem := t.S
		if capacity-total < maxItem {
			maxItem = capacity - total
		}
		if maxItem <= 0 {
			ks.Insert(loadHash(t, loads))
			continue
		}

		allGood := true
		for item := 1; item <= maxItem && allGood; item++ {
			if !canPlace(t, ks, loads, item, capacity) {
				allGood = false
			}
		}
		if allGood {
			ks.Insert(loadHash(t, loads))
		}
	}
}

// canPlace reports whether item admits at least one bin placement from
// loads that reaches either a trivially alg-winning tuple (total load
// exhausts the mS volume test) or another tuple already marked winning.
func canPlace(t *binconf.Tables, ks *cache.KnownSumCache, loads []int, item, capacity int) bool {
	seen := make(map[int]bool, len(loads))
	for bin, load := range loads {
		if seen[load] {
			continue
		}
		seen[load] = true
		if load+item > t.R-1 {
			continue
		}
		next := make([]int, len(loads))
		copy(next, loads)
		next[bin] += item
		sort.Sort(sort.Reverse(sortableInts(next)))

		if sum(next) >= capacity {
			return true
		}
		if ks.Contains(loadHash(t, next)) {
			return true
		}
	}
	return false
}

type sortableInts []int

func (s sortableInts) Len() int           { return len(s) }
func (s sortableInts) Less(i, j int) bool { return s[i] < s[j] }
func (s sortableInts) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
