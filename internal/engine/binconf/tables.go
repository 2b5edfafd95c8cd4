// Package binconf implements the bin configuration (bc) and load
// configuration (lc) data types: sorted bin loads, item multiplicities,
// and their Zobrist rolling hashes, matching the layout of the original
// search/binconf.hpp.
package binconf

import "math/rand"

// zobristSeed is fixed so that two processes (or two runs writing/reading a
// minibs binary cache) agree on the same tables without exchanging them.
const zobristSeed = 0x6272696e6421 // "brin d!" packed, arbitrary but fixed

// Tables holds every Zobrist table needed to hash a bin configuration, plus
// the binomial coefficients used by the compact load-configuration index.
type Tables struct {
	Bins int
	R    int
	S    int

	// Zl[bin][load] is the token for "this bin holds this load", bin in
	// [0,Bins), load in [0,R].
	Zl [][]uint64

	// Zi[size][mult] is the token for "this item size occurs mult times",
	// size in [0,S], mult in [0,maxMult].
	Zi [][]uint64

	// Zlow, Zlast, Zalg are indexed by item size in [0,S].
	Zlow  []uint64
	Zlast []uint64
	Zalg  []uint64

	// binom[n][k] = C(n,k), sized generously for the binomial index.
	binom [][]uint64
}

// maxMult bounds the item-multiplicity axis of Zi: at most Bins*S items of
// any one size can ever be placed (a generous, never-reached bound).
func maxMultFor(bins, s int) int {
	return bins*s + 2
}

// NewTables builds the Zobrist tables for the given game parameters. It is
// deterministic: two calls with the same (bins, r, s) produce identical
// tables, which is what lets a minibs cache file be validated by signature
// alone rather than by shipping the tables themselves.
func NewTables(bins, r, s int) *Tables {
	rng := rand.New(rand.NewSource(zobristSeed ^ int64(bins)<<32 ^ int64(r)<<16 ^ int64(s)))

	t := &Tables{Bins: bins, R: r, S: s}

	t.Zl = make([][]uint64, bins)
	for i := range t.Zl {
		t.Zl[i] = make([]uint64, r+1)
		for l := range t.Zl[i] {
			t.Zl[i][l] = rng.Uint64()
		}
	}

	mm := maxMultFor(bins, s)
	t.Zi = make([][]uint64, s+1)
	for sz := range t.Zi {
		t.Zi[sz] = make([]uint64, mm+1)
		for m := range t.Zi[sz] {
			t.Zi[sz][m] = rng.Uint64()
		}
	}

	t.Zlow = make([]uint64, s+1)
	t.Zlast = make([]uint64, s+1)
	t.Zalg = make([]uint64, s+1)
	for i := 0; i <= s; i++ {
		t.Zlow[i] = rng.Uint64()
		t.Zlast[i] = rng.Uint64()
		t.Zalg[i] = rng.Uint64()
	}

	// Binomial table large enough for C(load+bins, load) with load<=r.
	n := r + bins + 2
	t.binom = make([][]uint64, n)
	for i := range t.binom {
		t.binom[i] = make([]uint64, n)
		t.binom[i][0] = 1
		for k := 1; k <= i; k++ {
			t.binom[i][k] = t.binom[i-1][k-1] + t.binom[i-1][k]
		}
	}

	return t
}

func (t *Tables) binomial(n, k int) uint64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	return t.binom[n][k]
}

// LowestSendable returns the lowest item size the algorithm may still be
// sent, given the last item and the monotonicity bound.
func LowestSendable(lastItem, monotonicity int) int {
	v := lastItem - monotonicity
	if v < 1 {
		v = 1
	}
	return v
}
