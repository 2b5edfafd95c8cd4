// Package minibs implements the scaled-items winning-set precomputation
// ("minibinstretching"): a layered fixed point over quantised item
// multiplicities that classifies load configurations as algorithm-winning,
// per spec §4.5. It is consulted by the adversary step as a cheap
// alternative to a from-scratch minimax search; a miss falls back to the
// known-sum layer and, ultimately, to full exploration.
package minibs

import (
	"math/rand"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
)

const quantSeed = 0xB17573E7C4 // fixed seed, independent of binconf's table seed

// Shrink maps a real item size to its bucket under denominator D: bucket j
// represents real sizes in ((j*S)/D, ((j+1)*S)/D]. Exact multiples of S
// land at the top of the previous bucket rather than spilling past D-1.
func Shrink(size, d, s int) int {
	if size <= 0 {
		return 0
	}
	bucket := (size*d - 1) / s
	if bucket >= d {
		bucket = d - 1
	}
	return bucket
}

// GrowBack maps a bucket back to a representative real size, the upper
// boundary of the bucket's range — used when the fixed point needs to
// "grow back to real size" to run the DP feasibility oracle.
func GrowBack(bucket, d, s int) int {
	size := ((bucket + 1) * s) / d
	if size < 1 {
		size = 1
	}
	if size > s {
		size = s
	}
	return size
}

// QuantTables holds the Zobrist seeds for item-configuration hashing,
// independent of binconf.Tables' own Zi/Zl (the glossary notes item
// configuration hashing "is a separate Zobrist over (bucket, multiplicity)").
type QuantTables struct {
	D       int
	MaxMult int
	Zb      [][]uint64 // [bucket][multiplicity]
}

// NewQuantTables builds the bucket/multiplicity Zobrist table for a given
// denominator and an upper bound on how many items may share one bucket.
func NewQuantTables(d, maxMult int) *QuantTables {
	r := rand.New(rand.NewSource(quantSeed))
	qt := &QuantTables{D: d, MaxMult: maxMult, Zb: make([][]uint64, d)}
	for j := 0; j < d; j++ {
		qt.Zb[j] = make([]uint64, maxMult+1)
		for k := 0; k <= maxMult; k++ {
			qt.Zb[j][k] = r.Uint64()
		}
	}
	return qt
}

// ItemConfig is a quantised item multiplicity array: Counts[j] holds how
// many items fall in bucket j.
type ItemConfig struct {
	Counts []int
	Hash   uint64
}

// NewItemConfig returns the empty configuration (the known-sum layer's C).
func NewItemConfig(d int) ItemConfig {
	return ItemConfig{Counts: make([]int, d)}
}

// Clone returns a deep copy.
func (ic ItemConfig) Clone() ItemConfig {
	out := ItemConfig{Counts: make([]int, len(ic.Counts)), Hash: ic.Hash}
	copy(out.Counts, ic.Counts)
	return out
}

// Weight approximates total volume already committed under this
// configuration — used to order layers from most-loaded to least-loaded.
func (ic ItemConfig) Weight() int {
	w := 0
	for j, c := range ic.Counts {
		w += j * c
	}
	return w
}

// Sum returns the total item count.
func (ic ItemConfig) Sum() int {
	s := 0
	for _, c := range ic.Counts {
		s += c
	}
	return s
}

// LE reports whether ic is componentwise <= other — the partial order used
// by the minibs monotonicity property.
func (ic ItemConfig) LE(other ItemConfig) bool {
	for j := range ic.Counts {
		if ic.Counts[j] > other.Counts[j] {
			return false
		}
	}
	return true
}

func (ic *ItemConfig) rehash(qt *QuantTables) {
	var h uint64
	for j, c := range ic.Counts {
		h ^= qt.Zb[j][c]
	}
	ic.Hash = h
}

// WithBucket returns a new configuration with one more item in bucket,
// rehashed from scratch (configurations are built bottom-up during
// enumeration, so incremental rehashing isn't worth the complexity here).
func (ic ItemConfig) WithBucket(qt *QuantTables, bucket int) ItemConfig {
	out := ic.Clone()
	out.Counts[bucket]++
	out.rehash(qt)
	return out
}

// RealConfig expands a quantised configuration back to a binconf.ItemConf
// of representative real sizes, for driving the DP feasibility oracle.
func (ic ItemConfig) RealConfig(t *binconf.Tables, qt *QuantTables) binconf.ItemConf {
	items := binconf.NewItemConf(t)
	for j, c := range ic.Counts {
		if c == 0 {
			continue
		}
		size := GrowBack(j, qt.D, t.S)
		for k := 0; k < c; k++ {
			items.AddItem(t, size)
		}
	}
	return items
}
