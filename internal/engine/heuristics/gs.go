// Package heuristics implements the good-situation predicates and the
// adversary heuristics (large-item, five/nine) that let the minimax
// evaluator cut a subtree short without full recursion, grounded on
// algorithm/gs.hpp and search/heur_adv.hpp.
package heuristics

import "github.com/bohm/binstretch-search/internal/engine/binconf"

// Params carries the game constants every predicate needs.
type Params struct {
	Bins int
	R    int
	S    int
	// Alpha = R-1-S, the adversary's allowed overhead per bin.
	Alpha int
}

// NewParams derives Alpha from R and S.
func NewParams(bins, r, s int) Params {
	return Params{Bins: bins, R: r, S: s, Alpha: r - 1 - s}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return a / b
	}
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

// extendedActive reports whether GS3-GS6 are active: they are only sound
// when 3*Alpha >= S, per the original's #if guard, and they assume exactly
// three bins (they index the third-largest load directly).
func (p Params) extendedActive() bool {
	return p.Bins == 3 && 3*p.Alpha >= p.S
}

// GS1: the two largest loads already sum to at least 2S-Alpha — an
// unconditional algorithm win regardless of remaining items.
func GS1(loads []int, p Params) bool {
	if len(loads) < 2 {
		return false
	}
	return loads[0]+loads[1] >= 2*p.S-p.Alpha
}

// GS2: some bin's load falls in [S-2*Alpha, Alpha] — an unconditional algorithm win.
func GS2(loads []int, p Params) bool {
	lo := p.S - 2*p.Alpha
	hi := p.Alpha
	if lo > hi {
		return false
	}
	for _, l := range loads {
		if l >= lo && l <= hi {
			return true
		}
	}
	return false
}

// GS3 requires 3*Alpha>=S and exactly three bins.
func GS3(loads []int, p Params) bool {
	if !p.extendedActive() {
		return false
	}
	alowerbound := ceilDiv(3*(p.S-p.Alpha), 2)
	return loads[0] >= alowerbound && (loads[2] <= p.Alpha || loads[1]+loads[2] >= p.S+p.Alpha)
}

// GS4 requires 3*Alpha>=S and exactly three bins.
func GS4(loads []int, p Params) bool {
	if !p.extendedActive() {
		return false
	}
	chalf := ceilDiv(loads[2], 2)
	ablowerbound := ceilDiv(3*(p.S-p.Alpha), 2) + chalf
	return loads[0]+loads[1] >= ablowerbound && loads[1] <= p.Alpha
}

// GS5 requires 3*Alpha>=S and exactly three bins, and a spare item larger
// than Alpha still in the multiset.
func GS5(loads []int, items binconf.ItemConf, p Params) bool {
	if !p.extendedActive() {
		return false
	}
	blowerbound := ceilDiv(3*p.S-7*p.Alpha, 2)
	if !(loads[1] >= blowerbound && loads[1] <= p.Alpha && loads[2] == 0) {
		return false
	}
	for j := p.Alpha + 1; j <= p.S && j < len(items.Counts); j++ {
		if items.Counts[j] > 0 {
			return true
		}
	}
	return false
}

// GS6 requires 3*Alpha>=S and exactly three bins.
func GS6(loads []int, p Params) bool {
	if !p.extendedActive() {
		return false
	}
	if !(loads[2] <= p.Alpha && loads[1] >= p.Alpha) {
		return false
	}
	threshold := p.S - 2*p.Alpha - loads[2]
	return loads[0] >= loads[1]+threshold || loads[1] >= loads[0]+threshold
}

// TestGS runs every enabled good-situation predicate against loads/items
// and reports whether any certifies an unconditional algorithm win.
func TestGS(loads []int, items binconf.ItemConf, p Params) bool {
	return GS1(loads, p) || GS2(loads, p) || GS3(loads, p) ||
		GS4(loads, p) || GS5(loads, items, p) || GS6(loads, p)
}

// GSHeuristic tries placing item k into every distinct bin of loads and
// reports whether the resulting configuration (re-sorted) satisfies TestGS
// for at least one placement — the algorithm-side good-situation gate used
// at the top of the algorithm step (spec §4.3 "Algorithm step", step 1).
func GSHeuristic(loads []int, items binconf.ItemConf, k int, p Params) bool {
	tried := make(map[int]bool)
	for i, l := range loads {
		if tried[l] {
			continue
		}
		tried[l] = true
		if l+k > p.R-1 {
			continue
		}
		cand := append([]int(nil), loads...)
		cand[i] += k
		sortDescInts(cand)
		if TestGS(cand, items, p) {
			return true
		}
	}
	return false
}

func sortDescInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] < a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}
