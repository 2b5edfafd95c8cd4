package heuristics

import (
	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/bohm/binstretch-search/internal/engine/dp"
)

// Strategy is what a successful adversary heuristic hands back: which
// heuristic fired and the items it recommends sending next, matching the
// "(victory, optional strategy)" interface every heuristic exposes.
type Strategy struct {
	Kind  engine.Heuristic
	Items []int
}

// LargeItemHeuristic implements the single-item specialization of the
// original's multi-item blocking-sequence search (heur_adv.hpp
// build_lih_choices): it looks for one item size q > Alpha that no current
// bin can accept without exceeding R-1. A blocked q only proves a win if
// sending it is actually a legal continuation of the instance: the
// original gates every candidate on instance_possible (the new total item
// volume still fits Bins bins of capacity S) and dynprog_and_check_vectors
// (an offline packing of items-plus-q must still exist) before reporting
// the win, both checked here too. Without them, q can be "blocked" only
// because the instance is already over-full (e.g. three bins each loaded
// to S, offered a fourth S-sized item): no online algorithm can place it,
// but no valid instance reaches that position either, so it proves
// nothing. The general multi-item blocking sequence (chaining several
// large items before any bin is forced over) is not implemented; this
// remains a conservative narrowing of the original, never an unsound one.
func LargeItemHeuristic(t *binconf.Tables, loads []int, items binconf.ItemConf, p Params) (*Strategy, bool) {
	loadsum := 0
	for _, l := range loads {
		loadsum += l
	}

	for q := p.S; q > p.Alpha; q-- {
		blocked := true
		for _, l := range loads {
			if l+q <= p.R-1 {
				blocked = false
				break
			}
		}
		if !blocked {
			continue
		}

		// instance_possible: the adversary may only send q if doing so
		// keeps the total item volume within what Bins bins of capacity S
		// can ever hold.
		if loadsum+q > p.S*p.Bins {
			continue
		}

		// dynprog_and_check_vectors: the stronger check — an offline
		// packing of the items sent so far, plus q, must still exist.
		withQ := items.Clone()
		withQ.AddItem(t, q)
		if !dp.Feasible(t, withQ) {
			continue
		}

		return &Strategy{Kind: engine.LargeItemHeuristic, Items: []int{q}}, true
	}
	return nil, false
}

// FiveNineHeuristic is specific to R=19, S=14 (the original's hardcoded
// case): send items of size 5 while some bin still has room below 5, then
// confirm the instance is finished either by m items of size 9 or by a
// size-14 suffix, both checked against the DP oracle so the heuristic can
// never assert an unsound win — only report one the oracle corroborates.
func FiveNineHeuristic(t *binconf.Tables, loads []int, items binconf.ItemConf, p Params, dpc *cache.DPCache) (*Strategy, bool) {
	if p.R != 19 || p.S != 14 || p.Bins < 1 {
		return nil, false
	}

	cand := append([]int(nil), loads...)
	fives := 0
	maxFives := p.Bins * 3
	for fives < maxFives {
		belowFive := -1
		for i, l := range cand {
			if l < 5 {
				belowFive = i
				break
			}
		}
		if belowFive < 0 {
			break
		}
		cand[belowFive] += 5
		fives++
	}
	if fives == 0 {
		return nil, false
	}

	nineItems := items.Clone()
	for i := 0; i < p.Bins; i++ {
		nineItems.AddItem(t, 9)
	}
	if !dp.Feasible(t, nineItems) {
		strat := &Strategy{Kind: engine.FiveNineHeuristic}
		for i := 0; i < fives; i++ {
			strat.Items = append(strat.Items, 5)
		}
		strat.Items = append(strat.Items, 9)
		return strat, true
	}

	fourteenItems := items.Clone()
	fourteenItems.AddItem(t, 14)
	if !dp.Feasible(t, fourteenItems) {
		strat := &Strategy{Kind: engine.FiveNineHeuristic}
		for i := 0; i < fives; i++ {
			strat.Items = append(strat.Items, 5)
		}
		strat.Items = append(strat.Items, 14)
		return strat, true
	}

	return nil, false
}

// AdversaryHeuristics runs every enabled heuristic in order and returns the
// first that fires, matching adversary_heuristics<MODE> gating LargeItem
// and FiveNine behind the active-heuristic toggles (here: always on, since
// SPEC_FULL carries no config flag to disable them individually — the
// original's LARGE_ITEM_ACTIVE/FIVE_NINE_ACTIVE compile-time switches have
// no runtime analogue needed for correctness).
func AdversaryHeuristics(t *binconf.Tables, loads []int, items binconf.ItemConf, p Params, dpc *cache.DPCache) (*Strategy, bool) {
	if strat, ok := LargeItemHeuristic(t, loads, items, p); ok {
		return strat, true
	}
	if p.R == 19 && p.S == 14 {
		if strat, ok := FiveNineHeuristic(t, loads, items, p, dpc); ok {
			return strat, true
		}
	}
	return nil, false
}
