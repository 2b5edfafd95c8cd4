// Package minimax implements the mutually-recursive adversary/algorithm
// evaluator in its three modes (generating, exploring, updating), per
// spec §4.3. The descend/ascend pairing is binconf.BinConf's
// Assign/Unassign; the "manual undo stack with guaranteed release on all
// exit paths" is just the Go call stack plus an explicit Unassign right
// after each recursive call returns, before its result or error is
// acted on.
package minimax

import (
	"errors"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/bohm/binstretch-search/internal/engine/dp"
	"github.com/bohm/binstretch-search/internal/engine/heuristics"
)

// ErrIrrelevant is the sentinel non-local exit used in place of a language
// exception (Design Notes: "prefer an explicit result variant... do not
// use language-level exceptions"). It unwinds the worker out of whatever
// recursion depth it is at, back to the task boundary, when the root has
// been solved elsewhere.
var ErrIrrelevant = errors.New("computation irrelevant: root already solved")

// Measurements are per-Computation counters — "may remain thread-local"
// per Design Notes. They are not aggregated across workers or exported.
type Measurements struct {
	NodesVisited  int64
	DPCalls       int64
	HeuristicHits int64
	CacheHits     int64
}

// Computation bundles everything the recursive evaluator needs: tables,
// caches, tuning constants, and the cancellation flag. A fresh Computation
// is built per worker task so each goroutine mutates its own bc copy.
type Computation struct {
	Tables       *binconf.Tables
	GSParams     heuristics.Params
	StateCache   *cache.StateCache
	DPCache      *cache.DPCache
	KnownSum     *cache.KnownSumCache
	Monotonicity int

	// RootSolved, when non-nil and true, causes every recursion entry to
	// return ErrIrrelevant at the next poll — the cancellation flag of
	// spec §5.
	RootSolved *func() bool

	// Advice maps an adversary bc's hash (HashWithLast) to a suggested
	// item size, per spec §6's advice file — consulted only as a move
	// ordering hint, tried first so a genuine AdvWins short-circuits
	// sooner; never changes the result.
	Advice map[uint64]int

	// Assumptions maps an adversary bc's hash to an assumed verdict, per
	// spec §6's assumption file — when present, a position is taken as
	// decided without further expansion, the AssumptionLeaf pattern.
	Assumptions map[uint64]engine.Victory

	Meas Measurements
}

func (c *Computation) cancelled() bool {
	return c.RootSolved != nil && (*c.RootSolved)()
}

// Explore runs exploration-mode minimax: no DAG edits, state-hash
// memoization, cancellable at every recursion entry. This is what a
// worker runs on its private bc copy for one task.
func (c *Computation) Explore(bc *binconf.BinConf, prevMax int) (engine.Victory, error) {
	return c.adversaryStep(engine.ModeExploring, bc, prevMax, 0)
}

func (c *Computation) adversaryStep(mode engine.MinimaxMode, bc *binconf.BinConf, prevMax int, loadSinceRoot int) (engine.Victory, error) {
	c.Meas.NodesVisited++
	if mode == engine.ModeExploring {
		if c.cancelled() {
			return engine.Irrelevant, ErrIrrelevant
		}
		sh := bc.StateHash(c.Tables, c.Monotonicity)
		if v, ok := c.StateCache.Lookup(sh); ok {
			c.Meas.CacheHits++
			return v, nil
		}
	}

	if c.Assumptions != nil {
		if v, ok := c.Assumptions[bc.HashWithLast(c.Tables)]; ok {
			c.cacheStore(mode, bc, v)
			return v, nil
		}
	}

	if strat, ok := heuristics.AdversaryHeuristics(c.Tables, bc.Loads, bc.Items, c.GSParams, c.DPCache); ok {
		_ = strat
		c.Meas.HeuristicHits++
		c.cacheStore(mode, bc, engine.AdvWins)
		return engine.AdvWins, nil
	}

	c.Meas.DPCalls++
	max, feasible := dp.MaxFeasibleItem(c.Tables, bc.Items, c.DPCache, clampMax(prevMax, c.Tables.S))
	if !feasible {
		c.cacheStore(mode, bc, engine.AlgWins)
		return engine.AlgWins, nil
	}

	if c.KnownSum != nil && c.KnownSum.Contains(bc.LHash()) {
		c.cacheStore(mode, bc, engine.AlgWins)
		return engine.AlgWins, nil
	}

	low := binconf.LowestSendable(bc.LastItem, c.Monotonicity)
	if low > max {
		low = 1
	}

	allAlg := true
	for _, item := range c.itemOrder(bc, low, max) {
		v, err := c.algorithmStep(mode, bc, item, loadSinceRoot)
		if err != nil {
			return engine.Uncertain, err
		}
		if v == engine.AdvWins {
			c.cacheStore(mode, bc, engine.AdvWins)
			return engine.AdvWins, nil
		}
		if v != engine.AlgWins {
			allAlg = false
		}
	}
	if allAlg {
		c.cacheStore(mode, bc, engine.AlgWins)
		return engine.AlgWins, nil
	}
	return engine.Uncertain, nil
}

func (c *Computation) algorithmStep(mode engine.MinimaxMode, bc *binconf.BinConf, item int, loadSinceRoot int) (engine.Victory, error) {
	c.Meas.NodesVisited++
	if mode == engine.ModeExploring && c.cancelled() {
		return engine.Irrelevant, ErrIrrelevant
	}

	if heuristics.GSHeuristic(bc.Loads, bc.Items, item, c.GSParams) {
		return engine.AlgWins, nil
	}

	allAdv := true
	seen := make(map[int]bool, len(bc.Loads))
	for bin := range bc.Loads {
		load := bc.Loads[bin]
		if seen[load] {
			continue // symmetry break: an equal-load bin was already tried
		}
		seen[load] = true

		if load+item > c.Tables.R-1 {
			continue // bin cannot accept item; not a valid algorithm choice
		}

		frame, pos := bc.Assign(c.Tables, bin, item)
		v, err := c.adversaryStep(mode, bc, item, loadSinceRoot+item)
		bc.Unassign(c.Tables, frame, pos)
		if err != nil {
			return engine.Uncertain, err
		}
		if v == engine.AlgWins {
			return engine.AlgWins, nil
		}
		if v != engine.AdvWins {
			allAdv = false
		}
	}
	if allAdv {
		return engine.AdvWins, nil
	}
	return engine.Uncertain, nil
}

// itemOrder lists the items the adversary may send, from max down to low,
// except that an advice-file suggestion within range is moved to the
// front — a pure ordering hint, result-preserving either way.
func (c *Computation) itemOrder(bc *binconf.BinConf, low, max int) []int {
	items := make([]int, 0, max-low+1)
	suggested := -1
	if c.Advice != nil {
		if s, ok := c.Advice[bc.HashWithLast(c.Tables)]; ok && s >= low && s <= max {
			suggested = s
			items = append(items, s)
		}
	}
	for item := max; item >= low; item-- {
		if item == suggested {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (c *Computation) cacheStore(mode engine.MinimaxMode, bc *binconf.BinConf, v engine.Victory) {
	if mode == engine.ModeExploring {
		c.StateCache.Store(bc.StateHash(c.Tables, c.Monotonicity), v)
	}
}

func clampMax(prevMax, s int) int {
	if prevMax <= 0 || prevMax > s {
		return s
	}
	return prevMax
}
