package search

import (
	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/bohm/binstretch-search/internal/engine/heuristics"
	"github.com/bohm/binstretch-search/internal/engine/minimax"
)

// Worker runs exploration-mode minimax on a private bc copy — spec
// §4.6's worker loop. Caches are shared (read/write through the
// lock-protected Table[V]); the bc itself is never shared, each task
// gets its own clone.
type Worker struct {
	Tables       *binconf.Tables
	GSP          heuristics.Params
	StateCache   *cache.StateCache
	DPCache      *cache.DPCache
	KnownSum     *cache.KnownSumCache
	Monotonicity int
	RootSolved   func() bool
	Advice       map[uint64]int
	Assumptions  map[uint64]engine.Victory
}

// Run explores bc to a verdict, or returns minimax.ErrIrrelevant if the
// root was solved elsewhere mid-computation.
func (w *Worker) Run(bc *binconf.BinConf) (engine.Victory, error) {
	c := &minimax.Computation{
		Tables:       w.Tables,
		GSParams:     w.GSP,
		StateCache:   w.StateCache,
		DPCache:      w.DPCache,
		KnownSum:     w.KnownSum,
		Monotonicity: w.Monotonicity,
		RootSolved:   &w.RootSolved,
		Advice:       w.Advice,
		Assumptions:  w.Assumptions,
	}
	return c.Explore(bc, 0)
}
