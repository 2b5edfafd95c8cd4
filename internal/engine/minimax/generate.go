package minimax

import (
	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/bohm/binstretch-search/internal/engine/dag"
	"github.com/bohm/binstretch-search/internal/engine/dp"
	"github.com/bohm/binstretch-search/internal/engine/heuristics"
)

// Generator grows the game DAG from a root position, stopping each branch
// either at a heuristical win or at the task boundary (depth/load budget),
// where it leaves a BoundaryLeaf task vertex for the scheduler to hand out
// to a worker — spec §4.3's "generating" mode and §5's task granularity.
type Generator struct {
	Tables       *binconf.Tables
	GSParams     heuristics.Params
	DPCache      *cache.DPCache
	Monotonicity int
	TaskDepth    int
	TaskLoad     int
	DAG          *dag.DAG

	// Assumptions maps an adversary bc's hash to an assumed verdict, per
	// spec §6's assumption file — a matching vertex is cut off as an
	// AssumptionLeaf instead of being expanded further.
	Assumptions map[uint64]engine.Victory

	// OnTask is invoked once per boundary vertex created, with the depth
	// and load-since-root it was cut off at, so the caller can both
	// enqueue it with the scheduler and resume growth from it later when
	// the task thresholds step up (spec §4.6's "regrow" rounds).
	OnTask func(advID, depth, loadSinceRoot int)
}

// Run grows the DAG from root, whose adversary vertex id is rootID.
func (g *Generator) Run(rootID int) {
	g.growAdv(rootID, 0, 0)
}

// ResumeAdv re-enters growth at an existing adversary vertex — typically
// a BoundaryLeaf task from a previous round whose thresholds have since
// stepped up. The caller is responsible for clearing the vertex's Task
// and Leaf markers first.
func (g *Generator) ResumeAdv(advID, depth, loadSinceRoot int) {
	g.growAdv(advID, depth, loadSinceRoot)
}

func (g *Generator) growAdv(advID int, depth, loadSinceRoot int) {
	v := g.DAG.Adv[advID]
	if v == nil {
		return
	}
	bc := v.BC

	if g.Assumptions != nil {
		if win, ok := g.Assumptions[bc.HashWithLast(g.Tables)]; ok {
			v.Win = win
			v.Leaf = engine.AssumptionLeaf
			v.State = engine.StateFinished
			return
		}
	}

	if strat, ok := heuristics.AdversaryHeuristics(g.Tables, bc.Loads, bc.Items, g.GSParams, g.DPCache); ok {
		v.Win = engine.AdvWins
		v.Heuristic = strat.Kind
		v.Leaf = engine.HeuristicalLeaf
		v.State = engine.StateFinished
		return
	}

	if depth >= g.TaskDepth || loadSinceRoot >= g.TaskLoad {
		v.Task = true
		v.Leaf = engine.BoundaryLeaf
		v.State = engine.StateExpandable
		if g.OnTask != nil {
			g.OnTask(advID, depth, loadSinceRoot)
		}
		return
	}

	max, feasible := dp.MaxFeasibleItem(g.Tables, bc.Items, g.DPCache, g.Tables.S)
	if !feasible {
		v.Win = engine.AlgWins
		v.Leaf = engine.TrueLeaf
		v.State = engine.StateFinished
		return
	}

	low := binconf.LowestSendable(bc.LastItem, g.Monotonicity)
	if low > max {
		low = 1
	}

	v.State = engine.StateExpanding
	for item := max; item >= low; item-- {
		algBC := bc.Clone()
		algID, found := g.DAG.AddAlg(algBC, item, algBC.AlgHash(g.Tables, item), false)
		g.DAG.AddAdvOutEdge(advID, item, algID)
		if !found {
			g.growAlg(algID, depth, loadSinceRoot)
		}
	}
	v.State = engine.StateFinished
}

func (g *Generator) growAlg(algID int, depth, loadSinceRoot int) {
	v := g.DAG.Alg[algID]
	if v == nil {
		return
	}
	bc := v.BC
	item := v.NextItem

	if heuristics.GSHeuristic(bc.Loads, bc.Items, item, g.GSParams) {
		v.Win = engine.AlgWins
		v.State = engine.StateFinished
		return
	}

	v.State = engine.StateExpanding
	seen := make(map[int]bool, len(bc.Loads))
	anyBin := false
	for bin := range bc.Loads {
		load := bc.Loads[bin]
		if seen[load] || load+item > g.Tables.R-1 {
			continue
		}
		seen[load] = true
		anyBin = true

		childBC := bc.Clone()
		childBC.Assign(g.Tables, bin, item)
		childID, found := g.DAG.AddAdv(childBC, childBC.HashWithLast(g.Tables), false)
		g.DAG.AddAlgOutEdge(algID, bin, childID)
		if !found {
			g.growAdv(childID, depth+1, loadSinceRoot+item)
		}
	}
	if !anyBin {
		// No bin can take item without exceeding R-1: this algorithm
		// vertex has no legal move at all, the same "all branches
		// overfull" case algorithmStep resolves to AdvWins at
		// exploration time (minimax.go). Left unmarked, a childless
		// vertex is a genuine dead end that the updater would otherwise
		// never visit — nothing ever bubbles a verdict through a vertex
		// with no out-edges — so any ancestor whose only undecided child
		// was this one would wait on it forever. Deciding it here is the
		// same kind of generation-time terminal fact as the
		// TrueLeaf/HeuristicalLeaf cases in growAdv above; AlgVertex has
		// no Leaf field of its own to annotate.
		v.Win = engine.AdvWins
	}
	v.State = engine.StateFinished
}
