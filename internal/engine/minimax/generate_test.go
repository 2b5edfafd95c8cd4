package minimax

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/bohm/binstretch-search/internal/engine/dag"
	"github.com/bohm/binstretch-search/internal/engine/heuristics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_BuildsAndUpdaterPropagates(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	d := dag.New()
	root := binconf.NewBinConf(tb)
	rootID := d.AddRoot(root, root.HashWithLast(tb))

	g := &Generator{
		Tables:       tb,
		GSParams:     heuristics.NewParams(1, 2, 1),
		DPCache:      cache.NewDPCache(8),
		Monotonicity: 1,
		TaskDepth:    100,
		TaskLoad:     100,
		DAG:          d,
	}
	g.Run(rootID)

	require.NoError(t, d.ConsistencyCheck())
	require.Len(t, d.Adv[rootID].OutEdges, 1)

	algID := d.Edges[d.Adv[rootID].OutEdges[0]].To
	require.Len(t, d.Alg[algID].OutEdges, 1)

	childID := d.Edges[d.Alg[algID].OutEdges[0]].To
	child := d.Adv[childID]
	require.NotNil(t, child)
	assert.Equal(t, engine.AlgWins, child.Win)
	assert.Equal(t, engine.TrueLeaf, child.Leaf)

	assert.Equal(t, engine.Uncertain, d.Adv[rootID].Win)

	u := &Updater{DAG: d}
	u.PropagateFrom(childID)

	assert.Equal(t, engine.AlgWins, d.Alg[algID].Win)
	assert.Equal(t, engine.AlgWins, d.Adv[rootID].Win)
}

func TestGenerator_StopsAtTaskBoundary(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	d := dag.New()
	root := binconf.NewBinConf(tb)
	rootID := d.AddRoot(root, root.HashWithLast(tb))

	var tasks []int
	g := &Generator{
		Tables:       tb,
		GSParams:     heuristics.NewParams(1, 2, 1),
		DPCache:      cache.NewDPCache(8),
		Monotonicity: 1,
		TaskDepth:    0,
		TaskLoad:     100,
		DAG:          d,
		OnTask:       func(id, depth, loadSinceRoot int) { tasks = append(tasks, id) },
	}
	g.Run(rootID)

	require.Len(t, tasks, 1)
	assert.Equal(t, rootID, tasks[0])
	assert.True(t, d.Adv[rootID].Task)
	assert.Equal(t, engine.BoundaryLeaf, d.Adv[rootID].Leaf)
}

// TestGenerator_ChildlessAlgVertexResolvesToAdvWins covers growAlg's
// "every bin overfull" branch: an algorithm vertex offered an item that no
// bin can accept without exceeding R-1 has no legal move, so it must be
// decided AdvWins at generation time rather than left Uncertain with no
// children to ever trigger its re-evaluation.
func TestGenerator_ChildlessAlgVertexResolvesToAdvWins(t *testing.T) {
	tb := binconf.NewTables(2, 3, 2)
	d := dag.New()

	bc := binconf.NewBinConf(tb)
	bc.Assign(tb, 0, 2)
	bc.Assign(tb, 1, 2)

	algID, _ := d.AddAlg(bc, 2, bc.AlgHash(tb, 2), false)

	g := &Generator{
		Tables:       tb,
		GSParams:     heuristics.NewParams(2, 3, 2),
		DPCache:      cache.NewDPCache(8),
		Monotonicity: 1,
		TaskDepth:    100,
		TaskLoad:     100,
		DAG:          d,
	}
	g.growAlg(algID, 0, 0)

	v := d.Alg[algID]
	require.NotNil(t, v)
	assert.Empty(t, v.OutEdges)
	assert.Equal(t, engine.AdvWins, v.Win)
}

func TestGenerator_AssumptionCutsOffVertex(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	d := dag.New()
	root := binconf.NewBinConf(tb)
	rootID := d.AddRoot(root, root.HashWithLast(tb))

	g := &Generator{
		Tables:       tb,
		GSParams:     heuristics.NewParams(1, 2, 1),
		DPCache:      cache.NewDPCache(8),
		Monotonicity: 1,
		TaskDepth:    100,
		TaskLoad:     100,
		DAG:          d,
		Assumptions: map[uint64]engine.Victory{
			root.HashWithLast(tb): engine.AdvWins,
		},
	}
	g.Run(rootID)

	assert.Empty(t, d.Adv[rootID].OutEdges)
	assert.Equal(t, engine.AssumptionLeaf, d.Adv[rootID].Leaf)
	assert.Equal(t, engine.AdvWins, d.Adv[rootID].Win)
}
