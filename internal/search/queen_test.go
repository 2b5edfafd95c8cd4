package search

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueen_RegrowExpandsBoundaryVertex guards against the generator's
// hash-based vertex dedup silently turning a regrow round into a no-op:
// a vertex cut off as a BoundaryLeaf in one round must actually grow
// further once the task thresholds step up, instead of being handed
// back unchanged as the same task.
func TestQueen_RegrowExpandsBoundaryVertex(t *testing.T) {
	p := Params{
		Bins: 1, R: 2, S: 1,
		Monotonicity:   1,
		TaskDepthInit:  1,
		TaskLoadInit:   100,
		RegrowLimit:    1,
		WorkerCount:    1,
		BatchSize:      4,
		BatchThreshold: 1,
	}
	q := NewQueen(p, nil)
	root := binconf.NewBinConf(q.Tables)
	rootID := q.SetRoot(root)

	q.Generate(rootID)
	require.Len(t, q.TaskArray, 1)
	boundaryID := q.TaskArray[0]
	boundaryVtx := q.DAG.Adv[boundaryID]
	require.NotNil(t, boundaryVtx)
	assert.True(t, boundaryVtx.Task)
	assert.Equal(t, engine.BoundaryLeaf, boundaryVtx.Leaf)
	assert.Equal(t, engine.Uncertain, boundaryVtx.Win)

	require.True(t, q.RegrowBoundary())
	q.Regrow()

	// The vertex must have been re-entered and resolved (infeasible to
	// place a second size-1 item in a single bin of capacity R-1=1), not
	// left untouched as the same boundary task.
	resolved := q.DAG.Adv[boundaryID]
	require.NotNil(t, resolved)
	assert.False(t, resolved.Task)
	assert.Equal(t, engine.TrueLeaf, resolved.Leaf)
	assert.Equal(t, engine.AlgWins, resolved.Win)
	assert.Len(t, q.TaskArray, 0)
}
