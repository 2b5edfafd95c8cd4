package dag

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSmallDAG(t *testing.T) (*DAG, int, int, int) {
	tb := binconf.NewTables(3, 19, 14)
	d := New()

	root := binconf.NewBinConf(tb)
	rootID := d.AddRoot(root, root.HashWithLast(tb))

	item := 9
	alg := root.Clone()
	algID, _ := d.AddAlg(alg, item, alg.AlgHash(tb, item), false)
	advEdge := d.AddAdvOutEdge(rootID, item, algID)

	child := root.Clone()
	frame, pos := child.Assign(tb, 0, item)
	_ = frame
	_ = pos
	childID, _ := d.AddAdv(child, child.HashWithLast(tb), false)
	d.AddAlgOutEdge(algID, 0, childID)

	require.NotEqual(t, rootID, childID)
	return d, rootID, algID, advEdge
}

func TestDAG_BasicConsistency(t *testing.T) {
	d, _, _, _ := buildSmallDAG(t)
	assert.NoError(t, d.ConsistencyCheck())
}

func TestDAG_RemoveEdgeDropsFromBothSides(t *testing.T) {
	d, rootID, algID, advEdge := buildSmallDAG(t)

	d.RemoveEdge(advEdge)

	assert.Empty(t, d.Adv[rootID].OutEdges)
	assert.Empty(t, d.Alg[algID].InEdges)
}

func TestDAG_CascadingDeleteOnZeroInDegree(t *testing.T) {
	d, rootID, algID, advEdge := buildSmallDAG(t)

	var pruned []int
	d.RemoveInEdge(advEdge, engine.ModeUpdating, func(id int) { pruned = append(pruned, id) })

	assert.Nil(t, d.Alg[algID])
	assert.NotNil(t, d.Adv[rootID])
}

func TestDAG_DFSVisitsEveryVertexOnce(t *testing.T) {
	d, _, _, _ := buildSmallDAG(t)

	var advCount, algCount int
	d.DFS(func(v *AdvVertex) { advCount++ }, func(v *AlgVertex) { algCount++ }, false)

	assert.Equal(t, 2, advCount)
	assert.Equal(t, 1, algCount)
}

func TestDAG_CloneTreePreservesShape(t *testing.T) {
	d, _, _, _ := buildSmallDAG(t)
	clone := d.Clone(false)

	assert.NoError(t, clone.ConsistencyCheck())

	var advCount, algCount int
	clone.DFS(func(v *AdvVertex) { advCount++ }, func(v *AlgVertex) { algCount++ }, false)
	assert.Equal(t, 2, advCount)
	assert.Equal(t, 1, algCount)
}

func TestDAG_BFSLayers(t *testing.T) {
	d, _, _, _ := buildSmallDAG(t)
	layers := d.BFSLayers()
	require.GreaterOrEqual(t, len(layers), 2)
	assert.Len(t, layers[0].Adv, 1)
}
