package heuristics

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
)

func TestLargeItemHeuristic_FiresOnGenuineBlock(t *testing.T) {
	p := NewParams(3, 19, 14) // Alpha=4
	tb := binconf.NewTables(3, 19, 14)
	items := binconf.NewItemConf(tb)
	loads := []int{9, 9, 9} // every bin blocked for q=14 (9+14=23>18), and {14} alone is trivially packable

	strat, ok := LargeItemHeuristic(tb, loads, items, p)
	assert.True(t, ok)
	assert.Equal(t, []int{14}, strat.Items)
}

// TestLargeItemHeuristic_RejectsInfeasibleContinuation is the m=3,R=19,S=14
// regression case: [14 14 14] with items {14,14,14} is blocked for q=14 on
// every bin, but a fourth 14 cannot be packed into 3 bins of size 14 at
// all, so this is not a legal continuation and must not be reported as a
// win (the position is in fact an algorithm win: everything already fits).
func TestLargeItemHeuristic_RejectsInfeasibleContinuation(t *testing.T) {
	p := NewParams(3, 19, 14)
	tb := binconf.NewTables(3, 19, 14)
	items := binconf.NewItemConf(tb)
	items.AddItem(tb, 14)
	items.AddItem(tb, 14)
	items.AddItem(tb, 14)
	loads := []int{14, 14, 14}

	_, ok := LargeItemHeuristic(tb, loads, items, p)
	assert.False(t, ok)
}

// TestLargeItemHeuristic_RejectsWhenOfflineInfeasible covers the
// dp.Feasible gate specifically: every candidate q >= 10 is blocked by the
// loads (q <= 9 still fits a bin of load 9) and stays within the
// total-volume bound (instance_possible), but three already-committed
// size-10 items leave no room for a fourth, so none of the blocked q is a
// legal continuation either.
func TestLargeItemHeuristic_RejectsWhenOfflineInfeasible(t *testing.T) {
	p := NewParams(3, 19, 14)
	tb := binconf.NewTables(3, 19, 14)
	items := binconf.NewItemConf(tb)
	items.AddItem(tb, 10)
	items.AddItem(tb, 10)
	items.AddItem(tb, 10)
	loads := []int{9, 9, 9}

	_, ok := LargeItemHeuristic(tb, loads, items, p)
	assert.False(t, ok)
}
