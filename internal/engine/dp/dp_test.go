package dp

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/stretchr/testify/assert"
)

func itemsOf(t *binconf.Tables, sizes ...int) binconf.ItemConf {
	ic := binconf.NewItemConf(t)
	for _, s := range sizes {
		ic.AddItem(t, s)
	}
	return ic
}

// E3: DP on {14,9,9,9} with m=3 is infeasible; with m=4 it is feasible.
func TestFeasible_E3(t *testing.T) {
	t3 := binconf.NewTables(3, 19, 14)
	items3 := itemsOf(t3, 14, 9, 9, 9)
	assert.False(t, Feasible(t3, items3))

	t4 := binconf.NewTables(4, 19, 14)
	items4 := itemsOf(t4, 14, 9, 9, 9)
	assert.True(t, Feasible(t4, items4))
}

func TestFeasible_EmptyAlwaysFeasible(t *testing.T) {
	tb := binconf.NewTables(3, 19, 14)
	assert.True(t, Feasible(tb, binconf.NewItemConf(tb)))
}

func TestFeasible_TooManyMaximalItems(t *testing.T) {
	tb := binconf.NewTables(3, 19, 14)
	items := itemsOf(tb, 14, 14, 14, 14) // 4 size-S items, only 3 bins
	assert.False(t, Feasible(tb, items))
}

func TestMaxFeasibleItem_CachesResult(t *testing.T) {
	tb := binconf.NewTables(3, 19, 14)
	dpc := cache.NewDPCache(6)
	items := itemsOf(tb, 9, 9)

	size, ok := MaxFeasibleItem(tb, items, dpc, tb.S)
	assert.True(t, ok)
	assert.Equal(t, 14, size) // {9,9,14} still fits 3 bins of capacity 14

	// Repeated call should hit the cache and agree.
	size2, ok2 := MaxFeasibleItem(tb, items, dpc, tb.S)
	assert.Equal(t, ok, ok2)
	assert.Equal(t, size, size2)
}

func TestMaxFeasibleItem_NoneFeasible(t *testing.T) {
	tb := binconf.NewTables(3, 19, 14)
	dpc := cache.NewDPCache(6)
	items := itemsOf(tb, 14, 14, 14) // bins full at capacity S already

	_, ok := MaxFeasibleItem(tb, items, dpc, tb.S)
	assert.False(t, ok)
}
