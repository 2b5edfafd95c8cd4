package heuristics

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
)

func TestGS1_TwoLargestCertifyWin(t *testing.T) {
	p := NewParams(3, 19, 14) // Alpha = 19-1-14 = 4
	loads := []int{14, 14, 0} // sum=28 >= 2*14-4=24
	assert.True(t, GS1(loads, p))
}

func TestGS1_NotYetWinning(t *testing.T) {
	p := NewParams(3, 19, 14)
	loads := []int{5, 5, 0}
	assert.False(t, GS1(loads, p))
}

func TestGS2_EmptyWindowNeverFires(t *testing.T) {
	p := NewParams(3, 19, 14) // S-2*Alpha=6, Alpha=4 -> window empty since 6>4
	loads := []int{6, 0, 0}
	assert.False(t, GS2(loads, p)) // window is empty, never fires here
}

func TestExtendedGS_GatedByAlphaBound(t *testing.T) {
	p := NewParams(3, 19, 14) // 3*Alpha=12 < S=14, extended predicates disabled
	loads := []int{10, 5, 0}
	assert.False(t, GS3(loads, p))
	assert.False(t, GS4(loads, p))
	assert.False(t, GS6(loads, p))
}

func TestExtendedGS_EnabledWhenAlphaLarge(t *testing.T) {
	// bins=3, R=10, S=6 -> Alpha = 10-1-6 = 3, 3*Alpha=9 >= S=6: enabled
	p := NewParams(3, 10, 6)
	assert.True(t, p.extendedActive())
}

func TestTestGS_AnyPredicateWins(t *testing.T) {
	p := NewParams(3, 19, 14)
	tb := binconf.NewTables(3, 19, 14)
	items := binconf.NewItemConf(tb)
	loads := []int{14, 14, 0}
	assert.True(t, TestGS(loads, items, p))
}

func TestGSHeuristic_FindsWinningPlacement(t *testing.T) {
	p := NewParams(3, 19, 14)
	tb := binconf.NewTables(3, 19, 14)
	items := binconf.NewItemConf(tb)
	loads := []int{14, 0, 0}
	assert.True(t, GSHeuristic(loads, items, 14, p))
}
