package minibs

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/stretchr/testify/assert"
)

func TestBuildKnownSum_SingleBinBothTuplesWin(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	ks := cache.NewKnownSumCache(8)
	BuildKnownSum(tb, ks)

	assert.True(t, ks.Contains(loadHash(tb, []int{1})))
	assert.True(t, ks.Contains(loadHash(tb, []int{0})))
}

func TestLoadTuples_CountAndSorted(t *testing.T) {
	tuples := loadTuples(2, 3) // entries in [0,3), non-increasing, length 2
	for _, tup := range tuples {
		assert.GreaterOrEqual(t, tup[0], tup[1])
	}
	// (0,0)(1,0)(1,1)(2,0)(2,1)(2,2) = 6 tuples
	assert.Len(t, tuples, 6)
}
