package minibs

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
)

func TestShrink_BoundariesForD2S2(t *testing.T) {
	assert.Equal(t, 0, Shrink(1, 2, 2))
	assert.Equal(t, 1, Shrink(2, 2, 2))
}

func TestItemConfig_WithBucketIncrementsCount(t *testing.T) {
	qt := NewQuantTables(2, 4)
	ic := NewItemConfig(2)
	next := ic.WithBucket(qt, 1)

	assert.Equal(t, 0, ic.Counts[1]) // original untouched
	assert.Equal(t, 1, next.Counts[1])
	assert.NotEqual(t, ic.Hash, next.Hash)
}

func TestItemConfig_LEMonotone(t *testing.T) {
	qt := NewQuantTables(2, 4)
	small := NewItemConfig(2)
	big := small.WithBucket(qt, 0)

	assert.True(t, small.LE(big))
	assert.False(t, big.LE(small))
}

func TestRealConfig_GrowsBackToFeasibleSizes(t *testing.T) {
	tb := binconf.NewTables(2, 5, 4)
	qt := NewQuantTables(2, 4)
	ic := NewItemConfig(2)
	ic = ic.WithBucket(qt, 1)

	real := ic.RealConfig(tb, qt)
	assert.Equal(t, 1, real.Total())
}
