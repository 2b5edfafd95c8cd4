package textformat

import (
	"testing"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinConf_RoundTrip(t *testing.T) {
	tb := binconf.NewTables(3, 19, 14)
	line := "[5 3 0] (0 0 1 0 1 0 0 0 0 0 0 0 0 0) 5"

	bc, err := ParseBinConf(tb, line)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3, 0}, bc.Loads)
	assert.Equal(t, 8, bc.TotalLoad)
	assert.Equal(t, 5, bc.LastItem)
	assert.Equal(t, 1, bc.Items.Counts[3])
	assert.Equal(t, 1, bc.Items.Counts[5])
	assert.True(t, bc.ConsistencyCheck(tb))

	assert.Equal(t, line, FormatBinConf(bc))
}

func TestParseBinConf_WrongBinCount(t *testing.T) {
	tb := binconf.NewTables(3, 19, 14)
	_, err := ParseBinConf(tb, "[5 3] (0 0 0 0 0 0 0 0 0 0 0 0 0 0) 1")
	assert.Error(t, err)
}

func TestParseBinConf_Malformed(t *testing.T) {
	tb := binconf.NewTables(3, 19, 14)
	_, err := ParseBinConf(tb, "not a bc at all")
	assert.Error(t, err)
}

func TestParseBinConf_InconsistentTotalLoad(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	// Bin load says 1 but no item of size 1 is recorded.
	_, err := ParseBinConf(tb, "[1] (0) 1")
	assert.Error(t, err)
}
