package textformat

import (
	"strings"
	"testing"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssumptionFile(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	input := strings.NewReader("[0] (0) 2 assumption: alg\n[1] (1) 1 assumption: adv\n")

	assumptions, err := ParseAssumptionFile(tb, input)
	require.NoError(t, err)
	require.Len(t, assumptions, 2)
	assert.Equal(t, engine.AlgWins, assumptions[0].Win)
	assert.Equal(t, engine.AdvWins, assumptions[1].Win)
}

func TestParseAssumptionFile_InvalidWinner(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	_, err := ParseAssumptionFile(tb, strings.NewReader("[0] (0) 2 assumption: draw"))
	assert.Error(t, err)
}
