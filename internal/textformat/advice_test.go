package textformat

import (
	"strings"
	"testing"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdviceFile(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	input := strings.NewReader(strings.Join([]string{
		"# a comment line",
		"",
		"[0] (0) 2 suggestion: 1",
	}, "\n"))

	advice, err := ParseAdviceFile(tb, input)
	require.NoError(t, err)
	require.Len(t, advice, 1)
	assert.Equal(t, 1, advice[0].Item)
	assert.Equal(t, []int{0}, advice[0].BC.Loads)
}

func TestParseAdviceFile_MissingMarker(t *testing.T) {
	tb := binconf.NewTables(1, 2, 1)
	_, err := ParseAdviceFile(tb, strings.NewReader("[0] (0) 2"))
	assert.Error(t, err)
}
