// Package textformat implements the textual bc notation and the
// advice/assumption file formats of spec §6: reading a bin configuration
// (and per-bc hints) off disk, and rendering one back for CLI output and
// error messages.
package textformat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	apperrors "github.com/bohm/binstretch-search/pkg/errors"
)

// bcPattern splits "[l1 l2 … lm] (i1 i2 … iS) last_item" into its three
// whitespace-separated sections.
var bcPattern = regexp.MustCompile(`^\[([^\]]*)\]\s*\(([^)]*)\)\s*(-?\d+)\s*$`)

// ParseBinConf parses the textual bc format against the given game
// parameters, returning a fresh, fully-hashed bc.
func ParseBinConf(t *binconf.Tables, line string) (*binconf.BinConf, error) {
	m := bcPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "malformed bc line", fmt.Errorf("%q", line))
	}

	loads, err := parseInts(m[1])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "malformed bin loads", err)
	}
	if len(loads) != t.Bins {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "wrong number of bins",
			fmt.Errorf("got %d, want %d", len(loads), t.Bins))
	}

	counts, err := parseInts(m[2])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "malformed item counts", err)
	}
	if len(counts) != t.S {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "wrong number of item sizes",
			fmt.Errorf("got %d, want %d", len(counts), t.S))
	}

	lastItem, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "malformed last item", err)
	}

	bc := binconf.NewBinConf(t)
	total := 0
	for i, l := range loads {
		bc.Loads[i] = l
		total += l
	}
	bc.TotalLoad = total
	for size, c := range counts {
		bc.Items.Counts[size+1] = c
	}
	bc.LastItem = lastItem
	bc.LoadConf.RehashFromScratch(t)
	bc.Items.RehashFromScratch(t)

	if !bc.ConsistencyCheck(t) {
		return nil, apperrors.New(apperrors.CodeParseError, "bc line fails consistency check: "+line)
	}
	return bc, nil
}

// FormatBinConf renders bc back into the textual form.
func FormatBinConf(bc *binconf.BinConf) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, l := range bc.Loads {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(l))
	}
	sb.WriteString("] (")
	for i := 1; i < len(bc.Items.Counts); i++ {
		if i > 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(bc.Items.Counts[i]))
	}
	sb.WriteString(") ")
	sb.WriteString(strconv.Itoa(bc.LastItem))
	return sb.String()
}

// parseInts splits a whitespace-separated list of integers; an empty
// (all-whitespace) field yields an empty, non-nil slice.
func parseInts(field string) ([]int, error) {
	fields := strings.Fields(field)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", f, err)
		}
		out = append(out, n)
	}
	return out, nil
}
