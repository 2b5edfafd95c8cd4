package textformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	apperrors "github.com/bohm/binstretch-search/pkg/errors"
)

// Assumption is one ⟨bc, assumed winner⟩ pair from an assumption file: the
// search treats this bc as already decided with the given verdict, without
// expanding it — spec §6's assumption files, consumed by assumption-leaf
// generation (engine.AssumptionLeaf).
type Assumption struct {
	BC  *binconf.BinConf
	Win engine.Victory
}

const assumptionMarker = "assumption:"

// ParseAssumptionFile reads an assumption file: one "<bc> assumption: adv|alg"
// line each, blank lines and lines starting with '#' ignored.
func ParseAssumptionFile(t *binconf.Tables, r io.Reader) ([]Assumption, error) {
	var out []Assumption
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, assumptionMarker)
		if idx < 0 {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "missing assumption marker",
				fmt.Errorf("line %d: %q", lineNum, line))
		}

		bc, err := ParseBinConf(t, line[:idx])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeParseError, fmt.Sprintf("line %d", lineNum), err)
		}

		winStr := strings.ToLower(strings.TrimSpace(line[idx+len(assumptionMarker):]))
		var win engine.Victory
		switch winStr {
		case "adv":
			win = engine.AdvWins
		case "alg":
			win = engine.AlgWins
		default:
			return nil, apperrors.Wrap(apperrors.CodeParseError, "assumed winner must be adv or alg",
				fmt.Errorf("line %d: %q", lineNum, winStr))
		}

		out = append(out, Assumption{BC: bc, Win: win})
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading assumption file", err)
	}
	return out, nil
}
