package textformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	apperrors "github.com/bohm/binstretch-search/pkg/errors"
)

// Advice is one ⟨bc, suggested item⟩ pair from an advice file: a hint the
// search should try this item first at this bc, per spec §6.
type Advice struct {
	BC   *binconf.BinConf
	Item int
}

const adviceMarker = "suggestion:"

// ParseAdviceFile reads an advice file: one "<bc> suggestion: <item>" line
// each, blank lines and lines starting with '#' ignored.
func ParseAdviceFile(t *binconf.Tables, r io.Reader) ([]Advice, error) {
	var out []Advice
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, adviceMarker)
		if idx < 0 {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "missing suggestion marker",
				fmt.Errorf("line %d: %q", lineNum, line))
		}

		bc, err := ParseBinConf(t, line[:idx])
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeParseError, fmt.Sprintf("line %d", lineNum), err)
		}

		itemStr := strings.TrimSpace(line[idx+len(adviceMarker):])
		item, err := strconv.Atoi(itemStr)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "malformed suggested item",
				fmt.Errorf("line %d: %w", lineNum, err))
		}

		out = append(out, Advice{BC: bc, Item: item})
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "reading advice file", err)
	}
	return out, nil
}
