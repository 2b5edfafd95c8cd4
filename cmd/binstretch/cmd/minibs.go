package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/minibs"
	apperrors "github.com/bohm/binstretch-search/pkg/errors"
)

var (
	minibsM   int
	minibsR   int
	minibsS   int
	minibsD   int
	minibsOut string

	minibsCachePath string
	minibsLoads     string
	minibsItems     string
)

var minibsCmd = &cobra.Command{
	Use:   "minibs",
	Short: "Build or query a quantised fixed-point (minibs) cache",
}

var minibsBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Precompute the minibs winning-set table and save it to a file",
	RunE:  runMinibsBuild,
}

var minibsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a saved minibs cache for one load/item configuration",
	Long: `query reports whether the algorithm is known to win from the given
bin loads and item multiset, first against the quantised itemconfig layer
and then, if that is inconclusive, against the known-sum layer — the
two-stage check minibs.Query performs internally.`,
	RunE: runMinibsQuery,
}

func init() {
	rootCmd.AddCommand(minibsCmd)
	minibsCmd.AddCommand(minibsBuildCmd)
	minibsCmd.AddCommand(minibsQueryCmd)

	minibsBuildCmd.Flags().IntVar(&minibsM, "m", 0, "Number of bins (0 uses config default)")
	minibsBuildCmd.Flags().IntVar(&minibsR, "r", 0, "Stretched capacity numerator (0 uses config default)")
	minibsBuildCmd.Flags().IntVar(&minibsS, "s", 0, "Stretched capacity denominator (0 uses config default)")
	minibsBuildCmd.Flags().IntVar(&minibsD, "d", 0, "Quantisation denominator D (0 uses config default)")
	minibsBuildCmd.Flags().StringVar(&minibsOut, "out", "", "Output path for the saved cache (required)")

	minibsQueryCmd.Flags().StringVar(&minibsCachePath, "cache", "", "Path to a saved minibs cache (required)")
	minibsQueryCmd.Flags().StringVar(&minibsLoads, "loads", "", "Comma-separated bin loads, e.g. \"5,3,0\" (required)")
	minibsQueryCmd.Flags().StringVar(&minibsItems, "items", "", "Comma-separated item counts by size 1..S, e.g. \"2,1,0,0\" (required)")
}

func runMinibsBuild(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	c := GetConfig()

	m := firstPositive(minibsM, c.Engine.Bins)
	r := firstPositive(minibsR, c.Engine.R)
	s := firstPositive(minibsS, c.Engine.S)
	d := firstPositive(minibsD, c.Engine.MinibsDenominator)
	out := minibsOut
	if out == "" {
		out = c.MinibsCachePath()
	}

	t := binconf.NewTables(m, r, s)
	log.Info("building minibs table: m=%d r=%d s=%d d=%d", m, r, s, d)

	mb := minibs.Build(t, d)
	log.Info("built %d item-configuration layers", len(mb.Layers))

	f, err := os.Create(out)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "creating minibs output file", err)
	}
	defer f.Close()

	if err := minibs.Save(f, t, mb); err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "saving minibs cache", err)
	}

	fmt.Printf("saved minibs cache to %s (%d configs)\n", out, len(mb.Configs))
	return nil
}

func runMinibsQuery(cmd *cobra.Command, args []string) error {
	c := GetConfig()

	if minibsCachePath == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "--cache is required")
	}
	if minibsLoads == "" || minibsItems == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "--loads and --items are required")
	}

	m := firstPositive(minibsM, c.Engine.Bins)
	r := firstPositive(minibsR, c.Engine.R)
	s := firstPositive(minibsS, c.Engine.S)
	d := firstPositive(minibsD, c.Engine.MinibsDenominator)

	t := binconf.NewTables(m, r, s)
	qt := minibs.NewQuantTables(d, t.Bins*t.S+2)

	f, err := os.Open(minibsCachePath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeIOError, "opening minibs cache", err)
	}
	defer f.Close()

	mb, err := minibs.Load(f, t, qt)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeParseError, "loading minibs cache", err)
	}

	loads, err := parseIntList(minibsLoads)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "parsing --loads", err)
	}
	if len(loads) != t.Bins {
		return apperrors.New(apperrors.CodeInvalidInput, fmt.Sprintf("--loads has %d entries, expected %d (m)", len(loads), t.Bins))
	}

	itemCounts, err := parseIntList(minibsItems)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "parsing --items", err)
	}

	items := binconf.NewItemConf(t)
	for size, cnt := range itemCounts {
		for i := 0; i < cnt; i++ {
			items.AddItem(t, size+1)
		}
	}

	qc := mb.Quantize(items)
	winning := mb.Query(loads, qc)

	if winning {
		fmt.Println("ALGORITHM WINS from this position (known winning)")
	} else {
		fmt.Println("no winning certificate found for this position (adversary may still win)")
	}
	return nil
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
