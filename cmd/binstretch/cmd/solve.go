package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bohm/binstretch-search/internal/dotgraph"
	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/minibs"
	"github.com/bohm/binstretch-search/internal/repository"
	"github.com/bohm/binstretch-search/internal/search"
	"github.com/bohm/binstretch-search/internal/storage"
	"github.com/bohm/binstretch-search/internal/textformat"
	"github.com/bohm/binstretch-search/pkg/config"
	apperrors "github.com/bohm/binstretch-search/pkg/errors"
)

var (
	solveRoot         string
	solveAdvice       string
	solveAssume       string
	solveBins         int
	solveR            int
	solveS            int
	solveMonotonicity int
	solveMinibsDenom  int
	solveWorkers      int
	solveDotOut       string
	solveMinibsCache  string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run one full lower-bound search from a root bin configuration",
	Long: `solve grows the game DAG from a root bin configuration, splits its
frontier into tasks, and explores each task with a minimax evaluator,
regrowing the boundary as needed until the root is decided.

Exit code 0 means the adversary wins: the chosen root proves the lower
bound. Exit code 1 means the algorithm wins: no bound was produced from
this root.`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVar(&solveRoot, "root", "", "Root bin configuration in bc notation (defaults to the empty configuration for --m/--s)")
	solveCmd.Flags().StringVar(&solveAdvice, "advice", "", "Advice file: per-bc suggested item hints")
	solveCmd.Flags().StringVar(&solveAssume, "assume", "", "Assumption file: per-bc assumed winners")
	solveCmd.Flags().IntVar(&solveBins, "m", 0, "Number of bins (0 uses config default)")
	solveCmd.Flags().IntVar(&solveR, "r", 0, "Stretched capacity numerator (0 uses config default)")
	solveCmd.Flags().IntVar(&solveS, "s", 0, "Stretched capacity denominator / largest item size (0 uses config default)")
	solveCmd.Flags().IntVar(&solveMonotonicity, "monotonicity", -1, "Monotonicity bound (-1 uses config default)")
	solveCmd.Flags().IntVar(&solveMinibsDenom, "minibs-denominator", -1, "Quantisation denominator D for the minibs cache (-1 uses config default, 0 disables minibs)")
	solveCmd.Flags().IntVar(&solveWorkers, "workers", 0, "Worker goroutines per overseer (0 uses config default / runtime.NumCPU())")
	solveCmd.Flags().StringVar(&solveDotOut, "dot-out", "", "Write the final game DAG as a DOT file to this path")
	solveCmd.Flags().StringVar(&solveMinibsCache, "minibs-cache", "", "Path to a saved minibs binary cache (loaded if present, otherwise built and saved there)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	c := GetConfig()

	p := search.Params{
		Bins:           firstPositive(solveBins, c.Engine.Bins),
		R:              firstPositive(solveR, c.Engine.R),
		S:              firstPositive(solveS, c.Engine.S),
		Monotonicity:   firstNonNegative(solveMonotonicity, c.Engine.Monotonicity),
		TaskDepthInit:  c.Engine.TaskDepthInit,
		TaskLoadInit:   c.Engine.TaskLoadInit,
		RegrowLimit:    c.Engine.RegrowLimit,
		WorkerCount:    firstPositive(solveWorkers, c.Scheduler.WorkerCount),
		BatchSize:      c.Scheduler.BatchSize,
		BatchThreshold: c.Scheduler.BatchThreshold,
	}

	q := search.NewQueen(p, log)

	rootLine := solveRoot
	if rootLine == "" {
		rootLine = emptyRootBC(p.Bins, p.S)
	}
	root, err := textformat.ParseBinConf(q.Tables, rootLine)
	if err != nil {
		return err
	}

	if solveAdvice != "" {
		advice, err := loadAdvice(q.Tables, solveAdvice)
		if err != nil {
			return err
		}
		q.LoadAdvice(advice)
		log.Info("loaded %d advice hints from %s", len(advice), solveAdvice)
	}

	if solveAssume != "" {
		assumptions, err := loadAssumptions(q.Tables, solveAssume)
		if err != nil {
			return err
		}
		q.LoadAssumptions(assumptions)
		log.Info("loaded %d assumptions from %s", len(assumptions), solveAssume)
	}

	denom := solveMinibsDenom
	if denom < 0 {
		denom = c.Engine.MinibsDenominator
	}
	if denom > 0 {
		if err := loadOrBuildMinibs(q, denom, c); err != nil {
			return err
		}
	} else {
		search.BuildKnownSumInto(q)
	}

	var runRepo repository.SearchRunRepository
	var runID int64
	if repos, err := openRunRepository(c); err == nil && repos != nil {
		runRepo = repos.Run
		run := &repository.SearchRun{
			RootBC:    rootLine,
			Bins:      p.Bins,
			R:         p.R,
			S:         p.S,
			StartedAt: time.Now(),
		}
		if err := runRepo.CreateRun(context.Background(), run); err == nil {
			runID = run.ID
		}
		defer repos.Close()
	} else if err != nil {
		log.Warn("run history unavailable: %v", err)
	}

	log.Info("solving from root %s (m=%d r=%d s=%d)", textformat.FormatBinConf(root), p.Bins, p.R, p.S)
	start := time.Now()

	ctx := context.Background()
	verdict, err := search.RunFromRoot(ctx, q, root)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	log.Info("verdict: %s (took %s)", verdict, elapsed)

	if runRepo != nil && runID != 0 {
		taskCount := len(q.TaskArray)
		solvedCount := 0
		for _, s := range q.Status {
			if engine.Victory(s) != engine.Uncertain {
				solvedCount++
			}
		}
		if err := runRepo.FinishRun(context.Background(), runID, verdict.String(), taskCount, solvedCount, elapsed); err != nil {
			log.Warn("failed to record run outcome: %v", err)
		}
	}

	if solveDotOut != "" {
		f, err := os.Create(solveDotOut)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "creating dot output", err)
		}
		defer f.Close()
		if err := dotgraph.Write(f, q.DAG); err != nil {
			return apperrors.Wrap(apperrors.CodeIOError, "writing dot output", err)
		}
		log.Info("wrote DAG to %s", solveDotOut)
	}

	switch verdict {
	case engine.AdvWins:
		fmt.Println("ADVERSARY WINS: the lower bound holds from this root")
		return nil
	case engine.AlgWins:
		fmt.Println("ALGORITHM WINS: no bound produced from this root")
		os.Exit(1)
	default:
		fmt.Println("UNCERTAIN: search ran out of regrow rounds without a decision")
		os.Exit(1)
	}
	return nil
}

func loadAdvice(t *binconf.Tables, path string) ([]textformat.Advice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "opening advice file", err)
	}
	defer f.Close()
	return textformat.ParseAdviceFile(t, f)
}

func loadAssumptions(t *binconf.Tables, path string) ([]textformat.Assumption, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, "opening assumption file", err)
	}
	defer f.Close()
	return textformat.ParseAssumptionFile(t, f)
}

func openRunRepository(c *config.Config) (*repository.Repositories, error) {
	gormDB, err := repository.NewGormDB(&repository.DBConfig{
		Type:     c.Database.Type,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Database: c.Database.Database,
		User:     c.Database.User,
		Password: c.Database.Password,
		MaxConns: c.Database.MaxConns,
	})
	if err != nil {
		return nil, err
	}
	return repository.NewRepositories(gormDB, c.Database.Type)
}

// emptyRootBC builds the textual bc for the empty m-bin, S-item-size root,
// with last_item fixed at 1 (any item size is still sendable), matching
// the worked example's "[0 0 0] (0 … 0) 1" convention.
func emptyRootBC(bins, s int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < bins; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0')
	}
	sb.WriteString("] (")
	for i := 0; i < s; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0')
	}
	sb.WriteString(") 1")
	return sb.String()
}

// loadOrBuildMinibs loads a previously saved minibs cache from storage if
// one exists at the resolved path, otherwise builds a fresh one in place
// and (best-effort) saves it back for the next invocation to reuse.
func loadOrBuildMinibs(q *search.Queen, denom int, c *config.Config) error {
	log := GetLogger()
	path := solveMinibsCache
	if path == "" {
		path = c.MinibsCachePath()
	}

	st, err := storage.NewStorage(&c.Storage)
	if err != nil {
		log.Warn("minibs storage unavailable, building in memory only: %v", err)
		q.EnableMinibs(denom)
		return nil
	}

	ctx := context.Background()
	if exists, _ := st.Exists(ctx, path); exists {
		rc, err := st.Download(ctx, path)
		if err == nil {
			defer rc.Close()
			qt := minibs.NewQuantTables(denom, q.Tables.Bins*q.Tables.S+2)
			loaded, err := minibs.Load(rc, q.Tables, qt)
			if err == nil {
				q.Minibs = loaded
				search.BuildKnownSumInto(q)
				log.Info("loaded minibs cache from %s: %d configs", path, len(loaded.Configs))
				return nil
			}
			log.Warn("failed to parse minibs cache %s, rebuilding: %v", path, err)
		} else {
			log.Warn("failed to download minibs cache %s, rebuilding: %v", path, err)
		}
	}

	q.EnableMinibs(denom)
	log.Info("minibs table built: D=%d, %d configs", denom, len(q.Minibs.Configs))

	var buf bytes.Buffer
	if err := minibs.Save(&buf, q.Tables, q.Minibs); err == nil {
		if err := st.Upload(ctx, path, &buf); err != nil {
			log.Warn("failed to save minibs cache to %s: %v", path, err)
		} else {
			log.Info("saved minibs cache to %s", path)
		}
	}
	return nil
}

func firstPositive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func firstNonNegative(v, fallback int) int {
	if v >= 0 {
		return v
	}
	return fallback
}
