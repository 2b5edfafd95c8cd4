// Package search implements the queen/overseer/worker scheduling model of
// spec §4.6/§5: one queen owning the game DAG, one or more overseers each
// running a pool of workers, batched task dispatch, and round-based
// generation/exploration/update cycles. This is the "single-process
// thread model" alternative the Design Notes explicitly sanction in place
// of the original's separate-process queen/overseer split (see DESIGN.md).
package search

import (
	"sync"
	"sync/atomic"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
	"github.com/bohm/binstretch-search/internal/engine/cache"
	"github.com/bohm/binstretch-search/internal/engine/dag"
	"github.com/bohm/binstretch-search/internal/engine/heuristics"
	"github.com/bohm/binstretch-search/internal/engine/minibs"
	"github.com/bohm/binstretch-search/internal/engine/minimax"
	"github.com/bohm/binstretch-search/internal/textformat"
	"github.com/bohm/binstretch-search/pkg/utils"
)

// Params fixes the compile-time game parameters and scheduling tunables,
// per spec §6's "compile-time parameters" and §4.6's regrow levels.
type Params struct {
	Bins, R, S   int
	Monotonicity int

	TaskDepthInit int
	TaskLoadInit  int
	RegrowLimit   int

	WorkerCount    int
	BatchSize      int
	BatchThreshold int
}

// Queen owns the DAG, the shared caches, the task array, and drives the
// round lifecycle. The DAG is touched only by the queen's own generator
// and updater passes, never by workers — per spec §5's shared-state rule.
type Queen struct {
	Params Params
	Tables *binconf.Tables
	GSP    heuristics.Params
	Logger utils.Logger

	DAG        *dag.DAG
	StateCache *cache.StateCache
	DPCache    *cache.DPCache
	KnownSum   *cache.KnownSumCache
	Minibs     *minibs.Minibs

	// Advice/Assumptions are optional, loaded from the CLI's --advice and
	// --assume files (internal/textformat), and consulted by both the
	// generator and every worker's exploration — spec §6.
	Advice      map[uint64]int
	Assumptions map[uint64]engine.Victory

	TaskArray      []int // adv vertex ids, in dispatch order
	TaskBC         []*binconf.BinConf // per-task snapshot, parallel to TaskArray
	Status         []int32
	hashIndex      map[uint64]int
	taskIndexByAdv map[int]int

	// depthAt/loadAtRoot remember, for every adv vertex id ever handed out
	// as a task, the depth and load-since-root it was cut off at — so a
	// later regrow round can resume growth from exactly that point rather
	// than restarting from the root (which the DAG's hash-dedup would
	// turn into a no-op, see Generate).
	depthAt    map[int]int
	loadAtRoot map[int]int

	taskPointer  int
	taskDepth    int
	taskLoad     int
	regrowRounds int
	mu           sync.Mutex
	rootSolved   atomic.Bool
	rootSolvedFn func() bool
	resultCh     chan Verdict
}

// Verdict is one task's outcome, as reported by a worker through its
// overseer to the queen's update loop.
type Verdict struct {
	TaskIndex int
	AdvID     int
	Win       engine.Victory
}

// NewQueen builds a queen for the given parameters with an empty DAG;
// SetRoot installs the root bc.
func NewQueen(p Params, logger utils.Logger) *Queen {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}
	tb := binconf.NewTables(p.Bins, p.R, p.S)
	q := &Queen{
		Params:     p,
		Tables:     tb,
		GSP:        heuristics.NewParams(p.Bins, p.R, p.S),
		Logger:     logger,
		DAG:        dag.New(),
		StateCache: cache.NewStateCache(20),
		DPCache:    cache.NewDPCache(20),
		KnownSum:   cache.NewKnownSumCache(20),
		hashIndex:  make(map[uint64]int),
		depthAt:    make(map[int]int),
		loadAtRoot: make(map[int]int),
		taskDepth:  p.TaskDepthInit,
		taskLoad:   p.TaskLoadInit,
		resultCh:   make(chan Verdict, p.BatchSize*4),
	}
	q.rootSolvedFn = q.rootSolved.Load
	return q
}

// LoadAdvice installs a set of ⟨bc, suggested item⟩ hints parsed by
// internal/textformat, keyed by each bc's adversary hash.
func (q *Queen) LoadAdvice(advice []textformat.Advice) {
	q.Advice = make(map[uint64]int, len(advice))
	for _, a := range advice {
		q.Advice[a.BC.HashWithLast(q.Tables)] = a.Item
	}
}

// LoadAssumptions installs a set of ⟨bc, assumed winner⟩ facts parsed by
// internal/textformat, keyed by each bc's adversary hash.
func (q *Queen) LoadAssumptions(assumptions []textformat.Assumption) {
	q.Assumptions = make(map[uint64]engine.Victory, len(assumptions))
	for _, a := range assumptions {
		q.Assumptions[a.BC.HashWithLast(q.Tables)] = a.Win
	}
}

// EnableMinibs precomputes (or reuses, if already built) the minibs
// winning-set oracle — optional, since building it can dominate runtime
// for large D, hence the separate entry point rather than doing it in
// NewQueen unconditionally.
func (q *Queen) EnableMinibs(d int) {
	q.Minibs = minibs.Build(q.Tables, d)
	BuildKnownSumInto(q)
}

// BuildKnownSumInto (re)computes the known-sum cache the minimax
// evaluator consults directly, independent of whether a full minibs
// table was built — the known-sum layer is useful on its own.
func BuildKnownSumInto(q *Queen) {
	minibs.BuildKnownSum(q.Tables, q.KnownSum)
}

// SetRoot installs root as the DAG's root adversary vertex.
func (q *Queen) SetRoot(root *binconf.BinConf) int {
	return q.DAG.AddRoot(root, root.HashWithLast(q.Tables))
}

// Generate grows the DAG from the root down to the current task boundary,
// collecting every boundary vertex into the task array — spec §4.6's
// "task array" construction, DFS-collected after generation. Call this
// only for the very first round; later rounds (after RegrowBoundary has
// stepped the thresholds up) must go through Regrow instead, since the
// DAG's hash-based vertex dedup would otherwise make a second call to
// Generate from rootID a no-op — every vertex it would touch is already
// indexed from the first pass, so the generator's "only recurse into
// newly-created vertices" rule would skip all of them.
func (q *Queen) Generate(rootID int) {
	newTasks := q.runGenerator(func(gen *minimax.Generator) {
		gen.Run(rootID)
	})
	q.installTaskArray(newTasks)
}

// Regrow re-enters growth at every still-undecided vertex from the
// previous task array, now that the boundary has moved outward, and
// rebuilds the task array from whatever new boundary vertices result —
// spec §4.6's regrow round.
func (q *Queen) Regrow() {
	prev := q.TaskArray
	newTasks := q.runGenerator(func(gen *minimax.Generator) {
		for _, advID := range prev {
			v := q.DAG.Adv[advID]
			if v == nil || v.Win != engine.Uncertain {
				// Already decided (or collapsed away) by the update
				// pass; nothing left here to resume.
				continue
			}
			v.Task = false
			v.Leaf = engine.NonLeaf
			v.State = engine.StateFresh
			gen.ResumeAdv(advID, q.depthAt[advID], q.loadAtRoot[advID])
		}
	})
	q.installTaskArray(newTasks)
}

// runGenerator wires a fresh Generator against the current task
// thresholds, runs body against it, and returns the boundary vertices it
// collected along with their depth/load bookkeeping.
func (q *Queen) runGenerator(body func(gen *minimax.Generator)) []int {
	var collected []int
	gen := &minimax.Generator{
		Tables:       q.Tables,
		GSParams:     q.GSP,
		DPCache:      q.DPCache,
		Monotonicity: q.Params.Monotonicity,
		TaskDepth:    q.taskDepth,
		TaskLoad:     q.taskLoad,
		DAG:          q.DAG,
		Assumptions:  q.Assumptions,
		OnTask: func(advID, depth, loadSinceRoot int) {
			collected = append(collected, advID)
			q.depthAt[advID] = depth
			q.loadAtRoot[advID] = loadSinceRoot
		},
	}
	body(gen)
	return collected
}

// installTaskArray commits a freshly-collected set of boundary vertices
// as the queen's dispatchable task array in collection order, which is
// already largest-items-first because the generator tries the adversary's
// items from largest to smallest — spec §4.6's default dispatch order.
//
// It also snapshots each task's bin configuration into TaskBC. Workers
// read only TaskBC[idx]; they never look at q.DAG.Adv[advID] or any
// vertex field, since the DAG itself is mutated concurrently by the
// updater as verdicts arrive (Win, State, collapsed edges) — per spec
// §5, the DAG belongs to the queen's generator and updater threads
// alone. Snapshotting here, while nothing but the queen's own
// goroutine is running (Generate/Regrow always precede the overseer's
// Run), keeps that true without needing to guard every worker read
// with q.mu.
func (q *Queen) installTaskArray(tasks []int) {
	q.TaskArray = tasks

	q.Status = make([]int32, len(q.TaskArray))
	q.TaskBC = make([]*binconf.BinConf, len(q.TaskArray))
	q.hashIndex = make(map[uint64]int, len(q.TaskArray))
	q.taskIndexByAdv = make(map[int]int, len(q.TaskArray))
	for idx, advID := range q.TaskArray {
		vtx := q.DAG.Adv[advID]
		q.TaskBC[idx] = vtx.BC
		q.hashIndex[vtx.Hash] = idx
		q.taskIndexByAdv[advID] = idx
	}
	q.taskPointer = 0
}

// RootDecided reports whether the root adversary vertex now has a
// definite verdict.
func (q *Queen) RootDecided(rootID int) (engine.Victory, bool) {
	v := q.DAG.Adv[rootID]
	if v == nil {
		return engine.Uncertain, false
	}
	return v.Win, v.Win != engine.Uncertain
}

// MarkRootSolved flips the cancellation flag every worker polls.
func (q *Queen) MarkRootSolved() {
	q.rootSolved.Store(true)
}

// RegrowBoundary steps the task thresholds up for the next expansion
// round, per spec §4.6's "regrow level within the regrow limit".
func (q *Queen) RegrowBoundary() bool {
	if q.regrowRounds >= q.Params.RegrowLimit {
		return false
	}
	q.regrowRounds++
	q.taskDepth += q.Params.TaskDepthInit
	q.taskLoad += q.Params.TaskLoadInit
	return true
}
