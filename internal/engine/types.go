// Package engine defines the shared enumerations used across the game DAG,
// the minimax evaluator, the feasibility oracle, and the task scheduler.
// It has no dependency on any of its sibling packages so that they can all
// import it without creating a cycle.
package engine

// Victory is the outcome of a (sub)game from a given vertex.
type Victory int

const (
	Uncertain Victory = iota
	AdvWins
	AlgWins
	Irrelevant
)

func (v Victory) String() string {
	switch v {
	case Uncertain:
		return "uncertain"
	case AdvWins:
		return "adv"
	case AlgWins:
		return "alg"
	case Irrelevant:
		return "irrelevant"
	default:
		return "unknown"
	}
}

// VertexState tracks a vertex's lifecycle across generation/expansion rounds.
type VertexState int

const (
	StateFresh VertexState = iota
	StateFinished
	StateExpandable
	StateExpanding
	StateFixed
)

// LeafKind classifies why a vertex has no (more) children.
type LeafKind int

const (
	NonLeaf LeafKind = iota
	HeuristicalLeaf
	TrueLeaf
	BoundaryLeaf
	AssumptionLeaf
)

// Heuristic names an adversary heuristic that decided a vertex.
type Heuristic int

const (
	NoHeuristic Heuristic = iota
	LargeItemHeuristic
	FiveNineHeuristic
)

func (h Heuristic) String() string {
	switch h {
	case LargeItemHeuristic:
		return "large_item"
	case FiveNineHeuristic:
		return "five_nine"
	default:
		return ""
	}
}

// MinimaxMode selects which of the three evaluator behaviors is active.
type MinimaxMode int

const (
	ModeGenerating MinimaxMode = iota
	ModeExploring
	ModeUpdating
)

// TaskStatus is the atomically-updated state of one task array slot.
type TaskStatus int32

const (
	TaskAvailable TaskStatus = iota
	TaskBatched
	TaskPruned
	TaskAlgWin
	TaskAdvWin
	TaskIrrelevant
)

func (s TaskStatus) String() string {
	switch s {
	case TaskAvailable:
		return "available"
	case TaskBatched:
		return "batched"
	case TaskPruned:
		return "pruned"
	case TaskAlgWin:
		return "alg_win"
	case TaskAdvWin:
		return "adv_win"
	case TaskIrrelevant:
		return "irrelevant"
	default:
		return "unknown"
	}
}
