package search

import (
	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/minimax"
)

// Updater wraps minimax.Updater with the queen's task-status bookkeeping:
// applying a worker's verdict sets the task vertex's Win field, then lets
// the generic upward propagation collapse and decide ancestors. A
// collapse that prunes another outstanding task flips its status to
// TaskPruned so the next worker poll discards it — spec §4.6's "result
// propagation" / "cancellation signal".
type Updater struct {
	Queen *Queen
}

// Apply folds one verdict into the DAG and propagates it upward.
func (u *Updater) Apply(v Verdict) {
	q := u.Queen
	vtx := q.DAG.Adv[v.AdvID]
	if vtx == nil || vtx.Win != engine.Uncertain {
		return
	}
	vtx.Win = v.Win
	vtx.State = engine.StateFinished

	mu := &minimax.Updater{
		DAG: q.DAG,
		OnPrune: func(advID int) {
			if idx, ok := q.taskIndexByAdv[advID]; ok {
				atomicStoreStatus(q.Status, idx, int32(taskPruned))
			}
		},
	}
	mu.PropagateFrom(v.AdvID)
}
