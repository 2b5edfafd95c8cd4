package minimax

import (
	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/dag"
)

// Updater folds completed task verdicts back up through the DAG —
// spec §4.3's "updating" mode. It assumes every TrueLeaf/HeuristicalLeaf
// already carries its Win value (set at generation time) and every
// BoundaryLeaf task vertex has had its Win value set by the scheduler once
// the owning worker's exploration finished; Updater's job is purely the
// upward propagation and edge collapsing, not re-deriving any verdict.
type Updater struct {
	DAG *dag.DAG

	// OnPrune is forwarded to the DAG's cascading delete whenever a
	// collapse prunes an outstanding task, so the scheduler can retire it.
	OnPrune func(advID int)
}

// PropagateFrom re-evaluates every ancestor of a freshly-decided vertex,
// walking upward via in-edges until it either reaches the root or a vertex
// whose verdict does not change.
func (u *Updater) PropagateFrom(decidedAdvID int) {
	u.bubbleAdv(decidedAdvID)
}

func (u *Updater) bubbleAdv(advID int) {
	v := u.DAG.Adv[advID]
	if v == nil || v.Win == engine.Uncertain {
		return
	}
	for _, eid := range append([]int(nil), v.InEdges...) {
		e := u.DAG.Edges[eid]
		if e == nil {
			continue
		}
		parent := u.DAG.Alg[e.From]
		if parent == nil {
			continue
		}
		u.reevaluateAlg(parent, eid)
	}
}

func (u *Updater) reevaluateAlg(v *dag.AlgVertex, viaEdge int) {
	if v.Win != engine.Uncertain {
		return
	}
	if advVal(u.DAG, viaEdge) == engine.AlgWins {
		v.Win = engine.AlgWins
		v.State = engine.StateFinished
		u.DAG.CollapseAlgToWinningChild(v.ID, viaEdge, engine.ModeUpdating, u.OnPrune)
		u.bubbleAlg(v.ID)
		return
	}

	allAdv := true
	for _, eid := range v.OutEdges {
		switch advVal(u.DAG, eid) {
		case engine.AlgWins:
			v.Win = engine.AlgWins
			v.State = engine.StateFinished
			u.DAG.CollapseAlgToWinningChild(v.ID, eid, engine.ModeUpdating, u.OnPrune)
			u.bubbleAlg(v.ID)
			return
		case engine.AdvWins:
			// this branch is settled against the algorithm; keep scanning
		default:
			allAdv = false
		}
	}
	if allAdv {
		v.Win = engine.AdvWins
		v.State = engine.StateFinished
		u.bubbleAlg(v.ID)
	}
}

func (u *Updater) bubbleAlg(algID int) {
	v := u.DAG.Alg[algID]
	if v == nil || v.Win == engine.Uncertain {
		return
	}
	for _, eid := range append([]int(nil), v.InEdges...) {
		e := u.DAG.Edges[eid]
		if e == nil {
			continue
		}
		parent := u.DAG.Adv[e.From]
		if parent == nil {
			continue
		}
		u.reevaluateAdv(parent, eid)
	}
}

func (u *Updater) reevaluateAdv(v *dag.AdvVertex, viaEdge int) {
	if v.Win != engine.Uncertain {
		return
	}
	if algVal(u.DAG, viaEdge) == engine.AdvWins {
		v.Win = engine.AdvWins
		v.State = engine.StateFinished
		u.DAG.CollapseAdvToWinningChild(v.ID, viaEdge, engine.ModeUpdating, u.OnPrune)
		u.bubbleAdv(v.ID)
		return
	}

	allAlg := true
	for _, eid := range v.OutEdges {
		switch algVal(u.DAG, eid) {
		case engine.AdvWins:
			v.Win = engine.AdvWins
			v.State = engine.StateFinished
			u.DAG.CollapseAdvToWinningChild(v.ID, eid, engine.ModeUpdating, u.OnPrune)
			u.bubbleAdv(v.ID)
			return
		case engine.AlgWins:
		default:
			allAlg = false
		}
	}
	if allAlg {
		v.Win = engine.AlgWins
		v.State = engine.StateFinished
		u.bubbleAdv(v.ID)
	}
}

func advVal(d *dag.DAG, edgeID int) engine.Victory {
	e := d.Edges[edgeID]
	if e == nil {
		return engine.Uncertain
	}
	v := d.Adv[e.To]
	if v == nil {
		return engine.Uncertain
	}
	return v.Win
}

func algVal(d *dag.DAG, edgeID int) engine.Victory {
	e := d.Edges[edgeID]
	if e == nil {
		return engine.Uncertain
	}
	v := d.Alg[e.To]
	if v == nil {
		return engine.Uncertain
	}
	return v.Win
}
