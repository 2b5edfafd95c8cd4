package search

import (
	"context"

	"github.com/bohm/binstretch-search/internal/engine"
	"github.com/bohm/binstretch-search/internal/engine/binconf"
)

// RunFromRoot drives the full round lifecycle of spec §4.6: generate down
// to the task boundary, dispatch tasks to one overseer, drain verdicts
// and update the DAG as they arrive, and regrow the boundary if the root
// is still undecided once the current task array is exhausted. It
// returns once the root is decided, ctx is cancelled, a (re)generation
// yields no tasks (AlgWins), or the regrow limit is reached (Uncertain).
func RunFromRoot(ctx context.Context, q *Queen, root *binconf.BinConf) (engine.Victory, error) {
	rootID := q.SetRoot(root)
	updater := &Updater{Queen: q}
	first := true

	for {
		if first {
			q.Generate(rootID)
			first = false
		} else {
			q.Regrow()
		}
		if v, done := q.RootDecided(rootID); done {
			return v, nil
		}
		if len(q.TaskArray) == 0 {
			// Nothing left to expand and still undecided: the generator
			// ran out of branches without a boundary or a leaf, which
			// cannot happen if Generate is correct — treat as alg win
			// (no further adversary move was feasible anywhere).
			return engine.AlgWins, nil
		}

		ov := NewOverseer(q)
		done := make(chan struct{})
		go func() {
			ov.Run(ctx)
			close(done)
		}()

	drain:
		for {
			select {
			case <-ctx.Done():
				return engine.Uncertain, ctx.Err()
			case v := <-q.resultCh:
				updater.Apply(v)
				if win, ok := q.RootDecided(rootID); ok {
					q.MarkRootSolved()
					return win, nil
				}
			case <-done:
				break drain
			}
		}
		// Drain any verdicts left in the channel after workers stopped.
		for {
			select {
			case v := <-q.resultCh:
				updater.Apply(v)
			default:
				goto drained
			}
		}
	drained:
		if win, ok := q.RootDecided(rootID); ok {
			return win, nil
		}
		if !q.RegrowBoundary() {
			return engine.Uncertain, nil
		}
	}
}
