package search

import (
	"context"
	"runtime"
	"sync"

	"github.com/bohm/binstretch-search/internal/engine/heuristics"
	"github.com/bohm/binstretch-search/pkg/utils"
)

// Overseer owns one thread pool of workers and the batch of task indices
// currently assigned to them — spec §4.6's "overseers receive batches of
// BATCH_SIZE task indices" and request more once the local queue drops
// below BATCH_THRESHOLD.
type Overseer struct {
	Queen  *Queen
	Logger utils.Logger

	localQueue []int
	mu         sync.Mutex
}

// NewOverseer attaches a fresh overseer to q.
func NewOverseer(q *Queen) *Overseer {
	return &Overseer{Queen: q, Logger: q.Logger}
}

// NextBatch walks the queen's task array forward from its shared pointer,
// skipping tasks whose status is not TaskAvailable, composing a batch of
// up to BatchSize indices — the queen-side half of batching.
func (q *Queen) NextBatch() []int {
	q.mu.Lock()
	defer q.mu.Unlock()

	var batch []int
	for q.taskPointer < len(q.TaskArray) && len(batch) < q.Params.BatchSize {
		idx := q.taskPointer
		q.taskPointer++
		if atomicLoadStatus(q.Status, idx) != int32(taskAvailable) {
			continue
		}
		atomicStoreStatus(q.Status, idx, int32(taskBatched))
		batch = append(batch, idx)
	}
	return batch
}

// refillIfLow asks the queen for another batch once the overseer's local
// queue empties past BatchThreshold.
func (o *Overseer) refillIfLow() {
	o.mu.Lock()
	low := len(o.localQueue) < o.Queen.Params.BatchThreshold
	o.mu.Unlock()
	if !low {
		return
	}
	more := o.Queen.NextBatch()
	if len(more) == 0 {
		return
	}
	o.mu.Lock()
	o.localQueue = append(o.localQueue, more...)
	o.mu.Unlock()
}

// Run drives WorkerCount worker goroutines (runtime.NumCPU() when
// WorkerCount is 0) against the overseer's batch queue until the queue
// and the queen's task array are both drained or ctx is cancelled.
// Verdicts are pushed to the queen's result channel.
func (o *Overseer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	workers := o.Queen.Params.WorkerCount
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.workerLoop(ctx)
		}()
	}
	wg.Wait()
}

func (o *Overseer) take() (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.localQueue) == 0 {
		return 0, false
	}
	idx := o.localQueue[0]
	o.localQueue = o.localQueue[1:]
	return idx, true
}

// workerLoop never reads o.Queen.DAG: the bin configuration for each task
// was snapshotted into o.Queen.TaskBC by installTaskArray before dispatch
// began, so the only thing a worker touches concurrently with the
// updater's DAG mutations is that read-only slice — per spec §5.
func (o *Overseer) workerLoop(ctx context.Context) {
	w := &Worker{
		Tables:       o.Queen.Tables,
		GSP:          heuristics.NewParams(o.Queen.Params.Bins, o.Queen.Params.R, o.Queen.Params.S),
		StateCache:   o.Queen.StateCache,
		DPCache:      o.Queen.DPCache,
		KnownSum:     o.Queen.KnownSum,
		Monotonicity: o.Queen.Params.Monotonicity,
		RootSolved:   o.Queen.rootSolvedFn,
		Advice:       o.Queen.Advice,
		Assumptions:  o.Queen.Assumptions,
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		o.refillIfLow()
		idx, ok := o.take()
		if !ok {
			if o.drained() {
				return
			}
			continue
		}

		advID := o.Queen.TaskArray[idx]
		bc := o.Queen.TaskBC[idx]
		if bc == nil {
			continue
		}

		// A task the updater prunes while it is batched or running is
		// cancelled at the worker's next poll, like a solved root.
		w.RootSolved = func() bool {
			return o.Queen.rootSolvedFn() || atomicLoadStatus(o.Queen.Status, idx) == int32(taskPruned)
		}
		verdict, err := w.Run(bc.Clone())
		if err != nil {
			// Cancelled mid-flight: discard the verdict, per spec §5.
			atomicStoreStatus(o.Queen.Status, idx, int32(taskIrrelevant))
			continue
		}

		atomicStoreStatus(o.Queen.Status, idx, statusFor(verdict))
		select {
		case o.Queen.resultCh <- Verdict{TaskIndex: idx, AdvID: advID, Win: verdict}:
		case <-ctx.Done():
			return
		}
	}
}

func (o *Overseer) drained() bool {
	o.Queen.mu.Lock()
	defer o.Queen.mu.Unlock()
	return o.Queen.taskPointer >= len(o.Queen.TaskArray)
}
