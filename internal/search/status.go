package search

import (
	"sync/atomic"

	"github.com/bohm/binstretch-search/internal/engine"
)

// Status slots are stored as int32 so they can be addressed atomically;
// these local aliases just give the engine.TaskStatus values atomic-safe
// names at the call sites in this package.
const (
	taskAvailable  = engine.TaskAvailable
	taskBatched    = engine.TaskBatched
	taskPruned     = engine.TaskPruned
	taskAlgWin     = engine.TaskAlgWin
	taskAdvWin     = engine.TaskAdvWin
	taskIrrelevant = engine.TaskIrrelevant
)

func atomicLoadStatus(status []int32, idx int) int32 {
	return atomic.LoadInt32(&status[idx])
}

func atomicStoreStatus(status []int32, idx int, v int32) {
	atomic.StoreInt32(&status[idx], v)
}

// statusFor maps a worker's victory verdict to the task-array status code.
func statusFor(v engine.Victory) int32 {
	switch v {
	case engine.AlgWins:
		return int32(taskAlgWin)
	case engine.AdvWins:
		return int32(taskAdvWin)
	default:
		return int32(taskIrrelevant)
	}
}
