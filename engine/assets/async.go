package assets

import (
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Task ids only disambiguate submissions within the pool; a process-wide
// counter is sufficient.
var asyncTaskID atomic.Int64

// NewLoadPool creates a worker pool sized for background asset loading.
// Workers are reused across loads and idle-exit after a second, so a pool
// left running between level loads costs nothing.
//
// Parameters:
//   - workers: the maximum number of concurrent load workers
//
// Returns:
//   - worker.DynamicWorkerPool: the pool to pass to LoadAsync
func NewLoadPool(workers int) worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)
}

// LoadAsync submits a Load to the pool and returns immediately. The done
// callback receives the handle or the error on the worker goroutine once the
// load finishes; a nil done discards the result.
//
// Slow sources (disk decodes, network fetches) overlap this way without
// stalling the frame loop, while the registry's own locking keeps concurrent
// stores safe.
//
// Parameters:
//   - r: the registry holding T's storage and loader registrations
//   - pool: the worker pool to run the load on
//   - source: the source description passed to the default loader
//   - done: called with the result when the load completes; may be nil
func LoadAsync[T, S any](r *Registry, pool worker.DynamicWorkerPool, source S, done func(Handle[T], error)) {
	pool.SubmitTask(worker.Task{
		ID: int(asyncTaskID.Add(1)),
		Do: func() (any, error) {
			h, err := Load[T, S](r, source)
			if done != nil {
				done(h, err)
			}
			return h, err
		},
	})
}
