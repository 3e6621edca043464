// Package locks serializes read-then-write sequences per worker within a process.
package locks

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// WorkerLocks hands out one mutex per worker profile ID.
//
// Mutexes are created lazily and kept for the lifetime of the registry; the
// number of entries is bounded by the number of worker profiles.
type WorkerLocks struct {
	mutexes *xsync.Map[uint64, *sync.Mutex]
}

// NewWorkerLocks creates an empty lock registry.
func NewWorkerLocks() *WorkerLocks {
	return &WorkerLocks{
		mutexes: xsync.NewMap[uint64, *sync.Mutex](),
	}
}

// Lock blocks until the worker's mutex is held and returns the matching unlock function.
func (l *WorkerLocks) Lock(workerID uint64) func() {
	mu, _ := l.mutexes.LoadOrStore(workerID, &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}

// Size returns the number of workers that have been locked at least once.
func (l *WorkerLocks) Size() int {
	return l.mutexes.Size()
}
