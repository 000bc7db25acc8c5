package storage

import (
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate is a bounded admission counter. It never queues: a caller is either
// admitted immediately or rejected.
type Gate struct {
	sem    *semaphore.Weighted
	limit  int
	active atomic.Int64
}

// NewGate creates a gate admitting at most limit concurrent operations
func NewGate(limit int) *Gate {
	if limit < 1 {
		limit = 1
	}
	return &Gate{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: limit,
	}
}

// TryAdmit admits the caller if a slot is free. A rejected caller must not
// call Release.
func (g *Gate) TryAdmit() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.active.Add(1)
	return true
}

// Release frees a slot taken by TryAdmit
func (g *Gate) Release() {
	g.active.Add(-1)
	g.sem.Release(1)
}

// Active returns the number of admitted operations still in flight
func (g *Gate) Active() int {
	return int(g.active.Load())
}

// Limit returns the configured admission limit
func (g *Gate) Limit() int {
	return g.limit
}
