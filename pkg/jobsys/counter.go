// Package jobsys implements the scheduling layer described in spec §4.4-4.7:
// a Counter-gated JobInfo callable, a worker-pool Manager that runs jobs
// pulled from per-worker work-stealing deques, and an ordered JobQueue that
// steps through a single-producer batch one job at a time.
//
// Grounded on original_source/JobSystem/{Job.cpp,JobQueue.cpp} for the
// Counter/JobInfo/JobQueue semantics and original_source/ThreadPool.{hpp,cpp}
// for the worker-pool shape; internal/wsdeque supplies the per-worker deque,
// internal/scratch the per-worker arena pair.
//
// © 2025 nstl authors. MIT License.
package jobsys

import (
    "sync"
    "sync/atomic"

    "github.com/Voskan/nstl/internal/diag"
)

// Counter is the wait/notify fork-join primitive from spec §4.4. A job is
// scheduled against a Counter (which Increment bumps), and decrements it
// exactly once on completion, whether it succeeded or panicked.
type Counter struct {
    n    atomic.Int64
    mu   sync.Mutex
    cond *sync.Cond
}

// NewCounter returns a zeroed Counter ready for use.
func NewCounter() *Counter {
    c := &Counter{}
    c.cond = sync.NewCond(&c.mu)
    return c
}

// Increment bumps the counter by delta, called when jobs are scheduled
// against it. delta must be positive.
func (c *Counter) Increment(delta int64) {
    if delta <= 0 {
        diag.Fatal("counter", "increment delta must be positive")
    }
    c.n.Add(delta)
}

// Decrement lowers the counter by one. Called exactly once per completed
// job. Dropping below zero means a job ran that was never accounted for by
// a matching Increment — a fatal contract violation (spec §7).
func (c *Counter) Decrement() {
    v := c.n.Add(-1)
    if v < 0 {
        diag.Fatal("counter", "decrement past zero")
    }
    if v == 0 {
        c.mu.Lock()
        c.cond.Broadcast()
        c.mu.Unlock()
    }
}

// Load returns the current value. Advisory outside of WaitForZero/Wait.
func (c *Counter) Load() int64 {
    return c.n.Load()
}

// WaitForZero blocks the calling goroutine until the counter reaches zero
// without performing any work itself.
//
// WARNING: this parks rather than drains. A nested fork/join job running
// inside a Manager with worker count 1 that calls WaitForZero on its own
// children's counter will deadlock — the only worker is the caller, and it
// is parked instead of popping/stealing those children. Use
// Manager.WaitForCounter for any wait issued from inside, or adjacent to, a
// worker pool; it drains work cooperatively instead of parking (spec §4.6:
// "the waiting thread participates in work to avoid deadlock with small
// worker pools"). JobQueue.Step already does this correctly. WaitForZero
// exists for callers with no Manager in scope at all.
func (c *Counter) WaitForZero() {
    if c.n.Load() == 0 {
        return
    }
    c.mu.Lock()
    for c.n.Load() != 0 {
        c.cond.Wait()
    }
    c.mu.Unlock()
}
