package jobsys

import (
    "context"
    "sync"
)

// queuedJob is a job awaiting its turn in a JobQueue's FIFO.
type queuedJob struct {
    job      JobInfo
    priority int
}

// JobQueue is the ordered, single-producer batch from spec §4.7: jobs are
// appended with Add/AddDefault, then drained one at a time by Step, which
// schedules the front job against the queue's own Counter and blocks until
// it completes before popping it — grounded essentially verbatim on
// original_source/JobSystem/JobQueue.cpp's add/step/execute trio.
type JobQueue struct {
    mgr     *Manager
    counter *Counter

    mu   sync.Mutex
    jobs []queuedJob
}

// NewJobQueue creates an empty queue bound to mgr.
func NewJobQueue(mgr *Manager) *JobQueue {
    return &JobQueue{mgr: mgr, counter: NewCounter()}
}

// Add appends job to the back of the queue with an explicit advisory
// priority tag.
func (q *JobQueue) Add(job JobInfo, priority int) {
    q.mu.Lock()
    q.jobs = append(q.jobs, queuedJob{job: job, priority: priority})
    q.mu.Unlock()
}

// AddDefault appends job with priority 0 — the Go spelling of the source's
// `queue += job`.
func (q *JobQueue) AddDefault(job JobInfo) {
    q.Add(job, 0)
}

// Step schedules the front job, waits for it to finish, then removes it.
// Returns false if the queue was already empty.
func (q *JobQueue) Step() bool {
    q.mu.Lock()
    if len(q.jobs) == 0 {
        q.mu.Unlock()
        return false
    }
    next := q.jobs[0]
    q.mu.Unlock()

    _, span := q.mgr.cfg.tracer.Start(context.Background(), "jobsys.jobqueue.step")
    q.mgr.ScheduleJobWithPriority(next.job, q.counter, next.priority)
    q.mgr.WaitForCounter(q.counter)
    span.End()

    q.mu.Lock()
    q.jobs = q.jobs[1:]
    q.mu.Unlock()
    return true
}

// Execute drains the queue by calling Step until it returns false.
func (q *JobQueue) Execute() {
    for q.Step() {
    }
}

// Len reports the number of jobs still waiting (advisory; a producer may
// still be appending concurrently with a single consumer's Execute).
func (q *JobQueue) Len() int {
    q.mu.Lock()
    defer q.mu.Unlock()
    return len(q.jobs)
}
