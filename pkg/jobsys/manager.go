package jobsys

import (
    "context"
    "runtime"
    "strconv"
    "sync"
    "sync/atomic"

    "go.uber.org/zap"

    "github.com/Voskan/nstl/internal/diag"
    "github.com/Voskan/nstl/internal/scratch"
    "github.com/Voskan/nstl/internal/wsdeque"
)

// jobRecord is the fixed-size value WSDeque[T] is instantiated over: a job
// plus its advisory priority tag (spec §9 Open Question 1 resolves priority
// as advisory, not a strict per-priority sub-deque discipline).
type jobRecord struct {
    job      JobInfo
    priority int
}

// spinBudget bounds how many empty pop/steal cycles a worker burns before
// parking on the idle condition variable, the same shape as the source's
// ThreadPool worker loop (a short spin, then sleep).
const spinBudget = 64

type worker struct {
    id    int
    deque *wsdeque.WSDeque[jobRecord]
    ctx   *scratch.ThreadContext
}

// Manager is the worker pool and scheduler from spec §4.6: N workers, each
// owning a bounded work-stealing deque, dispatching via pop-then-steal with
// a condition-variable idle wait.
//
// Self-push (a job scheduling more jobs lands on the scheduling worker's
// own deque rather than round-robining) is not implemented: Go has no safe
// way to recover "which worker goroutine is this" without the same
// TLS-emulation problem internal/scratch.ThreadContext already works
// around, and there is no API to target a specific worker. ScheduleJob therefore always
// round-robins; this is a scheduling-policy simplification, not a
// correctness gap — see DESIGN.md.
type Manager struct {
    cfg     config
    metrics *metrics

    workers []*worker
    next    atomic.Uint64

    mu       sync.Mutex
    cond     *sync.Cond
    stopping bool
    wg       sync.WaitGroup
}

// New constructs a Manager and starts its worker goroutines immediately.
func New(opts ...Option) (*Manager, error) {
    cfg, err := applyOptions(opts)
    if err != nil {
        return nil, err
    }
    diag.Init(cfg.logger)

    m := &Manager{
        cfg:     cfg,
        metrics: newMetrics(cfg.registry),
    }
    m.cond = sync.NewCond(&m.mu)
    m.workers = make([]*worker, cfg.workers)
    for i := range m.workers {
        m.workers[i] = &worker{
            id:    i,
            deque: wsdeque.New[jobRecord](cfg.dequeCap),
            ctx:   scratch.New(cfg.arenaParams),
        }
    }

    m.wg.Add(cfg.workers)
    for _, w := range m.workers {
        go m.runWorker(w)
    }
    return m, nil
}

// ScheduleJob binds job to counter (incrementing it first, spec §4.4's
// ordering requirement: increment-before-schedule so a racing WaitForZero
// never observes a false zero), assigns it priority 0, and pushes it onto a
// worker's deque round-robin.
func (m *Manager) ScheduleJob(job JobInfo, counter *Counter) {
    m.ScheduleJobWithPriority(job, counter, 0)
}

// ScheduleJobWithPriority is ScheduleJob with an explicit advisory priority
// tag (spec §9 Open Question 1). The tag rides along on the deque record
// for callers/metrics that want it; dispatch itself stays priority-blind —
// no per-priority sub-deque or steal ordering is implemented.
func (m *Manager) ScheduleJobWithPriority(job JobInfo, counter *Counter, priority int) {
    if counter != nil {
        counter.Increment(1)
    }
    job.SetCounter(counter)

    idx := int(m.next.Add(1)-1) % len(m.workers)
    rec := jobRecord{job: job, priority: priority}
    if !m.workers[idx].deque.Push(rec) {
        diag.Fatal("jobsys", "worker deque overflow scheduling job")
    }
    m.metrics.jobsScheduled.Inc()

    m.mu.Lock()
    m.cond.Broadcast()
    m.mu.Unlock()
}

// WaitForCounter blocks the calling goroutine until counter reaches zero.
// Rather than parking, it cooperatively steals and executes jobs from
// the pool's own deques — spec §4.6: "the waiting thread participates in
// work instead of blocking, to avoid deadlock with a small worker pool."
// This is the wait a nested fork/join job (or any caller with a Manager in
// scope) should use; Counter.WaitForZero parks instead and can deadlock a
// single-worker Manager.
func (m *Manager) WaitForCounter(counter *Counter) {
    if counter == nil {
        return
    }
    idx := 0
    for counter.Load() != 0 {
        progressed := false
        for i := 0; i < len(m.workers); i++ {
            victim := m.workers[(idx+i)%len(m.workers)]
            if rec, ok := victim.deque.Steal(); ok {
                m.execute(rec)
                progressed = true
                break
            }
        }
        idx++
        if !progressed {
            runtime.Gosched()
        }
    }
}

// Shutdown signals every worker to stop once its deque drains and blocks
// until all worker goroutines have exited.
func (m *Manager) Shutdown() {
    m.mu.Lock()
    m.stopping = true
    m.cond.Broadcast()
    m.mu.Unlock()
    m.wg.Wait()
}

func (m *Manager) runWorker(w *worker) {
    defer m.wg.Done()
    defer w.ctx.Release()
    defer func() {
        if r := recover(); r != nil {
            diag.Logger().Error("worker panicked, poisoning process",
                zap.Int("worker", w.id), zap.Any("recover", r))
            panic(r)
        }
    }()

    spins := 0
    for {
        rec, ok := w.deque.Pop()
        if !ok {
            rec, ok = m.stealFor(w)
        }
        if ok {
            spins = 0
            m.metrics.workerActive.WithLabelValues(strconv.Itoa(w.id)).Set(1)
            m.execute(rec)
            m.metrics.workerActive.WithLabelValues(strconv.Itoa(w.id)).Set(0)
            m.metrics.dequeDepth.WithLabelValues(strconv.Itoa(w.id)).Set(float64(w.deque.CountApprox()))
            continue
        }

        m.mu.Lock()
        if m.stopping {
            m.mu.Unlock()
            return
        }
        if spins < spinBudget {
            spins++
            m.mu.Unlock()
            runtime.Gosched()
            continue
        }
        m.cond.Wait()
        m.mu.Unlock()
    }
}

func (m *Manager) stealFor(w *worker) (jobRecord, bool) {
    n := len(m.workers)
    for i := 1; i < n; i++ {
        victim := m.workers[(w.id+i)%n]
        m.metrics.stealAttempts.Inc()
        if rec, ok := victim.deque.Steal(); ok {
            m.metrics.stealSuccesses.Inc()
            return rec, true
        }
    }
    return jobRecord{}, false
}

func (m *Manager) execute(rec jobRecord) {
    _, span := m.cfg.tracer.Start(context.Background(), "jobsys.job.execute")
    rec.job.Execute()
    span.End()
    m.metrics.jobsCompleted.Inc()
}
