package jobsys

import "github.com/prometheus/client_golang/prometheus"

// metrics bundles the Prometheus collectors a Manager updates. When no
// *prometheus.Registry is supplied via WithMetrics, collectors are created
// unregistered: Inc/Set calls are harmless no-ops as far as any scraper is
// concerned, matching the cache package's no-op sink pattern.
type metrics struct {
    jobsScheduled  prometheus.Counter
    jobsCompleted  prometheus.Counter
    stealAttempts  prometheus.Counter
    stealSuccesses prometheus.Counter
    workerActive   *prometheus.GaugeVec
    dequeDepth     *prometheus.GaugeVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
    m := &metrics{
        jobsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "nstl",
            Subsystem: "jobsys",
            Name:      "jobs_scheduled_total",
            Help:      "Total jobs scheduled against a Manager.",
        }),
        jobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "nstl",
            Subsystem: "jobsys",
            Name:      "jobs_completed_total",
            Help:      "Total jobs whose callable returned; a job that panics is not counted.",
        }),
        stealAttempts: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "nstl",
            Subsystem: "jobsys",
            Name:      "steal_attempts_total",
            Help:      "Total steal attempts issued across all workers.",
        }),
        stealSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
            Namespace: "nstl",
            Subsystem: "jobsys",
            Name:      "steal_successes_total",
            Help:      "Total steal attempts that returned a job.",
        }),
        workerActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
            Namespace: "nstl",
            Subsystem: "jobsys",
            Name:      "worker_active",
            Help:      "1 while a worker is executing a job, 0 while idle.",
        }, []string{"worker"}),
        dequeDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
            Namespace: "nstl",
            Subsystem: "jobsys",
            Name:      "deque_depth",
            Help:      "Approximate element count of a worker's deque (CountApprox).",
        }, []string{"worker"}),
    }
    if reg != nil {
        reg.MustRegister(
            m.jobsScheduled, m.jobsCompleted,
            m.stealAttempts, m.stealSuccesses,
            m.workerActive, m.dequeDepth,
        )
    }
    return m
}
