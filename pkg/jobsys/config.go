package jobsys

import (
    "errors"
    "runtime"

    "github.com/prometheus/client_golang/prometheus"
    "go.opentelemetry.io/otel"
    "go.opentelemetry.io/otel/trace"
    "go.uber.org/zap"

    "github.com/Voskan/nstl/internal/arena"
    "github.com/Voskan/nstl/internal/unsafehelpers"
)

var (
    errInvalidWorkerCount = errors.New("jobsys: worker count must be positive")
    errInvalidDequeCap    = errors.New("jobsys: deque capacity must be positive")
)

// config holds Manager construction parameters. Mirrors the teacher's
// config.go shape: a private struct, an Option functional-option type,
// defaultConfig, and applyOptions validating and pre-computing derived
// fields.
type config struct {
    workers     int
    dequeCap    int
    arenaParams arena.Params
    logger      *zap.Logger
    registry    *prometheus.Registry
    tracer      trace.Tracer
}

// Option configures a Manager at construction time.
type Option func(*config)

func defaultConfig() config {
    return config{
        workers:  runtime.GOMAXPROCS(0),
        dequeCap: 1024,
        logger:   zap.NewNop(),
    }
}

func applyOptions(opts []Option) (config, error) {
    cfg := defaultConfig()
    for _, opt := range opts {
        opt(&cfg)
    }

    if cfg.workers <= 0 {
        return config{}, errInvalidWorkerCount
    }
    if cfg.dequeCap <= 0 {
        return config{}, errInvalidDequeCap
    }
    cfg.dequeCap = unsafehelpers.RoundUpPow2(cfg.dequeCap)

    if cfg.logger == nil {
        cfg.logger = zap.NewNop()
    }
    if cfg.tracer == nil {
        cfg.tracer = otel.Tracer("github.com/Voskan/nstl/pkg/jobsys")
    }
    return cfg, nil
}

// WithWorkerCount sets the number of workers. Defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(n int) Option {
    return func(c *config) { c.workers = n }
}

// WithDequeCapacity sets the per-worker deque capacity, rounded up to the
// next power of two. Defaults to 1024.
func WithDequeCapacity(n int) Option {
    return func(c *config) { c.dequeCap = n }
}

// WithArenaParams configures the per-worker scratch arenas (internal/scratch).
func WithArenaParams(p arena.Params) Option {
    return func(c *config) { c.arenaParams = p }
}

// WithLogger installs a *zap.Logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
    return func(c *config) {
        if l != nil {
            c.logger = l
        }
    }
}

// WithMetrics registers the Manager's Prometheus collectors against reg.
// When omitted, collectors are created but never registered — Inc/Set calls
// still work, they simply aren't scraped by anyone.
func WithMetrics(reg *prometheus.Registry) Option {
    return func(c *config) { c.registry = reg }
}

// WithTracer installs an OpenTelemetry tracer for job-execution spans.
// Defaults to the globally registered tracer, which is a no-op until the
// embedding application calls otel.SetTracerProvider.
func WithTracer(t trace.Tracer) Option {
    return func(c *config) {
        if t != nil {
            c.tracer = t
        }
    }
}
