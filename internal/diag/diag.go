// Package diag centralises nstl's "fatal assertion" discipline.  Spec §7
// classifies several conditions (Counter underflow, Arena OOM without
// chaining, popping a deque you don't own) as fatal: the program writes a
// single diagnostic line through the logging contract and aborts.  Rather
// than thread a *zap.Logger through every leaf package, we keep one
// process-wide logger behind an atomic pointer — the same "global mutable
// state, explicit init/teardown" shape the source uses for its log
// level/domain list (Design Notes §9).
//
// © 2025 nstl authors. MIT License.
package diag

import (
    "fmt"
    "sync/atomic"

    "go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
    l := zap.NewNop()
    logger.Store(l)
}

// Init installs the process-wide diagnostic logger.  Safe to call from any
// goroutine; a nil logger is ignored (matches WithLogger's nil-guard in
// pkg/jobsys/config.go).
func Init(l *zap.Logger) {
    if l != nil {
        logger.Store(l)
    }
}

// Logger returns the currently installed logger. Never nil.
func Logger() *zap.Logger {
    return logger.Load()
}

// Fatal logs msg at error level under domain, tagged with fields, then
// panics. Production call sites let the panic propagate to a top-level
// recover that terminates the process (spec §7: "write a single diagnostic
// line via the logging contract and abort"); tests recover it directly to
// assert the fatal condition fired.
func Fatal(domain, msg string, fields ...zap.Field) {
    l := logger.Load().With(zap.String("domain", domain))
    l.Error(msg, fields...)
    panic(fmt.Sprintf("nstl: fatal: %s: %s", domain, msg))
}
