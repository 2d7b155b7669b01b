package jobsys

// JobInfo is a type-erased unit of work bound to a Counter (spec §4.5). The
// source packs this as an inline byte buffer plus a vtable pointer — a
// small-closure optimization with a null-tag first word. Go closures
// already heap-allocate their captured environment and the language has no
// placement-new, so fighting for an inline buffer buys nothing; JobInfo
// instead holds a plain func(), with the zero value (nil) standing in
// directly for the null tag (DESIGN.md Open Question 6).
type JobInfo struct {
    fn      func()
    counter *Counter
}

// NewJobInfo wraps fn as a job. A nil fn produces a null JobInfo.
func NewJobInfo(fn func()) JobInfo {
    return JobInfo{fn: fn}
}

// SetCounter binds the Counter that Execute decrements on completion.
func (j *JobInfo) SetCounter(c *Counter) {
    j.counter = c
}

// IsNull reports whether the job carries no callable.
func (j JobInfo) IsNull() bool {
    return j.fn == nil
}

// Execute runs the bound callable, then decrements the bound counter
// exactly once — even if fn panics, so that anyone waiting on the counter
// unblocks before the panic reaches the worker loop's top-level recover
// (spec §7: a panicking job poisons its worker, not the job's waiters).
func (j JobInfo) Execute() {
    if j.fn == nil {
        return
    }
    defer func() {
        if j.counter != nil {
            j.counter.Decrement()
        }
    }()
    j.fn()
}

// Reset clears the job back to null. Idempotent.
func (j *JobInfo) Reset() {
    j.fn = nil
    j.counter = nil
}
