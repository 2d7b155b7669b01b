// Package scratch implements per-thread scratch arenas and the exclusion
// based selection that lets a callee borrow a different arena than the one
// its caller already holds (spec §3/§4.2).
//
// Go has no safe, migration-proof way to attach state to an OS thread the
// way the source's thread_context_init/get_scratch pair does (a goroutine
// can hop OS threads between blocking calls). Per spec §9 Design Notes
// ("A context-passing alternative is acceptable but the core's interface
// does not require it"), ThreadContext here is an explicit value: each
// Manager worker owns exactly one for its lifetime (the Go analogue of
// "created at thread start, released at thread exit" — see
// pkg/jobsys/manager.go), and any other caller that needs scratch space
// (a JobQueue producer, a non-worker WaitForCounter caller) constructs its
// own short-lived one with New.
//
// © 2025 nstl authors. MIT License.
package scratch

import "github.com/Voskan/nstl/internal/arena"

// Count is SCRATCH_ARENA_COUNT from spec §4.2.
const Count = 2

// Temp is the (arena, pos, isTemporary) triple captured by a scratch
// acquisition. End restores the arena to the captured position.
type Temp struct {
    Arena       *arena.Arena
    pos         uint64
    isTemporary bool
}

// End pops the wrapped arena back to the position captured when the Temp
// was created. Safe to call at most once per Temp (mirrors temp_end).
func (t Temp) End() {
    if t.Arena == nil {
        return
    }
    if t.isTemporary {
        t.Arena.Release()
        return
    }
    arena.PopTo(t.Arena, t.pos)
}

// ThreadContext owns a thread's pair of scratch arenas, created lazily on
// first access (spec §4.2: "created lazily on first access inside
// thread_context_alloc").
type ThreadContext struct {
    slots  [Count]*arena.Arena
    params arena.Params
}

// New constructs a ThreadContext. Scratch arenas are not allocated until
// first use.
func New(params arena.Params) *ThreadContext {
    return &ThreadContext{params: params}
}

// Release releases every scratch arena this context ever allocated. Called
// at worker-loop exit — the Go analogue of thread_context_release.
func (tc *ThreadContext) Release() {
    for i := range tc.slots {
        if tc.slots[i] != nil {
            tc.slots[i].Release()
            tc.slots[i] = nil
        }
    }
}

// GetScratch returns a Temp wrapping the first local scratch slot that does
// not appear in excludes — tie-broken by slot index, slot 0 first. This is
// what lets a callee that receives a caller's scratch arena as an exclude
// acquire a *different* one without aliasing the caller's live data (spec
// §4.2's non-aliasing property, exercised by the "scratch exclusion" test
// scenario).
func (tc *ThreadContext) GetScratch(excludes ...*arena.Arena) Temp {
    for i := range tc.slots {
        if tc.slots[i] == nil {
            tc.slots[i] = arena.Alloc(tc.params)
        }
        if !contains(excludes, tc.slots[i]) {
            return Temp{
                Arena: tc.slots[i],
                pos:   arena.GetPos(tc.slots[i]),
            }
        }
    }
    // All Count slots excluded: spec requires count==len(excludes)<Count for
    // a Temp to exist; callers that exclude every slot get a fresh,
    // unmanaged scratch arena instead of a fatal — End releases it outright
    // (a slot-backed Temp is only popped), so it is not retained for reuse.
    fresh := arena.Alloc(tc.params)
    return Temp{Arena: fresh, pos: arena.GetPos(fresh), isTemporary: true}
}

func contains(excludes []*arena.Arena, a *arena.Arena) bool {
    for _, e := range excludes {
        if e == a {
            return true
        }
    }
    return false
}
