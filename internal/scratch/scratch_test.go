package scratch

import (
    "testing"

    "github.com/Voskan/nstl/internal/arena"
)

// TestGetScratchExcludesCallerArena is spec §8 scenario 2: a callee that
// receives the caller's scratch arena as an exclude must be handed a
// different arena than the one it was asked to avoid.
func TestGetScratchExcludesCallerArena(t *testing.T) {
    tc := New(arena.Params{Flags: arena.FlagDoChain})
    defer tc.Release()

    callerTemp := tc.GetScratch()
    defer callerTemp.End()

    calleeTemp := tc.GetScratch(callerTemp.Arena)
    defer calleeTemp.End()

    if calleeTemp.Arena == callerTemp.Arena {
        t.Fatal("want callee scratch arena to differ from the excluded caller arena")
    }
}

// TestGetScratchAllSlotsExcludedYieldsFreshArena exercises the fallback
// path: excluding every managed slot still returns a usable, independent
// Temp rather than failing.
func TestGetScratchAllSlotsExcludedYieldsFreshArena(t *testing.T) {
    tc := New(arena.Params{Flags: arena.FlagDoChain})
    defer tc.Release()

    var excludes []*arena.Arena
    for i := 0; i < Count; i++ {
        temp := tc.GetScratch(excludes...)
        excludes = append(excludes, temp.Arena)
    }

    fallback := tc.GetScratch(excludes...)
    defer fallback.End()

    for _, e := range excludes {
        if fallback.Arena == e {
            t.Fatal("want fallback arena to be distinct from every excluded slot")
        }
    }

    buf := arena.Push(fallback.Arena, 32, 8)
    if len(buf) != 32 {
        t.Fatalf("want fallback arena to be writable, got len %d", len(buf))
    }
}

// TestGetScratchIsLazy ensures slots are only allocated on demand.
func TestGetScratchIsLazy(t *testing.T) {
    tc := New(arena.Params{Flags: arena.FlagDoChain})
    defer tc.Release()

    for i := range tc.slots {
        if tc.slots[i] != nil {
            t.Fatalf("want slot %d unallocated before first use", i)
        }
    }

    temp := tc.GetScratch()
    defer temp.End()

    if tc.slots[0] == nil {
        t.Fatal("want first GetScratch call to allocate slot 0")
    }
}

// TestTempEndRestoresPosition checks that End() rewinds a slot-backed Temp
// without releasing the slot for reuse.
func TestTempEndRestoresPosition(t *testing.T) {
    tc := New(arena.Params{Flags: arena.FlagDoChain})
    defer tc.Release()

    temp := tc.GetScratch()
    mark := arena.GetPos(temp.Arena)
    arena.Push(temp.Arena, 128, 8)
    temp.End()

    if arena.GetPos(temp.Arena) != mark {
        t.Fatal("want End() to rewind the arena to the captured position")
    }
    if tc.slots[0] == nil {
        t.Fatal("want the slot to remain allocated for reuse after End()")
    }
}
