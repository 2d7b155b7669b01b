// Package arena implements a monotonic bump allocator with chained growth
// and pop-to-mark restore — the memory substrate every scratch arena,
// worker deque and job payload in nstl is allocated from.
//
// An Arena owns a reserved virtual region (default 4 MiB) of which an
// initial prefix (default 32 KiB) is committed.  Pushing past the
// committed prefix either fails (ArenaFlags_DoChain unset) or allocates and
// links a fresh Arena sized to fit the request (chaining).  Popping to a
// previously captured position releases any arenas chained in after that
// point and restores the live one to its recorded offset — the mark and
// the chain of arenas it prunes are symmetric, which is what lets
// `arena_pop_to` hand back byte-identical addresses on replay (see
// arena_test.go's round-trip case).
//
// Arenas are not thread-safe: exactly one goroutine owns an Arena (or,
// transitively, a ThreadContext's scratch pair) at a time.  Concurrency is
// the caller's responsibility, mirroring the source's single-owner
// discipline for both Arena and WSDeque.
//
// © 2025 nstl authors. MIT License.
package arena

import (
    "unsafe"

    "github.com/Voskan/nstl/internal/diag"
    "github.com/Voskan/nstl/internal/unsafehelpers"
)

// Flags is the ArenaFlags bitset from spec §6.
type Flags uint32

const (
    FlagNone    Flags = 0
    FlagDoChain Flags = 1 << 0
)

const (
    // DefaultReservedSize is the default virtual region size (4 MiB).
    DefaultReservedSize uint64 = 4 << 20
    // DefaultCommittedSize is the default committed prefix (32 KiB).
    DefaultCommittedSize uint64 = 32 << 10
    // defaultAlignment matches the source's alignment=sizeof(void*) default.
    defaultAlignment uint64 = 8
)

// arenaHeader exists only to give startPos a realistic, non-zero value —
// the source's Arena struct lives at offset 0 of its own backing memory, so
// user pushes start after sizeof(Arena).  We don't embed the Go struct in
// its own backing slice (Go has no placement-new), but we preserve the byte
// accounting so `pos >= startPos` and chain-relative math match the
// original shape exactly.
type arenaHeader struct {
    reserved, committed, pos, startPos uint64
    flags                              Flags
    prev, current                      uintptr
}

var headerSize = uint64(unsafe.Sizeof(arenaHeader{}))

// Params configures Alloc. Zero values fall back to the defaults in §6.
type Params struct {
    Size          uint64 // reserved bytes
    CommittedSize uint64 // committed bytes, <= Size
    Flags         Flags
}

// Arena is the bump allocator described in spec §3/§4.1. Every exported
// operation takes the *head* handle returned by Alloc; chaining only ever
// mutates the head's `current` pointer, never the identity callers hold.
type Arena struct {
    mem       []byte
    reserved  uint64
    committed uint64
    pos       uint64
    startPos  uint64
    flags     Flags
    globalBase uint64 // pos value (head-relative) at which this link became current

    prev    *Arena // previous link in the chain (nil for the head)
    current *Arena // meaningful only on the head: the active link
}

// Alloc reserves Size bytes and commits the first CommittedSize, matching
// arena_alloc_ in spec §4.1.
func Alloc(p Params) *Arena {
    if p.Size == 0 {
        p.Size = DefaultReservedSize
    }
    if p.CommittedSize == 0 {
        p.CommittedSize = DefaultCommittedSize
    }
    if p.CommittedSize > p.Size {
        diag.Fatal("arena", "committed size exceeds reserved size")
    }
    a := newLink(p.Size, p.CommittedSize, p.Flags)
    a.startPos = headerSize
    a.pos = headerSize
    a.globalBase = 0
    a.prev = nil
    a.current = a
    return a
}

// Release releases the entire chain reachable from the head: current, then
// its prevs, matching arena_release's walk order in spec §4.1.
func (a *Arena) Release() {
    link := a.current
    for link != nil {
        prev := link.prev
        releaseMem(link.mem)
        link.mem = nil
        link = prev
    }
    a.current = nil
}

// Push aligns current.pos upward, bumps it by size, and returns the
// aligned address. When the request overflows the committed prefix of the
// active link, chaining (if enabled) allocates and links a fresh Arena
// sized to fit; without chaining, overflow is fatal (spec §7: "no
// backpressure/recovery path").
func Push(a *Arena, size uint64, alignment uint64) []byte {
    if alignment == 0 {
        alignment = defaultAlignment
    }
    cur := a.current
    aligned := unsafehelpers.AlignUp(uintptr(cur.pos), uintptr(alignment))
    newPos := uint64(aligned) + size

    if newPos <= cur.committed {
        cur.pos = newPos
        return cur.mem[uint64(aligned):newPos:newPos]
    }

    if a.flags&FlagDoChain == 0 {
        diag.Fatal("arena", "push overflow without chaining")
        return nil
    }

    grow(a, size, alignment)
    return Push(a, size, alignment)
}

// PushAligned allocates a zero-valued T inside the arena and returns a
// pointer to it — the Go analogue of the source's ARENA_PUSH_STRUCT macro.
func PushAligned[T any](a *Arena) *T {
    var zero T
    size := unsafe.Sizeof(zero)
    if size == 0 {
        return new(T)
    }
    buf := Push(a, uint64(size), uint64(unsafe.Alignof(zero)))
    return (*T)(unsafe.Pointer(&buf[0]))
}

// PushSlice allocates a slice of n T values inside the arena (length ==
// capacity), the Go analogue of ARENA_PUSH_ARRAY.
func PushSlice[T any](a *Arena, n int) []T {
    if n == 0 {
        return nil
    }
    var zero T
    elemSize := unsafe.Sizeof(zero)
    buf := Push(a, uint64(elemSize)*uint64(n), uint64(unsafe.Alignof(zero)))
    return unsafehelpers.PtrSlice((*T)(unsafe.Pointer(&buf[0])), n)
}

// PushBytes copies buf into the arena and returns the arena-owned copy.
func PushBytes(a *Arena, buf []byte) []byte {
    dst := Push(a, uint64(len(buf)), 1)
    copy(dst, buf)
    return dst
}

// GetPos returns a monotonic position token usable with PopTo. It is the
// head-relative cumulative byte count: current.globalBase + current.pos.
func GetPos(a *Arena) uint64 {
    return a.current.globalBase + a.current.pos
}

// PopTo restores the chain to the state captured by a prior GetPos: links
// created after the mark are released; the link that was current at mark
// time has its local pos truncated back.
func PopTo(a *Arena, pos uint64) {
    cur := a.current
    for cur.prev != nil && cur.globalBase >= pos {
        dead := cur
        cur = cur.prev
        releaseMem(dead.mem)
        dead.mem = nil
    }
    local := pos - cur.globalBase
    if local < cur.startPos {
        diag.Fatal("arena", "pop_to target precedes arena header")
    }
    cur.pos = local
    a.current = cur
}

// grow allocates and links a fresh Arena sized to fit at least `size` bytes
// plus header/alignment padding, per spec §4.1.
func grow(a *Arena, size, alignment uint64) {
    cur := a.current
    required := headerSize + size + alignment

    reserved := DefaultReservedSize
    if required > reserved {
        reserved = required
    }
    committed := DefaultCommittedSize
    if required > committed {
        committed = required
    }
    if committed > reserved {
        committed = reserved
    }

    next := newLink(reserved, committed, a.flags)
    next.startPos = headerSize
    next.pos = headerSize
    next.globalBase = cur.globalBase + cur.pos
    next.prev = cur
    a.current = next
}

func newLink(reserved, committed uint64, flags Flags) *Arena {
    mem := reserveCommit(reserved, committed)
    return &Arena{
        mem:       mem,
        reserved:  reserved,
        committed: committed,
        flags:     flags,
    }
}
