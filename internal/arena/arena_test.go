package arena

import "testing"

// TestPushPopToRoundTrip is spec §8 scenario 1: push enough 64-byte records
// to force multiple chain links, capture a position with GetPos, pop back
// to it with PopTo, then push the same size again and confirm the address
// is byte-identical to the first push after the mark.
func TestPushPopToRoundTrip(t *testing.T) {
    a := Alloc(Params{
        Size:          4 << 10,
        CommittedSize: 1 << 10,
        Flags:         FlagDoChain,
    })
    defer a.Release()

    mark := GetPos(a)

    const n = 10_000
    const recSize = 64

    first := Push(a, recSize, 8)
    firstAddr := &first[0]

    for i := 1; i < n; i++ {
        Push(a, recSize, 8)
    }

    if a.current == a {
        t.Fatal("want chaining to have occurred across 10000x64-byte pushes into a 1KiB-committed arena")
    }

    PopTo(a, mark)

    if a.current.pos != mark-a.current.globalBase {
        t.Fatalf("PopTo did not restore local pos: got %d want %d", a.current.pos, mark-a.current.globalBase)
    }

    replay := Push(a, recSize, 8)
    if &replay[0] != firstAddr {
        t.Fatal("want replayed push to land at the exact address of the first push after the mark")
    }
}

// TestPushOverflowWithoutChainIsFatal is spec §7: pushing past the
// committed prefix with chaining disabled is a fatal contract violation.
func TestPushOverflowWithoutChainIsFatal(t *testing.T) {
    a := Alloc(Params{Size: 256, CommittedSize: 256, Flags: FlagNone})
    defer func() {
        if recover() == nil {
            t.Fatal("want Push overflow without chaining to panic via diag.Fatal")
        }
    }()
    Push(a, 512, 8)
}

// TestPushAlignedAndSlice exercises the generic struct/array helpers.
func TestPushAlignedAndSlice(t *testing.T) {
    a := Alloc(Params{Flags: FlagDoChain})
    defer a.Release()

    type rec struct {
        A uint64
        B uint32
    }

    p := PushAligned[rec](a)
    p.A, p.B = 7, 9
    if p.A != 7 || p.B != 9 {
        t.Fatal("PushAligned returned pointer did not round-trip writes")
    }

    s := PushSlice[int64](a, 16)
    if len(s) != 16 {
        t.Fatalf("want slice length 16, got %d", len(s))
    }
    for i := range s {
        s[i] = int64(i)
    }
    for i := range s {
        if s[i] != int64(i) {
            t.Fatalf("PushSlice element %d corrupted: got %d", i, s[i])
        }
    }
}

// TestReleaseChainWalksAllLinks ensures Release frees every chained link,
// not just the head.
func TestReleaseChainWalksAllLinks(t *testing.T) {
    a := Alloc(Params{Size: 256, CommittedSize: 256, Flags: FlagDoChain})
    for i := 0; i < 64; i++ {
        Push(a, 64, 8)
    }
    if a.current == a {
        t.Fatal("want chaining to have occurred")
    }
    a.Release()
    if a.current != nil {
        t.Fatal("want Release to clear current")
    }
}
