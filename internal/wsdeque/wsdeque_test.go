package wsdeque

import (
    "testing"

    "golang.org/x/sync/errgroup"
)

// TestPushPopOwnerOnly exercises the uncontended owner path: push N, pop N,
// LIFO order, empty-deque boundary behavior.
func TestPushPopOwnerOnly(t *testing.T) {
    d := New[int](16)

    for i := 0; i < 16; i++ {
        if !d.Push(i) {
            t.Fatalf("push %d: unexpected overflow", i)
        }
    }
    if d.Push(99) {
        t.Fatal("push into a full deque should report overflow")
    }

    for i := 15; i >= 0; i-- {
        v, ok := d.Pop()
        if !ok || v != i {
            t.Fatalf("pop: want (%d, true), got (%d, %v)", i, v, ok)
        }
    }
    if _, ok := d.Pop(); ok {
        t.Fatal("pop from empty deque should report false")
    }
}

// TestStealFIFO checks that concurrent-free stealing drains from the top in
// FIFO order, the opposite end from Pop.
func TestStealFIFO(t *testing.T) {
    d := New[int](8)
    for i := 0; i < 8; i++ {
        d.Push(i)
    }
    for i := 0; i < 8; i++ {
        v, ok := d.Steal()
        if !ok || v != i {
            t.Fatalf("steal %d: want (%d, true), got (%d, %v)", i, i, v, ok)
        }
    }
    if _, ok := d.Steal(); ok {
        t.Fatal("steal from empty deque should report false")
    }
}

// TestOwnerThiefLastElementRace is the bounded-deque equivalent of spec §8
// scenario 3: an owner repeatedly pushes then pops a single element while a
// thief concurrently tries to steal it. Across a million reps, every pushed
// value must be consumed exactly once — by either the owner's Pop or the
// thief's Steal, never both, never neither.
func TestOwnerThiefLastElementRace(t *testing.T) {
    const reps = 1_000_000
    d := New[int](2)

    var ownerGot, thiefGot int64

    var g errgroup.Group
    done := make(chan struct{})

    g.Go(func() error {
        for {
            select {
            case <-done:
                return nil
            default:
            }
            if _, ok := d.Steal(); ok {
                thiefGot++
            }
        }
    })

    for i := 0; i < reps; i++ {
        if !d.Push(i) {
            t.Fatalf("push %d: unexpected overflow", i)
        }
        if _, ok := d.Pop(); ok {
            ownerGot++
        }
    }

    // Drain whatever the thief hasn't yet taken, then stop it.
    for {
        if _, ok := d.Steal(); !ok {
            break
        }
        thiefGot++
    }
    close(done)
    if err := g.Wait(); err != nil {
        t.Fatalf("thief goroutine returned error: %v", err)
    }

    total := ownerGot + thiefGot
    if total != reps {
        t.Fatalf("want every pushed element consumed exactly once (%d), got %d (owner=%d thief=%d)",
            reps, total, ownerGot, thiefGot)
    }
}

// TestCountApprox is a sanity check, not a precision guarantee (spec §4.3:
// "advisory only").
func TestCountApprox(t *testing.T) {
    d := New[int](4)
    if d.CountApprox() != 0 {
        t.Fatal("empty deque should approx-count to 0")
    }
    d.Push(1)
    d.Push(2)
    if got := d.CountApprox(); got != 2 {
        t.Fatalf("want approx count 2, got %d", got)
    }
}
