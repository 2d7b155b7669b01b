package jobsys

import (
    "sync"
    "testing"
)

func TestCounterIncrementDecrementToZero(t *testing.T) {
    c := NewCounter()
    c.Increment(3)
    if c.Load() != 3 {
        t.Fatalf("want 3, got %d", c.Load())
    }
    c.Decrement()
    c.Decrement()
    if c.Load() != 1 {
        t.Fatalf("want 1, got %d", c.Load())
    }
    c.Decrement()
    if c.Load() != 0 {
        t.Fatalf("want 0, got %d", c.Load())
    }
}

func TestCounterWaitUnblocksAtZero(t *testing.T) {
    c := NewCounter()
    c.Increment(1)

    var wg sync.WaitGroup
    wg.Add(1)
    go func() {
        defer wg.Done()
        c.WaitForZero()
    }()

    c.Decrement()
    wg.Wait()
}

func TestCounterDecrementPastZeroIsFatal(t *testing.T) {
    c := NewCounter()
    defer func() {
        if recover() == nil {
            t.Fatal("want decrementing an already-zero counter to panic via diag.Fatal")
        }
    }()
    c.Decrement()
}

func TestCounterIncrementNonPositiveIsFatal(t *testing.T) {
    c := NewCounter()
    defer func() {
        if recover() == nil {
            t.Fatal("want a non-positive Increment delta to panic via diag.Fatal")
        }
    }()
    c.Increment(0)
}
