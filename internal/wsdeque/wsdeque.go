// Package wsdeque implements the bounded Chase-Lev work-stealing deque from
// spec §4.3: a cache-line-aligned ring buffer with an owner that
// pushes/pops from the bottom (LIFO) and any number of thieves that steal
// from the top (FIFO) via compare-and-swap.
//
// Grounded directly on original_source/nstl/base/base_spmc.cpp's
// wsdq_push/wsdq_pop/wsdq_steal, byte-for-byte in control flow; the C
// struct's two variants (a raw byte-copy deque and a void*-specialized one)
// collapse here into one WSDeque[T], the Go generics answer to spec §9's
// "implementations MAY specialize for pointer-width payloads" — any
// fixed-size comparable T works, not just pointers.
//
// Go's sync/atomic typed operations (atomic.Uint64 et al., Go 1.19+) are
// defined by the Go memory model to participate in one total
// sequentially-consistent order; there is no "relaxed" dial to turn down,
// unlike C++'s std::atomic. The relaxed/acquire/release/SeqCst comments
// below describe the *intent* carried over from the source — they document
// which loads/stores the original algorithm depends on being ordered with
// respect to which, even though Go gives every one of them the strongest
// ordering already.
//
// © 2025 nstl authors. MIT License.
package wsdeque

import (
    "sync/atomic"

    "github.com/Voskan/nstl/internal/diag"
    "github.com/Voskan/nstl/internal/unsafehelpers"
)

const cacheLineSize = 64

// WSDeque is a bounded, non-resizing work-stealing deque of T. Capacity
// must be a power of two. Only the owning goroutine may Push/Pop; any
// goroutine may Steal.
type WSDeque[T any] struct {
    mask uint64
    buf  []T

    _pad0  [cacheLineSize]byte
    bottom atomic.Uint64
    _pad1  [cacheLineSize]byte
    top    atomic.Uint64
    _pad2  [cacheLineSize]byte
}

// New allocates a WSDeque of the given capacity, which must be a positive
// power of two (spec §6). Violating that is a construction-time contract
// error, not a runtime one, so it is fatal rather than an error return —
// mirrors the source's ASSERT_DEBUG(is_power_of_two(capacity)).
func New[T any](capacity int) *WSDeque[T] {
    if capacity <= 0 || capacity != unsafehelpers.RoundUpPow2(capacity) {
        diag.Fatal("wsdeque", "capacity must be a positive power of two")
    }
    return &WSDeque[T]{
        mask: uint64(capacity - 1),
        buf:  make([]T, capacity),
    }
}

// Push appends v at bottom. Owner-only. Returns false on overflow
// (capacity already reached) without mutating state, per spec §8's
// boundary behavior.
func (d *WSDeque[T]) Push(v T) bool {
    b := d.bottom.Load() // relaxed in the source
    t := d.top.Load()    // acquire in the source

    if b-t >= uint64(len(d.buf)) {
        return false
    }

    d.buf[b&d.mask] = v
    d.bottom.Store(b + 1) // release in the source
    return true
}

// Pop removes and returns the bottom element. Owner-only. The last-element
// case races against a concurrent Steal and is decided by a CAS on top —
// see the package doc for why no explicit SeqCst fence appears here.
func (d *WSDeque[T]) Pop() (T, bool) {
    var zero T

    bCur := d.bottom.Load() // relaxed
    t := d.top.Load()       // acquire
    if t >= bCur {
        return zero, false
    }

    b := bCur - 1
    d.bottom.Store(b) // relaxed
    t = d.top.Load()  // relaxed re-read, ordered against the store above by
    // Go's total order over atomics (stands in for the source's
    // ATOMIC_THREAD_FENCE(MEMORY_ORDER_SEQ_CST)).

    switch {
    case t < b:
        // More than one element remains; bottom already holds the correct
        // post-pop value (b), nothing left to race a thief for.
        v := d.buf[b&d.mask]
        return v, true

    case t == b:
        v := d.buf[b&d.mask]
        if d.top.CompareAndSwap(t, t+1) {
            d.bottom.Store(b + 1)
            return v, true
        }
        // Lost the race to a thief.
        d.bottom.Store(b + 1)
        return zero, false

    default: // t > b: already empty before we decremented bottom.
        d.bottom.Store(b + 1)
        return zero, false
    }
}

// Steal removes and returns the top element. Any goroutine may call this
// concurrently with the owner's Push/Pop and with other thieves.
func (d *WSDeque[T]) Steal() (T, bool) {
    var zero T

    t := d.top.Load()    // acquire
    b := d.bottom.Load() // acquire

    if t >= b {
        return zero, false
    }

    v := d.buf[t&d.mask]
    if d.top.CompareAndSwap(t, t+1) {
        return v, true
    }
    return zero, false
}

// CountApprox returns an advisory, possibly-stale element count.
func (d *WSDeque[T]) CountApprox() int64 {
    b := d.bottom.Load()
    t := d.top.Load()
    if b >= t {
        return int64(b - t)
    }
    return 0
}

// Capacity returns the fixed number of slots.
func (d *WSDeque[T]) Capacity() int {
    return len(d.buf)
}
