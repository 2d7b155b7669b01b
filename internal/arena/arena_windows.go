//go:build windows

// Windows fallback: a plain GC-backed slice stands in for the real
// reserve/commit split. Arena never reads/writes past cur.committed, so the
// invariant `committed <= reserved` still holds; we simply don't get the
// "unused reserved pages are never paged in" benefit mmap gives on unix.
//
// © 2025 nstl authors. MIT License.
package arena

func reserveCommit(reserved, committed uint64) []byte {
    return make([]byte, reserved)
}

func releaseMem(mem []byte) {
    // GC-managed; nothing to do.
}
