// Package kernels applies gates directly against the memory manager's
// mapped byte region, streaming over paired amplitude halves with a
// worker pool sized to available cores.
//
// The worker pool is grounded on the teacher's per-CPU sharding in
// Physmem_t (biscuit/src/mem/mem.go's percpu free lists keyed by
// runtime.CPUHint): where the teacher shards a free list per CPU to
// avoid a global lock, this package shards the chunk range per worker
// to avoid any lock at all — chunks are disjoint by construction.
package kernels

import (
	"fmt"
	"unsafe"

	"qpaging/internal/vmpage"
)

// bytesToAmplitudes reinterprets region as a slice of complex128
// amplitudes without copying. Valid on little-endian platforms only
// (amd64, arm64), matching the backing file's documented little-endian,
// tightly packed layout.
func bytesToAmplitudes(region []byte) []complex128 {
	n := len(region) / vmpage.AmplitudeBytes
	return unsafe.Slice((*complex128)(unsafe.Pointer(&region[0])), n)
}

func checkTarget(numAmplitudes, target int) error {
	if target < 0 || 1<<uint(target) >= numAmplitudes {
		return fmt.Errorf("kernels: target %d out of range for %d amplitudes", target, numAmplitudes)
	}
	return nil
}
