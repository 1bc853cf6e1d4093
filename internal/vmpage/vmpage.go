// Package vmpage defines the page and amplitude geometry shared by the
// memory manager, the circuit analyzer, and the kernels. Every other
// package derives page counts and byte offsets from these constants so
// the three agree on the same layout without importing each other.
package vmpage

// PageSize is the fixed OS virtual-memory page size this design assumes.
const PageSize = 4096

// AmplitudeBytes is the size in bytes of one complex128 amplitude
// (two binary64 values, real then imaginary).
const AmplitudeBytes = 16

// AmplitudesPerPage is the number of amplitudes packed into one page.
const AmplitudesPerPage = PageSize / AmplitudeBytes

/// TotalBytes returns the exact backing-file length for a numQubits-qubit
/// state vector: 2^numQubits amplitudes of AmplitudeBytes each.
func TotalBytes(numQubits int) int64 {
	return (int64(1) << uint(numQubits)) * AmplitudeBytes
}

/// TotalPages returns ⌈TotalBytes / PageSize⌉, the number of pages the
/// backing file and its mapping occupy.
func TotalPages(numQubits int) int {
	total := TotalBytes(numQubits)
	pages := total / PageSize
	if total%PageSize != 0 {
		pages++
	}
	return int(pages)
}

/// StrideBytes returns the byte distance between the paired amplitudes
/// (i, i+2^q) that a one-qubit gate on target q touches.
func StrideBytes(target int) int64 {
	return (int64(1) << uint(target)) * AmplitudeBytes
}

/// IsStrided reports whether a one-qubit gate on target touches a strict
/// subset of pages (stride at least one page) rather than every page.
/// The boundary is strict: a stride exactly equal to PageSize is strided,
/// matching the design's documented choice at the qubit-8 boundary.
func IsStrided(target int) bool {
	return StrideBytes(target) >= PageSize
}
