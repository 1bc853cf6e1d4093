// Package schedule implements the circuit analyzer: it compiles a gate
// list into a per-gate page-access timeline the Controller uses to drive
// lookahead prefetch. Analysis is pure computation over gate metadata
// only — it never touches the backing file — so it cannot fail.
package schedule

import (
	"qpaging/internal/circuit"
	"qpaging/internal/vmpage"
)

/// Schedule is the Analyzer's output: a dense mapping from gate index to
/// the page bitmap that gate needs resident. It is total over [0, G).
type Schedule struct {
	NumPages int
	Bitmaps  []PageBitmap
}

/// At returns the bitmap for gate i.
func (s Schedule) At(i int) PageBitmap { return s.Bitmaps[i] }

/// Len returns the number of gates the schedule covers.
func (s Schedule) Len() int { return len(s.Bitmaps) }

/// Build compiles gates into a Schedule for a numQubits-qubit state
/// vector. Two-qubit gates receive an empty bitmap in this revision:
/// prefetch becomes a no-op and those gates fall back to demand paging
/// (see the Analyzer's two-qubit note in the design notes).
func Build(numQubits int, gates []circuit.Gate) Schedule {
	npage := vmpage.TotalPages(numQubits)
	s := Schedule{NumPages: npage, Bitmaps: make([]PageBitmap, len(gates))}
	for i, g := range gates {
		bm := NewPageBitmap(npage)
		if len(g.Targets) == 1 {
			oneQubitBitmap(bm, g.Targets[0])
		}
		// Two-qubit gates: leave bm empty (out of scope for this revision).
		s.Bitmaps[i] = bm
	}
	return s
}

// oneQubitBitmap fills bm in place for a one-qubit gate on target q.
//
// Dense regime (stride < page size, q < 8): every page holds amplitudes
// from both halves of qubit q, so every page is touched.
//
// Strided regime (stride >= page size, q >= 8): the state vector
// decomposes into blocks of 2*stride_pages pages; this schedule marks
// only the lead half of each block (stride_pages pages), trusting
// ordinary sequential read-ahead to warm the trailing half. This is the
// design's documented approximation, not an oversight.
func oneQubitBitmap(bm PageBitmap, q int) {
	if !vmpage.IsStrided(q) {
		bm.SetAll()
		return
	}
	stridePages := int(vmpage.StrideBytes(q)) / vmpage.PageSize
	blockPages := 2 * stridePages
	for blockStart := 0; blockStart < bm.Len(); blockStart += blockPages {
		bm.SetRange(blockStart, stridePages)
	}
}
