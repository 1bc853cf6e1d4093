package schedule

import "math/bits"

/// PageBitmap is a dense bitmap of length equal to the total page count,
/// one bit per page. Bit p set means the page is wanted.
type PageBitmap struct {
	words []uint64
	npage int
}

/// NewPageBitmap allocates a zeroed bitmap covering npage pages.
func NewPageBitmap(npage int) PageBitmap {
	return PageBitmap{words: make([]uint64, (npage+63)/64), npage: npage}
}

/// Len returns the number of pages this bitmap covers.
func (b PageBitmap) Len() int { return b.npage }

/// Set marks page p as wanted.
func (b PageBitmap) Set(p int) {
	b.words[p/64] |= 1 << uint(p%64)
}

/// IsSet reports whether page p is marked wanted.
func (b PageBitmap) IsSet(p int) bool {
	return b.words[p/64]&(1<<uint(p%64)) != 0
}

/// SetAll marks every page in the bitmap as wanted.
func (b PageBitmap) SetAll() {
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
	b.clearTail()
}

// clearTail zeroes bits beyond npage in the final word so Popcount and
// Pages never see phantom pages past the end of the state vector.
func (b PageBitmap) clearTail() {
	if b.npage%64 == 0 {
		return
	}
	last := len(b.words) - 1
	valid := uint(b.npage % 64)
	b.words[last] &= (uint64(1) << valid) - 1
}

/// SetRange marks [start, start+count) as wanted.
func (b PageBitmap) SetRange(start, count int) {
	for p := start; p < start+count && p < b.npage; p++ {
		b.Set(p)
	}
}

/// Popcount returns the number of wanted pages.
func (b PageBitmap) Popcount() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

/// Empty reports whether no bits are set.
func (b PageBitmap) Empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

/// Pages returns the set page indices in ascending order.
func (b PageBitmap) Pages() []int {
	out := make([]int, 0, b.Popcount())
	for wi, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			out = append(out, wi*64+tz)
			w &= w - 1
		}
	}
	return out
}
