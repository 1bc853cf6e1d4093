package kernels

import (
	"math"
	"math/cmplx"
	"testing"
	"unsafe"

	"qpaging/internal/gateset"
)

const eps = 1e-12

// region builds a byte region for the given amplitudes, the same
// little-endian reinterpretation bytesToAmplitudes performs in reverse.
func region(amps []complex128) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&amps[0])), len(amps)*16)
}

func readAmps(b []byte) []complex128 {
	return bytesToAmplitudes(b)
}

func approxEq(a, b complex128) bool { return cmplx.Abs(a-b) < eps }

func norm(amps []complex128) float64 {
	var sum float64
	for _, a := range amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

func TestApplyOneQubitXOnTwoQubits(t *testing.T) {
	pool := NewPool()
	x, _ := gateset.Lookup("X", nil)

	amps := []complex128{1, 0, 0, 0} // |00>
	reg := region(amps)

	if err := pool.ApplyOneQubit(reg, 0, x); err != nil {
		t.Fatalf("ApplyOneQubit(q0): %v", err)
	}
	got := readAmps(reg)
	want := []complex128{0, 1, 0, 0}
	for i := range want {
		if !approxEq(got[i], want[i]) {
			t.Fatalf("after X(q0): got %v, want %v", got, want)
		}
	}

	if err := pool.ApplyOneQubit(reg, 1, x); err != nil {
		t.Fatalf("ApplyOneQubit(q1): %v", err)
	}
	got = readAmps(reg)
	want = []complex128{0, 0, 0, 1}
	for i := range want {
		if !approxEq(got[i], want[i]) {
			t.Fatalf("after X(q1): got %v, want %v", got, want)
		}
	}
}

func TestApplyHadamardOneQubitSystem(t *testing.T) {
	pool := NewPool()
	h, _ := gateset.Lookup("H", nil)

	amps := []complex128{1, 0}
	reg := region(amps)
	if err := pool.ApplyOneQubit(reg, 0, h); err != nil {
		t.Fatalf("ApplyOneQubit(H): %v", err)
	}
	got := readAmps(reg)
	want := complex(1/math.Sqrt2, 0)
	if !approxEq(got[0], want) || !approxEq(got[1], want) {
		t.Fatalf("H|0> = %v, want [%.12f %.12f]", got, want, want)
	}
}

func TestApplyCNOT(t *testing.T) {
	pool := NewPool()

	// |10>: control=1 set, target=0 clear -> index 2 in a 2-qubit system.
	amps := []complex128{0, 0, 1, 0}
	reg := region(amps)
	if err := pool.ApplyCNOT(reg, 1, 0); err != nil {
		t.Fatalf("ApplyCNOT: %v", err)
	}
	got := readAmps(reg)
	want := []complex128{0, 0, 0, 1}
	for i := range want {
		if !approxEq(got[i], want[i]) {
			t.Fatalf("CNOT|10> = %v, want %v", got, want)
		}
	}

	// |00> is untouched since control is clear.
	amps2 := []complex128{1, 0, 0, 0}
	reg2 := region(amps2)
	if err := pool.ApplyCNOT(reg2, 1, 0); err != nil {
		t.Fatalf("ApplyCNOT: %v", err)
	}
	got2 := readAmps(reg2)
	for i, a := range amps2 {
		if !approxEq(got2[i], a) {
			t.Fatalf("CNOT|00> = %v, want unchanged %v", got2, amps2)
		}
	}
}

func TestOneQubitUnitaryPreservesNorm(t *testing.T) {
	pool := NewPool()
	h, _ := gateset.Lookup("H", nil)

	amps := []complex128{
		complex(0.6, 0.1), complex(-0.2, 0.3), complex(0.1, -0.4), complex(0.3, 0.2),
		complex(0.2, 0.2), complex(-0.1, 0.1), complex(0.4, 0.0), complex(0.0, -0.3),
	}
	before := norm(amps)
	reg := region(amps)
	if err := pool.ApplyOneQubit(reg, 1, h); err != nil {
		t.Fatalf("ApplyOneQubit: %v", err)
	}
	after := norm(readAmps(reg))
	if math.Abs(before-after) > 1e-9 {
		t.Errorf("norm not preserved: before=%v after=%v", before, after)
	}
}

func TestOneQubitGateThenInverseRoundTrips(t *testing.T) {
	pool := NewPool()
	theta := 0.73
	rx, _ := gateset.Lookup("RX", []float64{theta})
	rxInv, _ := gateset.Lookup("RX", []float64{-theta})

	orig := []complex128{
		complex(0.5, 0.2), complex(-0.3, 0.4), complex(0.1, 0.1), complex(0.2, -0.2),
	}
	amps := append([]complex128(nil), orig...)
	reg := region(amps)

	if err := pool.ApplyOneQubit(reg, 0, rx); err != nil {
		t.Fatalf("ApplyOneQubit: %v", err)
	}
	if err := pool.ApplyOneQubit(reg, 0, rxInv); err != nil {
		t.Fatalf("ApplyOneQubit (inverse): %v", err)
	}
	got := readAmps(reg)
	for i := range orig {
		if cmplx.Abs(got[i]-orig[i]) > 1e-9 {
			t.Errorf("round trip mismatch at %d: got %v want %v", i, got[i], orig[i])
		}
	}
}

func TestApplyOneQubitRejectsOutOfRangeTarget(t *testing.T) {
	pool := NewPool()
	x, _ := gateset.Lookup("X", nil)
	amps := []complex128{1, 0}
	reg := region(amps)
	if err := pool.ApplyOneQubit(reg, 3, x); err == nil {
		t.Errorf("expected error for out-of-range target, got nil")
	}
}
