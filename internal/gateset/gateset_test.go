package gateset

import (
	"math"
	"math/cmplx"
	"testing"
)

const eps = 1e-12

func approxEq(a, b complex128) bool {
	return cmplx.Abs(a-b) < eps
}

func TestPauliXMatchesDefinition(t *testing.T) {
	u, err := Lookup("x", nil)
	if err != nil {
		t.Fatalf("Lookup(X): %v", err)
	}
	want := Matrix2x2{0, 1, 1, 0}
	if u != want {
		t.Errorf("X = %v, want %v", u, want)
	}
}

func TestHadamardNormalized(t *testing.T) {
	u, err := Lookup("H", nil)
	if err != nil {
		t.Fatalf("Lookup(H): %v", err)
	}
	want := complex(1/math.Sqrt2, 0)
	if !approxEq(u[0], want) || !approxEq(u[3], -want) {
		t.Errorf("H = %v, unexpected entries", u)
	}
}

func TestCaseInsensitive(t *testing.T) {
	a, err := Lookup("h", nil)
	if err != nil {
		t.Fatalf("Lookup(h): %v", err)
	}
	b, err := Lookup("H", nil)
	if err != nil {
		t.Fatalf("Lookup(H): %v", err)
	}
	if a != b {
		t.Errorf("case-insensitive lookup mismatch: %v vs %v", a, b)
	}
}

func TestUnknownGateIsStrictError(t *testing.T) {
	if _, err := Lookup("QUX", nil); err == nil {
		t.Errorf("Lookup(QUX) succeeded, want strict dispatch error")
	}
}

func TestRotationRequiresParam(t *testing.T) {
	if _, err := Lookup("RX", nil); err == nil {
		t.Errorf("Lookup(RX) with no params succeeded, want error")
	}
	if _, err := Lookup("RX", []float64{math.Pi}); err != nil {
		t.Errorf("Lookup(RX, pi) failed: %v", err)
	}
}

func TestRZRoundTripsToIdentityAtZero(t *testing.T) {
	u, err := Lookup("RZ", []float64{0})
	if err != nil {
		t.Fatalf("Lookup(RZ,0): %v", err)
	}
	if !approxEq(u[0], 1) || !approxEq(u[1], 0) || !approxEq(u[2], 0) || !approxEq(u[3], 1) {
		t.Errorf("RZ(0) = %v, want identity", u)
	}
}

func TestIsTwoQubit(t *testing.T) {
	for _, name := range []string{"cx", "CNOT", "Cx"} {
		if !IsTwoQubit(name) {
			t.Errorf("IsTwoQubit(%q) = false, want true", name)
		}
	}
	if IsTwoQubit("H") {
		t.Errorf("IsTwoQubit(H) = true, want false")
	}
}
