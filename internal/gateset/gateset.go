// Package gateset maps gate names to the 2x2 unitary matrices the
// one-qubit kernel consumes. Lookup is case-insensitive. Unknown names
// are a dispatch error (the strict choice the design leaves open);
// callers that want a permissive identity fallback should check the
// name against Known before dispatching.
package gateset

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

/// Matrix2x2 holds a one-qubit unitary in row-major order: U00, U01,
/// U10, U11, matching the kernel's convention.
type Matrix2x2 [4]complex128

var (
	identity = Matrix2x2{1, 0, 0, 1}
	pauliX   = Matrix2x2{0, 1, 1, 0}
	pauliY   = Matrix2x2{0, -1i, 1i, 0}
	pauliZ   = Matrix2x2{1, 0, 0, -1}
	hadamard = Matrix2x2{
		complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0),
		complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0),
	}
	sGate = Matrix2x2{1, 0, 0, 1i}
	tGate = Matrix2x2{1, 0, 0, cmplx.Exp(1i * math.Pi / 4)}
)

/// Lookup resolves a gate name and its parameters to a unitary matrix.
/// Rotation gates (RX, RY, RZ) and the phase gate (P/PHASE/U1) consume
/// one parameter, the angle in radians. Returns an error for unknown
/// names: this dispatcher is strict by design.
func Lookup(name string, params []float64) (Matrix2x2, error) {
	switch strings.ToUpper(name) {
	case "I", "ID", "IDENTITY":
		return identity, nil
	case "X", "NOT":
		return pauliX, nil
	case "Y":
		return pauliY, nil
	case "Z":
		return pauliZ, nil
	case "H", "HADAMARD":
		return hadamard, nil
	case "S":
		return sGate, nil
	case "SDG":
		return Matrix2x2{1, 0, 0, -1i}, nil
	case "T":
		return tGate, nil
	case "TDG":
		return Matrix2x2{1, 0, 0, cmplx.Exp(-1i * math.Pi / 4)}, nil
	case "RX":
		theta, err := angle(name, params)
		if err != nil {
			return Matrix2x2{}, err
		}
		c := complex(math.Cos(theta/2), 0)
		s := complex(0, -math.Sin(theta/2))
		return Matrix2x2{c, s, s, c}, nil
	case "RY":
		theta, err := angle(name, params)
		if err != nil {
			return Matrix2x2{}, err
		}
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return Matrix2x2{c, -s, s, c}, nil
	case "RZ":
		theta, err := angle(name, params)
		if err != nil {
			return Matrix2x2{}, err
		}
		return Matrix2x2{cmplx.Exp(complex(0, -theta/2)), 0, 0, cmplx.Exp(complex(0, theta/2))}, nil
	case "P", "PHASE", "U1":
		lambda, err := angle(name, params)
		if err != nil {
			return Matrix2x2{}, err
		}
		return Matrix2x2{1, 0, 0, cmplx.Exp(complex(0, lambda))}, nil
	default:
		return Matrix2x2{}, fmt.Errorf("gateset: unknown gate %q", name)
	}
}

func angle(name string, params []float64) (float64, error) {
	if len(params) < 1 {
		return 0, fmt.Errorf("gateset: %s requires one parameter, got %d", name, len(params))
	}
	return params[0], nil
}

/// Known reports whether name resolves to a recognised one-qubit gate,
/// without needing parameters (useful for validating a circuit up
/// front before dispatch).
func Known(name string) bool {
	switch strings.ToUpper(name) {
	case "I", "ID", "IDENTITY", "X", "NOT", "Y", "Z", "H", "HADAMARD",
		"S", "SDG", "T", "TDG", "RX", "RY", "RZ", "P", "PHASE", "U1":
		return true
	default:
		return false
	}
}

/// IsTwoQubit reports whether name names a two-qubit gate this engine
/// dispatches via the dedicated kernel rather than gateset.Lookup.
func IsTwoQubit(name string) bool {
	switch strings.ToUpper(name) {
	case "CX", "CNOT":
		return true
	default:
		return false
	}
}
