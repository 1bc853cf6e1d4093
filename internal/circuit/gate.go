// Package circuit defines the gate list the Analyzer, Kernels, and
// Controller all operate on, plus the structural hash the Controller
// uses to key its schedule cache.
package circuit

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"qpaging/internal/errs"
)

/// Gate is one operation in a circuit: a named unitary template applied
/// to an ordered list of target qubits, with optional real parameters
/// for parameterised gates (e.g. rotation angles). Params never affect
/// the structural hash.
type Gate struct {
	Name    string
	Targets []int
	Params  []float64
}

/// FromArrays builds a gate list from the three parallel arrays the
/// host-language surface accepts, checking that their lengths agree.
func FromArrays(names []string, targets [][]int, params [][]float64) ([]Gate, error) {
	if len(names) != len(targets) || len(names) != len(params) {
		return nil, errs.InputErr("circuit.FromArrays", fmt.Errorf(
			"mismatched parallel arrays: %d names, %d target lists, %d param lists",
			len(names), len(targets), len(params)))
	}
	gates := make([]Gate, len(names))
	for i := range names {
		gates[i] = Gate{Name: names[i], Targets: targets[i], Params: params[i]}
	}
	return gates, nil
}

/// Validate checks every gate's targets are in range [0, numQubits) and
/// distinct within the gate, and that the gate carries one or two
/// targets (the only cases in scope).
func Validate(numQubits int, gates []Gate) error {
	for i, g := range gates {
		if len(g.Targets) != 1 && len(g.Targets) != 2 {
			return errs.InputErr("circuit.Validate", fmt.Errorf(
				"gate %d (%s): expected 1 or 2 targets, got %d", i, g.Name, len(g.Targets)))
		}
		seen := make(map[int]bool, len(g.Targets))
		for _, t := range g.Targets {
			if t < 0 || t >= numQubits {
				return errs.InputErr("circuit.Validate", fmt.Errorf(
					"gate %d (%s): target %d out of range [0,%d)", i, g.Name, t, numQubits))
			}
			if seen[t] {
				return errs.InputErr("circuit.Validate", fmt.Errorf(
					"gate %d (%s): duplicate target %d", i, g.Name, t))
			}
			seen[t] = true
		}
	}
	return nil
}

/// StructuralHash hashes each gate's (name, targets) in order, excluding
/// params, so that variational re-runs of the same topology with
/// different angles hit the Controller's schedule cache.
func StructuralHash(gates []Gate) [32]byte {
	h := sha256.New()
	var buf [8]byte
	for _, g := range gates {
		h.Write([]byte(strings.ToUpper(g.Name)))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(len(g.Targets)))
		h.Write(buf[:])
		for _, t := range g.Targets {
			binary.LittleEndian.PutUint64(buf[:], uint64(t))
			h.Write(buf[:])
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
