package kernels

import (
	"fmt"
	"strings"

	"qpaging/internal/circuit"
	"qpaging/internal/gateset"
)

/// Apply dispatches a single gate to the appropriate kernel: CX/CNOT
/// goes to ApplyCNOT, every other recognised one-qubit name goes
/// through gateset.Lookup into ApplyOneQubit. Two-qubit gates besides
/// CNOT are out of scope and return a dispatch error.
func (p *Pool) Apply(region []byte, g circuit.Gate) error {
	if len(g.Targets) == 2 {
		if !gateset.IsTwoQubit(g.Name) {
			return fmt.Errorf("kernels: unsupported two-qubit gate %q", g.Name)
		}
		return p.ApplyCNOT(region, g.Targets[0], g.Targets[1])
	}
	u, err := gateset.Lookup(strings.TrimSpace(g.Name), g.Params)
	if err != nil {
		return err
	}
	return p.ApplyOneQubit(region, g.Targets[0], u)
}
