package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/mod/modfile"
)

// Program depgraph generates a Graphviz DOT description of this
// module's direct and indirect requirements.
//
// Adapted from the teacher's depgraph (misc/depgraph/main.go), which
// shelled out to `go mod graph` and printed its two-column output as
// edges. This version parses go.mod directly with golang.org/x/mod's
// modfile package instead, so it needs neither a `go` binary on PATH
// nor a populated module cache to produce a graph — it only needs the
// one file.
//
// @return None. The DOT graph is printed to standard output. A
// malformed or missing go.mod results in panic.
func main() {
	path := "go.mod"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		panic(err)
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	fmt.Fprintln(writer, "digraph deps {")
	for _, req := range f.Require {
		label := req.Mod.Path
		if req.Indirect {
			label += " (indirect)"
		}
		fmt.Fprintf(writer, "    %q -> %q;\n", f.Module.Mod.Path, label)
	}
	fmt.Fprintln(writer, "}")
}
