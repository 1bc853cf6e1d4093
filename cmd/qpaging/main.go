// Program qpaging is the host-language surface for the paging-aware
// state vector engine: a thin CLI driver around controller.Controller,
// standing in for the argument marshalling and circuit-construction
// layer the design treats as an external collaborator.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"qpaging/internal/circuit"
	"qpaging/internal/controller"
)

// circuitFile is the on-disk JSON shape a circuit is loaded from: three
// parallel arrays, matching the host-language surface's run_circuit
// signature (names, targets, params).
type circuitFile struct {
	NumQubits int         `json:"num_qubits"`
	Names     []string    `json:"names"`
	Targets   [][]int     `json:"targets"`
	Params    [][]float64 `json:"params"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(os.Args[2:])
	case "checkpoint":
		err = checkpointCmd(os.Args[2:])
	case "profile":
		err = profileCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "qpaging:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: qpaging run|checkpoint|profile ...")
}

func loadCircuit(path string) (*circuitFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf circuitFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

func newController(backing string, numQubits, lookahead, queueDepth int) *controller.Controller {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return controller.New(controller.Config{
		NumQubits:      numQubits,
		BackingPath:    backing,
		LookaheadDepth: lookahead,
		QueueDepth:     queueDepth,
	}, logger)
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	backing := fs.String("backing", "", "backing file path")
	circuitPath := fs.String("circuit", "", "circuit JSON file")
	lookahead := fs.Int("lookahead", 4, "lookahead depth in gates")
	queueDepth := fs.Int("queue-depth", 128, "I/O engine submission queue depth (power of two)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *backing == "" || *circuitPath == "" {
		return fmt.Errorf("run: -backing and -circuit are required")
	}

	cf, err := loadCircuit(*circuitPath)
	if err != nil {
		return err
	}
	gates, err := circuit.FromArrays(cf.Names, cf.Targets, cf.Params)
	if err != nil {
		return err
	}

	c := newController(*backing, cf.NumQubits, *lookahead, *queueDepth)
	if err := c.Initialize(); err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.RunCircuit(gates); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Printf("ran %d gates on %d qubits (%d bytes backing %s)\n",
		len(gates), cf.NumQubits, int64(1)<<uint(cf.NumQubits)*16, *backing)
	return nil
}

func checkpointCmd(args []string) error {
	fs := flag.NewFlagSet("checkpoint", flag.ExitOnError)
	backing := fs.String("backing", "", "backing file path")
	dest := fs.String("dest", "", "checkpoint destination path")
	qubits := fs.Int("qubits", 0, "number of qubits")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *backing == "" || *dest == "" {
		return fmt.Errorf("checkpoint: -backing and -dest are required")
	}

	c := newController(*backing, *qubits, 0, 128)
	if err := c.Initialize(); err != nil {
		return err
	}
	defer c.Close()
	return c.Checkpoint(*dest)
}

func profileCmd(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	backing := fs.String("backing", "", "backing file path")
	circuitPath := fs.String("circuit", "", "circuit JSON file")
	out := fs.String("out", "cpu.pprof", "CPU profile output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *backing == "" || *circuitPath == "" {
		return fmt.Errorf("profile: -backing and -circuit are required")
	}

	cf, err := loadCircuit(*circuitPath)
	if err != nil {
		return err
	}
	gates, err := circuit.FromArrays(cf.Names, cf.Targets, cf.Params)
	if err != nil {
		return err
	}

	profOut, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer profOut.Close()

	if err := pprof.StartCPUProfile(profOut); err != nil {
		return err
	}
	c := newController(*backing, cf.NumQubits, 4, 128)
	if err := c.Initialize(); err != nil {
		pprof.StopCPUProfile()
		return err
	}
	_, runErr := c.RunCircuit(gates)
	pprof.StopCPUProfile()
	c.Close()
	if runErr != nil {
		return runErr
	}

	return summarizeProfile(*out)
}
