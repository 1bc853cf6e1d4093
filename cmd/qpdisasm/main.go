//go:build linux && amd64

// Program qpdisasm disassembles a named function out of this binary's
// own ELF .text section, for inspecting whether the one-qubit kernel's
// hot loop actually compiled to the vectorised form the design assumes
// is available (see kernels.DetectSIMD). It complements that runtime
// feature report with a look at the generated machine code itself.
//
// Limited to linux/amd64: golang.org/x/arch's x86 decoder only covers
// that instruction set, and reading our own process image as an ELF
// file only works on platforms that use the ELF format.
package main

import (
	"debug/elf"
	"fmt"
	"os"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

func main() {
	name := "kernels.applyOneQubitRange"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, "qpdisasm:", err)
		os.Exit(1)
	}
	f, err := elf.Open(exe)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qpdisasm:", err)
		os.Exit(1)
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		fmt.Fprintln(os.Stderr, "qpdisasm:", err)
		os.Exit(1)
	}

	var target *elf.Symbol
	for i := range syms {
		if strings.Contains(syms[i].Name, name) {
			target = &syms[i]
			break
		}
	}
	if target == nil {
		fmt.Fprintf(os.Stderr, "qpdisasm: symbol %q not found\n", name)
		os.Exit(1)
	}

	text := f.Section(".text")
	if text == nil {
		fmt.Fprintln(os.Stderr, "qpdisasm: no .text section")
		os.Exit(1)
	}
	data, err := text.Data()
	if err != nil {
		fmt.Fprintln(os.Stderr, "qpdisasm:", err)
		os.Exit(1)
	}

	off := target.Value - text.Addr
	if off > uint64(len(data)) || off+target.Size > uint64(len(data)) {
		fmt.Fprintln(os.Stderr, "qpdisasm: symbol range outside .text")
		os.Exit(1)
	}
	code := data[off : off+target.Size]
	pc := target.Value

	for len(code) > 0 {
		inst, err := x86asm.Decode(code, 64)
		if err != nil {
			fmt.Printf("%#x\t(decode error: %v)\n", pc, err)
			break
		}
		fmt.Printf("%#x\t%s\n", pc, x86asm.GNUSyntax(inst, pc, nil))
		code = code[inst.Len:]
		pc += uint64(inst.Len)
	}
}
