// pellet-dump prints the execution header of a compiled bytecode blob:
// state sizing, exception-stack depth, closed-over locals and the offset
// of the first opcode.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/pellet-lang/pellet/internal/rawcode"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
	colorDim   = "\x1b[2m"
)

func main() {
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: pellet-dump [-no-color] <file.plb>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	useColor := !*noColor &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

	if err := dump(path, useColor); err != nil {
		fmt.Fprintf(os.Stderr, "pellet-dump: %s\n", err)
		os.Exit(1)
	}
}

func dump(path string, color bool) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p, err := rawcode.ParsePrelude(blob)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	bold, dim, reset := "", "", ""
	if color {
		bold, dim, reset = colorBold, colorDim, colorReset
	}

	fmt.Printf("%s%s%s  (%d bytes)\n", bold, path, reset, len(blob))
	fmt.Printf("  code-info size:   %d\n", p.InfoSize)
	fmt.Printf("  state slots:      %d\n", p.NState)
	fmt.Printf("  exception stack:  %d\n", p.NExcStack)
	if len(p.CellLocals) == 0 {
		fmt.Printf("  cell locals:      %snone%s\n", dim, reset)
	} else {
		fmt.Printf("  cell locals:      %v\n", p.CellLocals)
	}
	fmt.Printf("  first opcode at:  %d %s(%d bytes of code)%s\n",
		p.CodeOffset, dim, len(blob)-p.CodeOffset, reset)
	return nil
}
