package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/clarity-lang/clarity/codegen"
)

// runCompile implements `clarity compile <file> [-o out.wasm]
// [--check-only] [--emit-ast]` (spec.md §6.3).
func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	out := fs.String("o", "", "output .wasm path (default: <file> with .wasm extension)")
	checkOnly := fs.Bool("check-only", false, "run lex/parse/check only, do not emit WASM")
	emitAST := fs.Bool("emit-ast", false, "print a declaration-level AST summary to stdout")
	fs.Bool("emit-wat", false, "unsupported: this driver only emits binary WASM")
	if err := fs.Parse(args); err != nil {
		return &usageError{err.Error()}
	}
	if fs.NArg() != 1 {
		return &usageError{"compile: expected exactly one source file"}
	}
	path := fs.Arg(0)

	mod, reg, ok := frontend(path)
	if !ok {
		return fmt.Errorf("compile failed")
	}

	if *emitAST {
		fmt.Print(dumpModule(mod))
	}
	if *checkOnly {
		return nil
	}

	bytes, warnings, err := codegen.Generate(mod, reg)
	if err != nil {
		return fmt.Errorf("codegen: %w", err)
	}
	printDiagnostics(warnings)

	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(path, ".clarity") + ".wasm"
	}
	if err := os.WriteFile(outPath, bytes, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(bytes))
	return nil
}
