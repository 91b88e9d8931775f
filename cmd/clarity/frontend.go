package main

import (
	"fmt"
	"os"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/checker"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/parser"
	"github.com/clarity-lang/clarity/types"
)

// frontend runs lex+parse+check on the file at path and prints every
// diagnostic to stderr. It returns the checked module and registry only
// if no error-severity diagnostic was produced at either stage — a file
// with parse errors is never sent to the checker (spec.md §7).
func frontend(path string) (*ast.Module, *types.Registry, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clarity: reading %s: %v\n", path, err)
		return nil, nil, false
	}

	mod, diags := parser.Parse(string(src), path)
	printDiagnostics(diags)
	if hasErrors(diags) {
		return nil, nil, false
	}

	reg, cdiags := checker.Check(mod)
	printDiagnostics(cdiags)
	if hasErrors(cdiags) {
		return nil, nil, false
	}
	return mod, reg, true
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func printDiagnostics(diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
}
