// Command clarity is the driver binary wiring the lexer, parser,
// checker, codegen, and host runtime packages into the CLI surface
// spec.md §6.3 describes: compile, run, test, introspect. The driver
// itself is the spec's one named external collaborator ("specified
// only at their interface"), so it stays a thin flag-dispatch shell
// in the teacher's cmd/run style rather than a deeply-specified
// component of its own.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "run":
		err = runRun(os.Args[2:])
	case "test":
		err = runTest(os.Args[2:])
	case "introspect":
		err = runIntrospect(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "clarity: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "clarity: %v\n", err)
		if _, ok := err.(*usageError); ok {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  clarity compile <file> [-o out.wasm] [--check-only] [--emit-ast]
  clarity run <file> -f <fn> [-a arg]...
  clarity test <file> [--json] [--fail-fast]
  clarity introspect [--builtins|--effects|--types]`)
}

// usageError marks a CLI-misuse condition (spec.md §6.3 exit code 2),
// distinct from a compile or runtime error (exit code 1).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
