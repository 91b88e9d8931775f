package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/codegen"
	"github.com/clarity-lang/clarity/hostabi"
	"github.com/clarity-lang/clarity/types"
)

// argList collects repeated `-a` flags, teacher flag.Value style (one
// flag.Var accumulating a slice instead of a single scalar).
type argList []string

func (a *argList) String() string { return fmt.Sprint([]string(*a)) }
func (a *argList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

// runRun implements `clarity run <file> -f <fn> [-a arg]...` (spec.md
// §6.3): compile the file in-process, instantiate it, call the named
// export with CLI-supplied arguments marshaled per its declared
// parameter types, and print the result.
func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	funcName := fs.String("f", "", "exported function to call")
	var rawArgs argList
	fs.Var(&rawArgs, "a", "argument (repeatable, in order)")
	if err := fs.Parse(args); err != nil {
		return &usageError{err.Error()}
	}
	if fs.NArg() != 1 {
		return &usageError{"run: expected exactly one source file"}
	}
	if *funcName == "" {
		return &usageError{"run: -f <function> is required"}
	}
	path := fs.Arg(0)

	mod, reg, ok := frontend(path)
	if !ok {
		return fmt.Errorf("compile failed")
	}

	fn := findFunction(mod, *funcName)
	if fn == nil {
		return fmt.Errorf("no such exported function %q", *funcName)
	}
	ft, ok := fn.ResolvedType.(*types.Type)
	if !ok {
		return fmt.Errorf("internal error: %s has no resolved type", *funcName)
	}
	if len(rawArgs) != len(ft.Params) {
		return &usageError{fmt.Sprintf("run: %s expects %d argument(s), got %d", *funcName, len(ft.Params), len(rawArgs))}
	}

	wasmBytes, warnings, err := codegen.Generate(mod, reg)
	if err != nil {
		return fmt.Errorf("codegen: %w", err)
	}
	printDiagnostics(warnings)

	ctx := context.Background()
	host := hostabi.NewHost(ctx, hostabi.Options{Out: os.Stdout, In: os.Stdin})
	if err := host.Load(ctx, wasmBytes); err != nil {
		return fmt.Errorf("loading module: %w", err)
	}
	defer host.Close(ctx)

	words := make([]uint64, len(rawArgs))
	for i, raw := range rawArgs {
		w, err := marshalArg(host, ft.Params[i], raw)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		words[i] = w
	}

	results, err := host.Call(ctx, *funcName, words...)
	if err != nil {
		return fmt.Errorf("running %s: %w", *funcName, err)
	}

	if ft.Return == nil || ft.Return.Kind == types.KUnit {
		return nil
	}
	if len(results) == 0 {
		return fmt.Errorf("internal error: %s declared a non-Unit return but produced no result", *funcName)
	}
	rendered, err := renderResult(host, ft.Return, results[0])
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}

func findFunction(mod *ast.Module, name string) *ast.Function {
	for _, d := range mod.Declarations {
		if f, ok := d.(*ast.Function); ok && f.Name == name {
			return f
		}
	}
	return nil
}

// marshalArg converts one CLI string argument into the packed uint64 ABI
// word the parameter's declared type expects (spec.md §4.4.2).
func marshalArg(host *hostabi.Host, t *types.Type, raw string) (uint64, error) {
	switch t.Kind {
	case types.KInt64, types.KTimestamp:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not a valid Int64: %q", raw)
		}
		return uint64(v), nil
	case types.KFloat64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("not a valid Float64: %q", raw)
		}
		return math.Float64bits(v), nil
	case types.KBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return 0, fmt.Errorf("not a valid Bool: %q", raw)
		}
		if v {
			return 1, nil
		}
		return 0, nil
	case types.KString:
		w, err := host.InternString(raw)
		if err != nil {
			return 0, err
		}
		return w, nil
	default:
		return 0, fmt.Errorf("unsupported CLI argument type %s", t.String())
	}
}

// renderResult converts a result ABI word into its printable Go form,
// the inverse of marshalArg for the subset of types a CLI driver can
// round-trip from/to a string.
func renderResult(host *hostabi.Host, t *types.Type, word uint64) (string, error) {
	switch t.Kind {
	case types.KInt64, types.KTimestamp:
		return strconv.FormatInt(int64(word), 10), nil
	case types.KFloat64:
		return strconv.FormatFloat(math.Float64frombits(word), 'g', -1, 64), nil
	case types.KBool:
		return strconv.FormatBool(word != 0), nil
	case types.KString:
		s, err := host.ReadString(word)
		if err != nil {
			return "", fmt.Errorf("reading result string: %w", err)
		}
		return s, nil
	default:
		return fmt.Sprintf("<%s @0x%x>", t.String(), word), nil
	}
}
