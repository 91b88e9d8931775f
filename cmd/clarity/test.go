package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/clarity-lang/clarity/codegen"
	"github.com/clarity-lang/clarity/hostabi"
	"github.com/clarity-lang/clarity/testharness"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// jsonFailure mirrors spec.md §8.2 scenario 6's wire shape exactly
// (field names "kind"/"actual"/"expected"/"function"/"location"), kept
// distinct from testharness.Failure's Go-idiomatic field names.
type jsonFailure struct {
	Kind     string `json:"kind"`
	Actual   string `json:"actual"`
	Expected string `json:"expected"`
	Function string `json:"function"`
	Location string `json:"location"`
	FixHint  string `json:"fix_hint"`
}

type jsonResult struct {
	Test     string        `json:"test"`
	Passed   bool          `json:"passed"`
	Failures []jsonFailure `json:"failures,omitempty"`
}

// runTest implements `clarity test <file> [--json] [--fail-fast]`
// (spec.md §4.6, §6.3): discover test_* functions, run them in turn
// against one shared host instance, and report pass/fail with
// accumulated failures.
func runTest(args []string) error {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	jsonMode := fs.Bool("json", false, "emit one JSON line per test result")
	failFast := fs.Bool("fail-fast", false, "stop after the first failing test")
	if err := fs.Parse(args); err != nil {
		return &usageError{err.Error()}
	}
	if fs.NArg() != 1 {
		return &usageError{"test: expected exactly one source file"}
	}
	path := fs.Arg(0)

	mod, reg, ok := frontend(path)
	if !ok {
		return fmt.Errorf("compile failed")
	}

	tests := testharness.Discover(mod)
	if len(tests) == 0 {
		fmt.Println("no tests found")
		return nil
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

	report, err := testharness.Run(ctx, host, tests, testharness.Options{FailFast: *failFast})
	if err != nil {
		return fmt.Errorf("running tests: %w", err)
	}

	if *jsonMode {
		printJSONReport(report)
	} else {
		printHumanReport(report)
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

func printJSONReport(report testharness.Report) {
	enc := json.NewEncoder(os.Stdout)
	for _, o := range report.Outcomes {
		res := jsonResult{Test: o.Test.Name, Passed: o.Passed}
		for _, f := range o.Failures {
			res.Failures = append(res.Failures, jsonFailure{
				Kind: f.Kind, Actual: f.Actual, Expected: f.Expected,
				Function: f.TestFunction, Location: f.Location, FixHint: f.FixHint,
			})
		}
		enc.Encode(res)
	}
}

func printHumanReport(report testharness.Report) {
	for _, o := range report.Outcomes {
		if o.Passed {
			fmt.Printf("%s %s\n", passStyle.Render("PASS"), o.Test.Name)
			continue
		}
		fmt.Printf("%s %s\n", failStyle.Render("FAIL"), o.Test.Name)
		for _, f := range o.Failures {
			fmt.Printf("  %s: got %s, want %s %s\n",
				f.Kind, f.Actual, f.Expected, dimStyle.Render("("+f.Location+")"))
			fmt.Printf("  %s\n", dimStyle.Render("hint: "+f.FixHint))
		}
	}
	summary := fmt.Sprintf("%d passed, %d failed", report.Passed, report.Failed)
	if report.Failed > 0 {
		fmt.Println(failStyle.Render(summary))
	} else {
		fmt.Println(passStyle.Render(summary))
	}
}
