// Package testharness discovers and runs test_* functions in a checked
// Clarity module (component C8, spec.md §4.6), collecting their
// accumulated assertion failures into a single structured report.
//
// Grounded on the teacher's testbed package (plain-testing-style
// assertions, no third-party assertion library) but reshaped from
// `_test.go` files into a reusable library: this harness runs against
// an arbitrary compiled module at `clarity test` time, not just the
// compiler's own source tree.
package testharness

import (
	"context"
	"fmt"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/hostabi"
	"github.com/clarity-lang/clarity/token"
	"github.com/clarity-lang/clarity/types"
)

// Test names a single discovered test_* function and the source span
// its failures should be attributed to.
type Test struct {
	Name string
	Span token.Span
}

// Discover returns every function in mod satisfying spec.md §4.6's
// discovery rule: name begins with "test_", declares exactly the Test
// effect, takes zero parameters, returns Unit. mod must already be
// checked — Discover reads ResolvedType, which only package checker
// sets.
func Discover(mod *ast.Module) []Test {
	var out []Test
	for _, d := range mod.Declarations {
		f, ok := d.(*ast.Function)
		if !ok || !isTestFunc(f) {
			continue
		}
		out = append(out, Test{Name: f.Name, Span: f.Sp})
	}
	return out
}

func isTestFunc(f *ast.Function) bool {
	if len(f.Name) < 5 || f.Name[:5] != "test_" {
		return false
	}
	if len(f.Params) != 0 {
		return false
	}
	ft, ok := f.ResolvedType.(*types.Type)
	if !ok || ft.Return == nil || ft.Return.Kind != types.KUnit {
		return false
	}
	if len(ft.Effects) != 1 || !ft.Effects[types.EffectTest] {
		return false
	}
	return true
}

// Outcome is one test's result: Passed iff it raised zero failures.
type Outcome struct {
	Test     Test
	Passed   bool
	Failures []Failure
}

// Failure is one assertion failure, enriched with the information only
// the harness has (the failing test's source span, and a stock
// fix_hint keyed by assertion kind) on top of what hostabi.Assertions
// recorded at the point of the call (spec.md §8.1: "actual, expected,
// kind, function, location, and a stock fix_hint").
type Failure struct {
	TestFunction string
	Kind         string
	Actual       string
	Expected     string
	Location     string
	FixHint      string
}

// Report is the result of running a batch of tests.
type Report struct {
	Outcomes []Outcome
	Passed   int
	Failed   int
}

// Options configures a run.
type Options struct {
	FailFast bool // stop after the first failing test
}

// Run executes every test in tests against host (whose module must
// already be loaded), in declaration order, and returns the aggregate
// report. A test "passes" iff zero failures were accumulated during its
// run (spec.md §4.6).
func Run(ctx context.Context, host *hostabi.Host, tests []Test, opts Options) (Report, error) {
	spans := make(map[string]token.Span, len(tests))
	for _, t := range tests {
		spans[t.Name] = t.Span
	}

	var report Report
	for _, t := range tests {
		before := len(host.Assertions().Failures())
		host.Assertions().Begin(t.Name)
		if _, err := host.Call(ctx, t.Name); err != nil {
			return report, fmt.Errorf("testharness: running %s: %w", t.Name, err)
		}
		raw := host.Assertions().Failures()[before:]

		outcome := Outcome{Test: t, Passed: len(raw) == 0}
		for _, f := range raw {
			outcome.Failures = append(outcome.Failures, Failure{
				TestFunction: f.TestName,
				Kind:         f.Kind,
				Actual:       f.Actual,
				Expected:     f.Expected,
				Location:     spans[f.TestName].String(),
				FixHint:      fixHint(f.Kind),
			})
		}

		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		if opts.FailFast && !outcome.Passed {
			break
		}
	}
	return report, nil
}

// fixHint maps an assertion kind to a stock, non-specific suggestion
// (spec.md §8.1: "a stock fix_hint"). These are deliberately generic —
// the harness has no access to the values that produced a mismatch
// beyond what the assertion already reports.
func fixHint(kind string) string {
	switch kind {
	case "assert_eq", "assert_eq_float", "assert_eq_string":
		return "check the value produced before this assertion"
	case "assert_true":
		return "the condition evaluated to False; check the expression under test"
	case "assert_false":
		return "the condition evaluated to True; check the expression under test"
	case "fail":
		return "this test explicitly called fail"
	default:
		return ""
	}
}
