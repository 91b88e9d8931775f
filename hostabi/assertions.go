package hostabi

import (
	"fmt"
	"math"
)

// Failure records one failed assertion raised by a `test_*` function
// (spec.md §4.6, §8.1: "each failure carries kind, actual, expected,
// testFunction"). Location and the stock fix_hint are filled in by
// testharness, which alone knows the failing test's source span and
// assertion-kind catalog.
type Failure struct {
	TestName string
	Kind     string
	Actual   string
	Expected string
}

// Assertions accumulates failures raised during test execution via the
// imported assert_* host functions, across however many test_* functions
// the harness runs through one Host. Begin switches the name new
// failures are attributed to; the slice itself is never cleared, since
// testharness reports every failure from every test in one run (spec.md
// §8.1 "all failures of all tests in a file are reported in one run").
type Assertions struct {
	current  string
	failures []Failure
}

func NewAssertions() *Assertions {
	return &Assertions{}
}

// Begin attributes subsequently recorded failures to testName.
func (a *Assertions) Begin(testName string) {
	a.current = testName
}

// Fail records one failed assertion of the given kind.
func (a *Assertions) Fail(kind, actual, expected string) {
	a.failures = append(a.failures, Failure{TestName: a.current, Kind: kind, Actual: actual, Expected: expected})
}

// Failures returns every failure recorded so far across all tests run
// through this recorder.
func (a *Assertions) Failures() []Failure {
	return a.failures
}

// AssertEqInt backs `assert_eq`, Clarity's default assertion over any
// value whose equality reduces to raw i64 word comparison (Int64, Bool,
// Timestamp, and structural equality already reduced to a boolean by the
// compiled module itself).
func (a *Assertions) AssertEqInt(got, want int64) {
	if got != want {
		a.Fail("assert_eq", fmt.Sprintf("%d", got), fmt.Sprintf("%d", want))
	}
}

// assertEqEpsilon bounds how far apart two Float64 assertions may be and
// still compare equal, since exact float equality is rarely what a test
// author means (spec.md §4.5 "assert_eq_float compares within a small
// epsilon").
const assertEqEpsilon = 1e-9

// AssertEqFloat backs `assert_eq_float`.
func (a *Assertions) AssertEqFloat(got, want float64) {
	if math.Abs(got-want) > assertEqEpsilon {
		a.Fail("assert_eq_float", fmt.Sprintf("%v", got), fmt.Sprintf("%v", want))
	}
}

// AssertEqString backs `assert_eq_string`.
func (a *Assertions) AssertEqString(got, want string) {
	if got != want {
		a.Fail("assert_eq_string", got, want)
	}
}

// AssertTrue backs `assert_true`.
func (a *Assertions) AssertTrue(cond bool, message string) {
	if !cond {
		a.Fail("assert_true", "False", "True")
	}
	_ = message
}

// AssertFalse backs `assert_false`.
func (a *Assertions) AssertFalse(cond bool, message string) {
	if cond {
		a.Fail("assert_false", "True", "False")
	}
	_ = message
}

// AssertFail backs `fail`, an unconditional test failure carrying a
// caller-supplied message in place of an actual/expected pair.
func (a *Assertions) AssertFail(message string) {
	a.Fail("fail", message, "")
}
