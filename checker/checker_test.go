package checker_test

import (
	"testing"

	"github.com/clarity-lang/clarity/checker"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/parser"
)

func check(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	mod, pdiags := parser.Parse(src, "test.cl")
	for _, d := range pdiags {
		t.Fatalf("unexpected parse diagnostic: %s", d)
	}
	_, cdiags := checker.Check(mod)
	return cdiags
}

func TestCheckSimpleFunction(t *testing.T) {
	diags := check(t, `module test
function add(a: Int64, b: Int64) -> Int64 {
  a + b
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestCheckTypeMismatch(t *testing.T) {
	diags := check(t, `module test
function add(a: Int64, b: Int64) -> Int64 {
  a ++ b
}`)
	if len(diags) == 0 {
		t.Fatalf("expected a type mismatch diagnostic")
	}
}

func TestCheckEffectMonotonicity(t *testing.T) {
	diags := check(t, `module test
function helper(s: String) -> Unit {
  print_string(s)
}`)
	if len(diags) == 0 {
		t.Fatalf("expected an effect_missing diagnostic")
	}
	if diags[0].Kind != diag.KindEffectMissing {
		t.Fatalf("expected effect_missing, got %s", diags[0].Kind)
	}
}

func TestCheckEffectDeclaredOk(t *testing.T) {
	diags := check(t, `module test
effect[Log] function helper(s: String) -> Unit {
  print_string(s)
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestCheckRecordLiteralDisambiguation(t *testing.T) {
	diags := check(t, `module test
type Point = { x: Int64, y: Int64 }
function origin() -> Point {
  { x: 0, y: 0 }
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

// TestCheckRecordLiteralAmbiguousResolvesFirstMatch covers spec.md
// §4.3.4: when more than one registered record type has the same
// field-name set and field-type compatibility still leaves a tie, the
// literal resolves to the first-declared candidate rather than erroring
// — ambiguity is never a compile error.
func TestCheckRecordLiteralAmbiguousResolvesFirstMatch(t *testing.T) {
	diags := check(t, `module test
type Point2D = { x: Int64, y: Int64 }
type Point2DAlt = { x: Int64, y: Int64 }
function origin() -> Point2D {
  { x: 0, y: 0 }
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics (first match wins), got %v", diags)
	}
}

// TestCheckRecordLiteralDisambiguatesByFieldType covers the
// field-type-compatibility narrowing step itself: two record types
// share a field-name set but not field types, so only one is a
// compatible candidate for a given literal.
func TestCheckRecordLiteralDisambiguatesByFieldType(t *testing.T) {
	diags := check(t, `module test
type IntPair = { a: Int64, b: Int64 }
type FloatPair = { a: Float64, b: Float64 }
function origin() -> FloatPair {
  { a: 1.0, b: 2.0 }
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

// TestCheckGenericCallThroughFunctionParam covers spec.md §4.3.2's
// requirement that unification traverse function params/return: calling a
// generic higher-order function with a concrete lambda argument must bind
// the callee's type variables through the function-typed parameter, not
// just through the list/option/result/map shells.
func TestCheckGenericCallThroughFunctionParam(t *testing.T) {
	diags := check(t, `module test
function apply<T,U>(x: T, f: (T) -> U) -> U {
  f(x)
}
function double(n: Int64) -> Int64 {
  n + n
}
function run() -> Int64 {
  apply(3, double)
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestCheckOptionIntrinsic(t *testing.T) {
	diags := check(t, `module test
function maybeOne() -> Option<Int64> {
  Some(1)
}
function nothing() -> Option<Int64> {
  None
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestCheckNonExhaustiveUnion(t *testing.T) {
	diags := check(t, `module test
type Shape =
  | Circle(r: Int64)
  | Square(side: Int64)
function area(s: Shape) -> Int64 {
  match s {
    Circle(r: r) -> r,
  }
}`)
	if len(diags) == 0 {
		t.Fatalf("expected a non-exhaustive match diagnostic")
	}
	if diags[0].Kind != diag.KindNonExhaustive {
		t.Fatalf("expected non_exhaustive, got %s", diags[0].Kind)
	}
}

func TestCheckExhaustiveUnion(t *testing.T) {
	diags := check(t, `module test
type Shape =
  | Circle(r: Int64)
  | Square(side: Int64)
function area(s: Shape) -> Int64 {
  match s {
    Circle(r: r) -> r,
    Square(side: s) -> s,
  }
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

// TestCheckGuardedWildcardCoversExhaustiveness covers spec.md §4.3.8:
// a guarded binding/wildcard arm is treated as an unguarded catch-all
// for coverage purposes, so it satisfies exhaustiveness even though its
// guard could evaluate false at runtime (codegen's trailing
// `unreachable` is the backstop for that case).
func TestCheckGuardedWildcardCoversExhaustiveness(t *testing.T) {
	diags := check(t, `module test
type Shape =
  | Circle(r: Int64)
  | Square(side: Int64)
  | Triangle(base: Int64, height: Int64)
function area(s: Shape) -> Int64 {
  match s {
    Circle(r: r) -> r,
    Square(side: s) -> s,
    x if True -> 0,
  }
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

// TestCheckGuardedConstructorDoesNotCoverExhaustiveness is the negative
// case: a guarded constructor arm never counts toward coverage, so a
// variant only reached by a guarded arm is still reported missing.
func TestCheckGuardedConstructorDoesNotCoverExhaustiveness(t *testing.T) {
	diags := check(t, `module test
type Shape =
  | Circle(r: Int64)
  | Square(side: Int64)
function area(s: Shape) -> Int64 {
  match s {
    Circle(r: r) -> r,
    Square(side: s) if s > 0 -> s,
  }
}`)
	if len(diags) == 0 {
		t.Fatalf("expected a non-exhaustive match diagnostic")
	}
	if diags[0].Kind != diag.KindNonExhaustive {
		t.Fatalf("expected non_exhaustive, got %s", diags[0].Kind)
	}
}

func TestCheckRangeOverlapWarning(t *testing.T) {
	diags := check(t, `module test
function classify(n: Int64) -> Int64 {
  match n {
    0..10 -> 1,
    5..15 -> 2,
    _ -> 0,
  }
}`)
	found := false
	for _, d := range diags {
		if d.Kind == diag.KindOverlap {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a range_overlap diagnostic, got %v", diags)
	}
}

func TestCheckImmutableAssign(t *testing.T) {
	diags := check(t, `module test
function f() -> Int64 {
  let x = 1
  x = 2
  x
}`)
	if len(diags) == 0 {
		t.Fatalf("expected an immutable-assign diagnostic")
	}
	if diags[0].Kind != diag.KindImmutable {
		t.Fatalf("expected immutable, got %s", diags[0].Kind)
	}
}

func TestCheckMutableAssignOk(t *testing.T) {
	diags := check(t, `module test
function f() -> Int64 {
  let mut x = 1
  x = 2
  x
}`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}
