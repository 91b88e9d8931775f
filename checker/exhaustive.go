package checker

import (
	"sort"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/types"
)

// checkExhaustiveness validates a match's arm coverage against its
// scrutinee type (spec.md §4.3.8): union scrutinees require every
// variant to be named by some unguarded arm (or a wildcard/binding
// catch-all); Int64 scrutinees require range/literal coverage of
// every value reachable in practice to be backed by a trailing
// wildcard, and any two arms whose ranges overlap are flagged.
func (c *Checker) checkExhaustiveness(n *ast.MatchExpr, scrutType *types.Type) {
	if scrutType.IsUnionLike() || scrutType.Kind == types.KOption || scrutType.Kind == types.KResult {
		c.checkUnionExhaustive(n, scrutType)
	}
	if scrutType.Kind == types.KInt64 {
		c.checkIntRangeOverlap(n)
		c.checkIntExhaustive(n)
	}
	if scrutType.Kind == types.KBool {
		c.checkBoolExhaustive(n)
	}
	if scrutType.Kind == types.KString || scrutType.Kind == types.KFloat64 ||
		scrutType.Kind == types.KBytes || scrutType.Kind == types.KTimestamp {
		c.requireWildcard(n, scrutType)
	}
}

// checkBoolExhaustive requires both True and False arms (or a wildcard) —
// spec.md §4.3.8's only finite-domain scalar exception.
func (c *Checker) checkBoolExhaustive(n *ast.MatchExpr) {
	var haveTrue, haveFalse bool
	for _, arm := range n.Arms {
		switch p := arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.BindingPattern:
			// spec.md §4.3.8: a guarded binding/wildcard arm still
			// counts as total coverage — guard or not.
			return
		case *ast.LiteralPattern:
			if arm.Guard != nil {
				continue // a guarded literal arm cannot be counted toward coverage
			}
			if b, ok := p.Value.(bool); ok {
				if b {
					haveTrue = true
				} else {
					haveFalse = true
				}
			}
		}
	}
	if !haveTrue || !haveFalse {
		c.errorf(n.Sp, diag.KindNonExhaustive, "add the missing True/False arm, or a wildcard `_` catch-all",
			"match on Bool is not exhaustive: both True and False must be covered")
	}
}

// requireWildcard enforces spec.md §4.3.8's rule that literal arms alone
// never exhaust String/Float64/Bytes/Timestamp — a trailing wildcard or
// binding catch-all is mandatory.
func (c *Checker) requireWildcard(n *ast.MatchExpr, t *types.Type) {
	for _, arm := range n.Arms {
		switch arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.BindingPattern:
			// spec.md §4.3.8: counts even when guarded — literal arms
			// never suffice here regardless, so there is no competing
			// "guarded literal shouldn't count" case to guard against.
			return
		}
	}
	c.errorf(n.Sp, diag.KindNonExhaustive, "add a trailing `_ -> ...` arm",
		"match on %s is not exhaustive: no catch-all arm covers the remaining values", t.String())
}

func (c *Checker) checkUnionExhaustive(n *ast.MatchExpr, t *types.Type) {
	covered := make(map[string]bool, len(t.Variants))
	catchAll := false
	for _, arm := range n.Arms {
		switch p := arm.Pattern.(type) {
		case *ast.ConstructorPattern:
			if arm.Guard != nil {
				continue // a guarded constructor arm cannot be counted toward coverage
			}
			covered[p.Name] = true
		case *ast.WildcardPattern, *ast.BindingPattern:
			// spec.md §4.3.8: a guarded binding/wildcard still counts
			// as the catch-all, unlike a guarded constructor arm above.
			catchAll = true
		}
	}
	if catchAll {
		return
	}
	var missing []string
	for _, v := range t.Variants {
		if !covered[v.Name] {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		c.errorf(n.Sp, diag.KindNonExhaustive, "add an arm for the missing variant(s), or a wildcard `_` catch-all",
			"match on %s is not exhaustive: missing variant(s) %s", t.Name, joinStrings(missing))
	}
}

// checkIntRangeOverlap reports any pair of arms whose int ranges (treating
// a bare literal as a single-point range) overlap, per spec.md §4.3.8's
// "emits a warning, first match wins" rule — this implementation keeps
// first-match-wins semantics at codegen time and merely warns here.
func (c *Checker) checkIntRangeOverlap(n *ast.MatchExpr) {
	type span struct {
		lo, hi int64
		idx    int
	}
	var spans []span
	for i, arm := range n.Arms {
		switch p := arm.Pattern.(type) {
		case *ast.LiteralPattern:
			if v, ok := p.Value.(int64); ok {
				spans = append(spans, span{lo: v, hi: v, idx: i})
			}
		case *ast.RangePattern:
			spans = append(spans, span{lo: p.Lo, hi: p.Hi, idx: i})
		}
	}
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.lo <= b.hi && b.lo <= a.hi {
				c.warnf(n.Arms[b.idx].Pattern.Span(), diag.KindOverlap,
					"arm %d overlaps arm %d; the earlier arm always wins", b.idx+1, a.idx+1)
			}
		}
	}
}

// checkIntExhaustive requires a trailing wildcard/binding arm for any
// Int64 match, since no finite set of literals/ranges can cover the
// full 64-bit domain (spec.md §4.3.8).
func (c *Checker) checkIntExhaustive(n *ast.MatchExpr) {
	for _, arm := range n.Arms {
		switch arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.BindingPattern:
			// spec.md §4.3.8: counts even when guarded.
			return
		}
	}
	c.errorf(n.Sp, diag.KindNonExhaustive, "add a trailing `_ -> ...` arm",
		"match on Int64 is not exhaustive: no catch-all arm covers the remaining values")
}
