package checker

import (
	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/types"
)

// bindPattern checks pat against scrutinee type t and defines any
// bindings it introduces in the current (innermost) env scope.
func (c *Checker) bindPattern(pat ast.Pattern, t *types.Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		// binds nothing
	case *ast.BindingPattern:
		c.env.Define(p.Name, t, false)
	case *ast.LiteralPattern:
		c.checkLiteralPatternType(p, t)
	case *ast.RangePattern:
		if t.Kind != types.KInt64 {
			c.errorf(p.Sp, diag.KindTypeMismatch, "", "range pattern requires Int64, got %s", t)
		}
	case *ast.ConstructorPattern:
		c.bindConstructorPattern(p, t)
	}
}

func (c *Checker) checkLiteralPatternType(p *ast.LiteralPattern, t *types.Type) {
	switch p.Value.(type) {
	case int64:
		if t.Kind != types.KInt64 {
			c.errorf(p.Sp, diag.KindTypeMismatch, "", "integer pattern against non-Int64 scrutinee %s", t)
		}
	case float64:
		if t.Kind != types.KFloat64 {
			c.errorf(p.Sp, diag.KindTypeMismatch, "", "float pattern against non-Float64 scrutinee %s", t)
		}
	case string:
		if t.Kind != types.KString {
			c.errorf(p.Sp, diag.KindTypeMismatch, "", "string pattern against non-String scrutinee %s", t)
		}
	case bool:
		if t.Kind != types.KBool {
			c.errorf(p.Sp, diag.KindTypeMismatch, "", "bool pattern against non-Bool scrutinee %s", t)
		}
	}
}

func (c *Checker) bindConstructorPattern(p *ast.ConstructorPattern, t *types.Type) {
	if t.Kind != types.KUnion && t.Kind != types.KOption && t.Kind != types.KResult {
		c.errorf(p.Sp, diag.KindTypeMismatch, "", "constructor pattern %q against non-union scrutinee %s", p.Name, t)
		return
	}
	var variant *types.Variant
	for i := range t.Variants {
		if t.Variants[i].Name == p.Name {
			variant = &t.Variants[i]
			break
		}
	}
	if variant == nil {
		c.errorf(p.Sp, diag.KindUndefined, "", "%s has no variant %q", t.Name, p.Name)
		return
	}
	if len(p.Fields) != len(variant.Fields) {
		c.errorf(p.Sp, diag.KindArity, "",
			"%s.%s pattern has %d field(s), expected %d", t.Name, p.Name, len(p.Fields), len(variant.Fields))
	}
	named := false
	for _, f := range p.Fields {
		if f.Name != "" {
			named = true
			break
		}
	}
	for i, f := range p.Fields {
		var ft types.Field
		if named {
			ft = findFieldByName(variant.Fields, f.Name)
		} else if i < len(variant.Fields) {
			ft = variant.Fields[i]
		}
		if ft.Type != nil {
			c.bindPattern(f.Pattern, ft.Type)
		}
	}
}
