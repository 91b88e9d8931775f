package checker

import (
	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/token"
	"github.com/clarity-lang/clarity/types"
)

// inferCall dispatches a call expression to whichever of the four call
// forms its callee identifies: an Option/Result intrinsic constructor, a
// user union variant constructor, a declared function/builtin (possibly
// generic, resolved through unification), or a value of function type
// held in a local binding (e.g. a lambda parameter).
func (c *Checker) inferCall(n *ast.CallExpr) *types.Type {
	name, isIdent := calleeName(n.Callee)
	if isIdent {
		switch name {
		case "Some":
			return c.inferOptionCtor(n, true)
		case "None":
			return c.inferOptionCtor(n, false)
		case "Ok":
			return c.inferResultCtor(n, true)
		case "Err":
			return c.inferResultCtor(n, false)
		}
		if variant, union, ok := c.lookupVariantCtor(name); ok {
			return c.checkVariantCall(n, variant, union)
		}
		if bf, ok := c.Registry.LookupBuiltin(name); ok {
			return c.checkGenericCall(n, bf.FuncType(), name)
		}
		if ft, ok := c.funcs[name]; ok {
			return c.checkGenericCall(n, ft, name)
		}
	}
	// Fall back to a value callee (stored lambda, higher-order parameter).
	ft := c.checkExpr(n.Callee)
	if ft.Kind != types.KFunction {
		c.errorf(n.Sp, diag.KindTypeMismatch, "", "%s is not callable", ft)
		for _, a := range n.Args {
			c.checkExpr(a.Value)
		}
		return types.ErrorType
	}
	return c.checkGenericCall(n, ft, name)
}

func calleeName(e ast.Expr) (string, bool) {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name, true
	}
	return "", false
}

func (c *Checker) inferOptionCtor(n *ast.CallExpr, some bool) *types.Type {
	if some {
		if len(n.Args) != 1 {
			c.errorf(n.Sp, diag.KindArity, "", "Some takes exactly one argument, got %d", len(n.Args))
			return types.ErrorType
		}
		inner := c.checkExpr(n.Args[0].Value)
		return c.Registry.OptionOf(inner)
	}
	if len(n.Args) != 0 {
		c.errorf(n.Sp, diag.KindArity, "", "None takes no arguments, got %d", len(n.Args))
	}
	return c.Registry.OptionOf(c.infer.Fresh())
}

func (c *Checker) inferResultCtor(n *ast.CallExpr, ok bool) *types.Type {
	if len(n.Args) != 1 {
		name := "Ok"
		if !ok {
			name = "Err"
		}
		c.errorf(n.Sp, diag.KindArity, "", "%s takes exactly one argument, got %d", name, len(n.Args))
		return types.ErrorType
	}
	t := c.checkExpr(n.Args[0].Value)
	if ok {
		return c.Registry.ResultOf(t, c.infer.Fresh())
	}
	return c.Registry.ResultOf(c.infer.Fresh(), t)
}

// lookupVariantCtor finds a user-declared union variant by constructor
// name across every registered union.
func (c *Checker) lookupVariantCtor(name string) (types.Variant, *types.Type, bool) {
	for _, un := range c.allUnions() {
		for _, v := range un.Variants {
			if v.Name == name {
				return v, un, true
			}
		}
	}
	return types.Variant{}, nil, false
}

func (c *Checker) checkVariantCall(n *ast.CallExpr, variant types.Variant, union *types.Type) *types.Type {
	if len(n.Args) != len(variant.Fields) {
		c.errorf(n.Sp, diag.KindArity, "",
			"%s.%s takes %d argument(s), got %d", union.Name, variant.Name, len(variant.Fields), len(n.Args))
	}
	named := argsAreNamed(n.Args)
	ordered := make([]ast.Expr, len(variant.Fields))
	for i, a := range n.Args {
		var field types.Field
		idx := i
		if named {
			field = findFieldByName(variant.Fields, a.Name)
			idx = fieldIndexByName(variant.Fields, a.Name)
		} else if i < len(variant.Fields) {
			field = variant.Fields[i]
		}
		got := c.checkExpr(a.Value)
		if field.Type != nil && !types.Equal(field.Type, got) {
			c.errorf(a.Value.Span(), diag.KindTypeMismatch, "",
				"field %q of %s.%s expects %s but got %s", field.Name, union.Name, variant.Name, field.Type, got)
		}
		if idx >= 0 && idx < len(ordered) {
			ordered[idx] = a.Value
		}
	}
	// Rewrite the argument list in declared-field order (spec.md §4.3.5)
	// so codegen never has to re-derive named-argument positions.
	rewritten := make([]ast.Arg, 0, len(ordered))
	for _, e := range ordered {
		if e != nil {
			rewritten = append(rewritten, ast.Arg{Value: e})
		}
	}
	if len(rewritten) == len(ordered) {
		n.Args = rewritten
	}
	return union
}

func fieldIndexByName(fields []types.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func argsAreNamed(args []ast.Arg) bool {
	for _, a := range args {
		if a.Name != "" {
			return true
		}
	}
	return false
}

func findFieldByName(fields []types.Field, name string) types.Field {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return types.Field{}
}

// checkGenericCall checks a call against a (possibly generic) function
// type, unifying each argument's inferred type against the corresponding
// parameter, applying the resulting substitution to the return type, and
// enforcing that the current function's effect set contains the callee's.
func (c *Checker) checkGenericCall(n *ast.CallExpr, ft *types.Type, name string) *types.Type {
	if len(n.Args) != len(ft.Params) {
		c.errorf(n.Sp, diag.KindArity, "",
			"%s takes %d argument(s), got %d", name, len(ft.Params), len(n.Args))
	}
	named := argsAreNamed(n.Args)
	ordered := make([]ast.Expr, len(ft.Params))
	for i, a := range n.Args {
		idx := i
		if named {
			idx = paramIndex(ft.ParamNames, a.Name)
			if idx < 0 {
				c.errorf(a.Value.Span(), diag.KindUndefined, "", "%s has no parameter named %q", name, a.Name)
				c.checkExpr(a.Value)
				continue
			}
		}
		if idx < len(ordered) {
			ordered[idx] = a.Value
		}
	}
	sub := make(map[string]*types.Type)
	for i, argExpr := range ordered {
		if argExpr == nil || i >= len(ft.Params) {
			continue
		}
		got := c.checkExpr(argExpr)
		unify(ft.Params[i], got, sub)
		want := substitute(ft.Params[i], sub)
		if !types.Equal(want, got) && !isPolymorphic(ft.Params[i]) {
			c.errorf(argExpr.Span(), diag.KindTypeMismatch, "",
				"argument %d of %s: expected %s, got %s", i+1, name, want, got)
		}
	}
	c.checkEffectContainment(n.Sp, ft.Effects, name)
	if named {
		rewritten := make([]ast.Arg, 0, len(ordered))
		for _, e := range ordered {
			if e != nil {
				rewritten = append(rewritten, ast.Arg{Value: e})
			}
		}
		if len(rewritten) == len(ordered) {
			n.Args = rewritten
		}
	}
	return c.resolveReturn(substitute(ft.Return, sub))
}

// resolveReturn re-derives Option/Result return types through the
// registry's cache after substitution, since substitute builds a fresh
// KOption/KResult shell whose Variants still carry the callee's
// unresolved type variables (map_get's Option<V> before V is known,
// say) rather than the caller's concrete instantiation.
func (c *Checker) resolveReturn(t *types.Type) *types.Type {
	if t == nil {
		return t
	}
	switch t.Kind {
	case types.KOption:
		return c.Registry.OptionOf(t.Elem)
	case types.KResult:
		return c.Registry.ResultOf(t.Ok, t.Err)
	}
	return t
}

func paramIndex(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}

// checkEffectContainment enforces spec.md §4.3.7's monotonicity rule:
// the calling function's declared effect set must be a superset of
// callee's.
func (c *Checker) checkEffectContainment(span token.Span, callee map[types.EffectName]bool, calleeName string) {
	for e := range callee {
		if !c.currentEffects[e] {
			c.errorf(span, diag.KindEffectMissing,
				"add \""+string(e)+"\" to this function's effect list",
				"calling %q requires effect %q which %q does not declare", calleeName, e, c.currentFunc)
		}
	}
}

func isPolymorphic(t *types.Type) bool {
	switch t.Kind {
	case types.KTypeVar:
		return true
	case types.KList, types.KOption:
		return isPolymorphic(t.Elem)
	default:
		return false
	}
}

// unify walks want and got in lockstep, recording any type-variable
// binding from want's type variables into sub. This is intentionally
// one-directional and non-occurs-checked: Clarity's generics are
// rank-1 and parametric, so no recursive type variable can appear
// (spec.md §4.3.3).
func unify(want, got *types.Type, sub map[string]*types.Type) {
	if want == nil || got == nil {
		return
	}
	if want.Kind == types.KTypeVar {
		if _, bound := sub[want.TypeVarName]; !bound {
			sub[want.TypeVarName] = got
		}
		return
	}
	switch want.Kind {
	case types.KList, types.KOption:
		if got.Kind == want.Kind {
			unify(want.Elem, got.Elem, sub)
		}
	case types.KResult:
		if got.Kind == types.KResult {
			unify(want.Ok, got.Ok, sub)
			unify(want.Err, got.Err, sub)
		}
	case types.KMap:
		if got.Kind == types.KMap {
			unify(want.Key, got.Key, sub)
			unify(want.Val, got.Val, sub)
		}
	case types.KFunction:
		if got.Kind == types.KFunction && len(want.Params) == len(got.Params) {
			for i := range want.Params {
				unify(want.Params[i], got.Params[i], sub)
			}
			unify(want.Return, got.Return, sub)
		}
	case types.KRecord:
		if got.Kind == types.KRecord {
			for _, wf := range want.Fields {
				for _, gf := range got.Fields {
					if gf.Name == wf.Name {
						unify(wf.Type, gf.Type, sub)
						break
					}
				}
			}
		}
	}
}

// substitute applies sub to every type variable occurring in t.
func substitute(t *types.Type, sub map[string]*types.Type) *types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KTypeVar:
		if r, ok := sub[t.TypeVarName]; ok {
			return r
		}
		return t
	case types.KList:
		return types.List(substitute(t.Elem, sub))
	case types.KOption:
		return &types.Type{Kind: types.KOption, Elem: substitute(t.Elem, sub), Name: t.Name, Variants: t.Variants}
	case types.KResult:
		return &types.Type{Kind: types.KResult, Ok: substitute(t.Ok, sub), Err: substitute(t.Err, sub), Name: t.Name, Variants: t.Variants}
	case types.KMap:
		return types.MapOf(substitute(t.Key, sub), substitute(t.Val, sub))
	case types.KFunction:
		params := make([]*types.Type, len(t.Params))
		changed := false
		for i, p := range t.Params {
			params[i] = substitute(p, sub)
			if params[i] != p {
				changed = true
			}
		}
		ret := substitute(t.Return, sub)
		if !changed && ret == t.Return {
			return t
		}
		return &types.Type{Kind: types.KFunction, Params: params, ParamNames: t.ParamNames, Return: ret, Effects: t.Effects}
	case types.KRecord:
		fields := make([]types.Field, len(t.Fields))
		changed := false
		for i, f := range t.Fields {
			nt := substitute(f.Type, sub)
			fields[i] = types.Field{Name: f.Name, Type: nt}
			if nt != f.Type {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return &types.Type{Kind: types.KRecord, Name: t.Name, Fields: fields}
	default:
		return t
	}
}
