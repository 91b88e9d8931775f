package checker

import (
	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/types"
)

// checkBlock checks every statement of b in a fresh scope and returns the
// type of its trailing result expression (Unit if absent). expected is
// used only to give let-binding type errors a useful span context; the
// caller compares the returned type against its own expectation.
func (c *Checker) checkBlock(b *ast.Block, expected *types.Type) *types.Type {
	c.env.Push()
	defer c.env.Pop()

	for _, stmt := range b.Stmts {
		c.checkStmt(stmt)
	}
	if b.Result == nil {
		b.SetResolvedType(types.Unit)
		return types.Unit
	}
	t := c.checkExpr(b.Result)
	b.SetResolvedType(t)
	return t
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		valType := c.checkExpr(s.Value)
		if s.Type != nil {
			declared := c.resolveTypeExpr(s.Type)
			if !types.Equal(declared, valType) {
				c.errorf(s.Sp, diag.KindTypeMismatch, "",
					"let %s: %s but initializer has type %s", s.Name, declared, valType)
			}
			valType = declared
		}
		c.env.Define(s.Name, valType, s.Mut)
	case *ast.AssignStmt:
		declared, mut, found := c.env.Lookup(s.Name)
		valType := c.checkExpr(s.Value)
		if !found {
			c.errorf(s.Sp, diag.KindUndefined, "", "undefined name %q", s.Name)
			return
		}
		if !mut {
			c.errorf(s.Sp, diag.KindImmutable, "declare with `let mut` to allow reassignment",
				"cannot assign to immutable binding %q", s.Name)
		}
		if !types.Equal(declared, valType) {
			c.errorf(s.Sp, diag.KindTypeMismatch, "",
				"cannot assign %s to %q of type %s", valType, s.Name, declared)
		}
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	}
}

// checkExpr dispatches on the dynamic expression type, infers its type,
// attaches it via SetResolvedType, and returns it.
func (c *Checker) checkExpr(e ast.Expr) *types.Type {
	t := c.inferExpr(e)
	e.SetResolvedType(t)
	return t
}

func (c *Checker) inferExpr(e ast.Expr) *types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return types.Int64
	case *ast.FloatLit:
		return types.Float64
	case *ast.StringLit:
		return types.String
	case *ast.BoolLit:
		return types.Bool
	case *ast.InterpolatedStringExpr:
		for _, sub := range n.Exprs {
			c.checkExpr(sub)
		}
		return types.String
	case *ast.ListLit:
		return c.inferListLit(n)
	case *ast.RecordLit:
		return c.inferRecordLit(n)
	case *ast.Ident:
		return c.inferIdent(n)
	case *ast.BinaryExpr:
		return c.inferBinary(n)
	case *ast.UnaryExpr:
		return c.inferUnary(n)
	case *ast.CallExpr:
		return c.inferCall(n)
	case *ast.MemberExpr:
		return c.inferMember(n)
	case *ast.Block:
		return c.checkBlock(n, nil)
	case *ast.MatchExpr:
		return c.inferMatch(n)
	case *ast.LambdaExpr:
		return c.inferLambda(n)
	default:
		return types.ErrorType
	}
}

func (c *Checker) inferListLit(n *ast.ListLit) *types.Type {
	if len(n.Elements) == 0 {
		return types.List(c.infer.Fresh())
	}
	elem := c.checkExpr(n.Elements[0])
	for _, el := range n.Elements[1:] {
		t := c.checkExpr(el)
		if !types.Equal(elem, t) {
			c.errorf(el.Span(), diag.KindTypeMismatch, "",
				"list element has type %s, expected %s", t, elem)
		}
	}
	return types.List(elem)
}

// inferRecordLit disambiguates a brace literal against the registry's
// exact-field-set candidates (spec.md §4.3.4): zero candidates is
// undefined; more than one is narrowed by field-type compatibility; if
// still tied, the first candidate (registry insertion order, so stable
// across re-runs) wins. Ambiguity is never a compile error.
func (c *Checker) inferRecordLit(n *ast.RecordLit) *types.Type {
	names := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		names[i] = f.Name
	}
	candidates := c.Registry.RecordCandidates(names)
	if len(candidates) == 0 {
		c.errorf(n.Sp, diag.KindUndefined, "", "no record type has exactly fields {%s}", joinStrings(names))
		for _, f := range n.Fields {
			c.checkExpr(f.Value)
		}
		return types.ErrorType
	}

	got := make(map[string]*types.Type, len(n.Fields))
	for _, f := range n.Fields {
		got[f.Name] = c.checkExpr(f.Value)
	}

	rec := candidates[0]
	if len(candidates) > 1 {
		for _, cand := range candidates {
			if recordFieldsCompatible(cand, got) {
				rec = cand
				break
			}
		}
	}

	n.TypeName = rec.Name
	for _, f := range n.Fields {
		want := fieldType(rec, f.Name)
		if want != nil && !types.Equal(want, got[f.Name]) {
			c.errorf(f.Value.Span(), diag.KindTypeMismatch, "",
				"field %q of %s expects %s but got %s", f.Name, rec.Name, want, got[f.Name])
		}
	}
	return rec
}

// recordFieldsCompatible reports whether every field of rec's declared
// type matches the already-inferred type of the literal's corresponding
// field value (spec.md §4.3.4's "disambiguate by field-type
// compatibility" step).
func recordFieldsCompatible(rec *types.Type, got map[string]*types.Type) bool {
	for _, f := range rec.Fields {
		g, ok := got[f.Name]
		if !ok || !types.Equal(f.Type, g) {
			return false
		}
	}
	return true
}

func fieldType(rec *types.Type, name string) *types.Type {
	for _, f := range rec.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

func (c *Checker) inferIdent(n *ast.Ident) *types.Type {
	// Uppercase-leading bare identifiers denote nullary union constructors
	// (e.g. `None`) or zero-field variants of a user union.
	if isUpperInitial(n.Name) {
		if t, ok := c.lookupNullaryConstructor(n.Name); ok {
			return t
		}
	}
	t, _, found := c.env.Lookup(n.Name)
	if !found {
		c.errorf(n.Sp, diag.KindUndefined, "", "undefined name %q", n.Name)
		return types.ErrorType
	}
	return t
}

// lookupNullaryConstructor resolves a bare uppercase identifier used as a
// value: `None` (Option intrinsic) or a zero-field variant of some
// registered union declared in the module.
func (c *Checker) lookupNullaryConstructor(name string) (*types.Type, bool) {
	if name == "None" {
		return c.Registry.OptionOf(c.infer.Fresh()), true
	}
	for _, un := range c.allUnions() {
		for _, v := range un.Variants {
			if v.Name == name && len(v.Fields) == 0 {
				return un, true
			}
		}
	}
	return nil, false
}

func (c *Checker) allUnions() []*types.Type {
	return c.Registry.AllUnions()
}

func (c *Checker) inferBinary(n *ast.BinaryExpr) *types.Type {
	lt := c.checkExpr(n.Left)
	rt := c.checkExpr(n.Right)
	switch n.Op {
	case "+", "-", "*", "/", "%":
		if !types.Equal(lt, rt) || (lt.Kind != types.KInt64 && lt.Kind != types.KFloat64) {
			c.errorf(n.Sp, diag.KindTypeMismatch, "", "operator %q needs two Int64 or two Float64 operands, got %s and %s", n.Op, lt, rt)
			return types.ErrorType
		}
		return lt
	case "++":
		if lt.Kind != types.KString || rt.Kind != types.KString {
			c.errorf(n.Sp, diag.KindTypeMismatch, "", "operator ++ needs two Strings, got %s and %s", lt, rt)
			return types.ErrorType
		}
		return types.String
	case "==", "!=":
		if !types.Equal(lt, rt) {
			c.errorf(n.Sp, diag.KindTypeMismatch, "", "cannot compare %s and %s", lt, rt)
		}
		return types.Bool
	case "<", "<=", ">", ">=":
		if !types.Equal(lt, rt) || (lt.Kind != types.KInt64 && lt.Kind != types.KFloat64) {
			c.errorf(n.Sp, diag.KindTypeMismatch, "", "operator %q needs two Int64 or two Float64 operands", n.Op)
		}
		return types.Bool
	case "&&", "||":
		if lt.Kind != types.KBool || rt.Kind != types.KBool {
			c.errorf(n.Sp, diag.KindTypeMismatch, "", "operator %q needs two Bools", n.Op)
		}
		return types.Bool
	default:
		c.errorf(n.Sp, diag.KindSyntax, "", "unknown operator %q", n.Op)
		return types.ErrorType
	}
}

func (c *Checker) inferUnary(n *ast.UnaryExpr) *types.Type {
	t := c.checkExpr(n.Operand)
	switch n.Op {
	case "-":
		if t.Kind != types.KInt64 && t.Kind != types.KFloat64 {
			c.errorf(n.Sp, diag.KindTypeMismatch, "", "unary - needs Int64 or Float64, got %s", t)
			return types.ErrorType
		}
		return t
	case "!":
		if t.Kind != types.KBool {
			c.errorf(n.Sp, diag.KindTypeMismatch, "", "unary ! needs Bool, got %s", t)
			return types.ErrorType
		}
		return types.Bool
	}
	return types.ErrorType
}

func (c *Checker) inferMember(n *ast.MemberExpr) *types.Type {
	rt := c.checkExpr(n.Receiver)
	if rt.Kind != types.KRecord {
		c.errorf(n.Sp, diag.KindTypeMismatch, "", "%s has no field %q", rt, n.Name)
		return types.ErrorType
	}
	for _, f := range rt.Fields {
		if f.Name == n.Name {
			return f.Type
		}
	}
	c.errorf(n.Sp, diag.KindUndefined, "", "record %s has no field %q", rt.Name, n.Name)
	return types.ErrorType
}

// inferMatch checks every arm of a match expression, binds each arm's
// pattern variables in its own scope, requires every arm's body to agree
// on a single result type, and finally runs exhaustiveness/overlap
// analysis over the scrutinee's type.
func (c *Checker) inferMatch(n *ast.MatchExpr) *types.Type {
	scrutType := c.checkExpr(n.Scrutinee)
	var result *types.Type
	for i := range n.Arms {
		arm := &n.Arms[i]
		c.env.Push()
		c.bindPattern(arm.Pattern, scrutType)
		if arm.Guard != nil {
			gt := c.checkExpr(arm.Guard)
			if gt.Kind != types.KBool {
				c.errorf(arm.Guard.Span(), diag.KindTypeMismatch, "", "match guard must be Bool, got %s", gt)
			}
		}
		bodyType := c.checkExpr(arm.Body)
		c.env.Pop()
		if result == nil {
			result = bodyType
		} else if !types.Equal(result, bodyType) {
			c.errorf(arm.Body.Span(), diag.KindTypeMismatch, "",
				"match arm has type %s, expected %s (from earlier arm)", bodyType, result)
		}
	}
	c.checkExhaustiveness(n, scrutType)
	if result == nil {
		return types.Unit
	}
	return result
}

func (c *Checker) inferLambda(n *ast.LambdaExpr) *types.Type {
	c.env.Push()
	defer c.env.Pop()
	params := make([]*types.Type, len(n.ParamNames))
	for i, p := range n.ParamNames {
		tv := c.infer.Fresh()
		params[i] = tv
		c.env.Define(p, tv, false)
	}
	ret := c.checkExpr(n.Body)
	return &types.Type{Kind: types.KFunction, Params: params, ParamNames: n.ParamNames, Return: ret, Effects: c.currentEffects}
}
