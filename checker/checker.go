// Package checker implements Clarity's Hindley-Milner-flavored type and
// effect checker (component C5): name resolution, unification-based
// generic instantiation, the Option/Result intrinsic scheme, exhaustiveness
// and range-overlap analysis, and effect-set containment.
//
// The three-pass structure (register types, register signatures, check
// bodies) lets mutually recursive functions and forward references to
// later declarations type-check without a fixpoint solver — modeled on
// the corpus's header/body analysis split (the multi-phase
// "headers analyzed then bodies analyzed" convention used by
// interpreter/analyzer-style checkers in the reference examples) and
// expressed here as three explicit, sequential passes instead of a
// stateful per-module flag.
package checker

import (
	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/token"
	"github.com/clarity-lang/clarity/types"
)

// InferenceContext threads fresh type-variable generation through a
// single checking pass, shared by every call-site unification so that
// generated variable names never collide within one module (spec.md §9:
// "Shared AST with attached resolvedType... avoid a full re-pass").
type InferenceContext struct {
	counter int
}

func (ic *InferenceContext) Fresh() *types.Type {
	ic.counter++
	return types.TypeVar(freshName(ic.counter))
}

func freshName(n int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	s := string(letters[n%26])
	for n >= 26 {
		n = n/26 - 1
		s = string(letters[n%26]) + s
	}
	return "'" + s
}

// Checker holds all state for checking a single module.
type Checker struct {
	Registry *types.Registry
	diags    diag.Bag
	infer    *InferenceContext
	env      *Env
	// funcs holds each declared Function's type, indexed by name, filled
	// in pass 2 so pass 3 bodies can call functions declared later.
	funcs map[string]*types.Type
	// currentEffects is the effect set of the function body currently
	// being checked, consulted by the call-effect containment rule.
	currentEffects map[types.EffectName]bool
	currentFunc    string
	// aliasTypes maps transparent type-alias names to their resolved type.
	aliasTypes map[string]*types.Type
}

// Check runs all three passes over mod and returns the accumulated
// diagnostics. The module's expression nodes are mutated in place to
// attach resolved types (spec.md §3.4).
func Check(mod *ast.Module) (*types.Registry, []diag.Diagnostic) {
	c := &Checker{
		Registry: types.NewRegistry(),
		infer:    &InferenceContext{},
		env:      NewEnv(),
		funcs:    make(map[string]*types.Type),
		aliasTypes: make(map[string]*types.Type),
	}
	c.registerTypes(mod)
	c.registerSignatures(mod)
	c.checkBodies(mod)
	return c.Registry, c.diags.All()
}

func (c *Checker) errorf(span token.Span, kind diag.Kind, help string, format string, args ...any) {
	c.diags.Add(diag.New(diag.PhaseCheck, kind).At(span).Msg(format, args...).Help("%s", help).Build())
}

func (c *Checker) warnf(span token.Span, kind diag.Kind, format string, args ...any) {
	c.diags.Add(diag.New(diag.PhaseCheck, kind).At(span).Severity(diag.Warning).Msg(format, args...).Build())
}

// ---- Pass 1: register type declarations ----

func (c *Checker) registerTypes(mod *ast.Module) {
	// First pass: register names so mutually-recursive record/union
	// references resolve even out of declaration order.
	for _, d := range mod.Declarations {
		if td, ok := d.(*ast.TypeDecl); ok {
			switch td.Body.Kind {
			case ast.TypeRecordBody:
				c.Registry.DefineRecord(&types.Type{Kind: types.KRecord, Name: td.Name, BoundVars: td.TypeParams})
			case ast.TypeUnionBody:
				c.Registry.DefineUnion(&types.Type{Kind: types.KUnion, Name: td.Name, BoundVars: td.TypeParams})
			}
		}
	}
	// Second sub-pass: fill in field/variant types now that every type
	// name in the module is registered.
	for _, d := range mod.Declarations {
		td, ok := d.(*ast.TypeDecl)
		if !ok {
			continue
		}
		switch td.Body.Kind {
		case ast.TypeRecordBody:
			rec, _ := c.Registry.LookupRecord(td.Name)
			for _, f := range td.Body.Fields {
				rec.Fields = append(rec.Fields, types.Field{Name: f.Name, Type: c.resolveTypeExpr(f.Type)})
			}
		case ast.TypeUnionBody:
			un, _ := c.Registry.LookupUnion(td.Name)
			for i, v := range td.Body.Variants {
				var fields []types.Field
				for _, f := range v.Fields {
					fields = append(fields, types.Field{Name: f.Name, Type: c.resolveTypeExpr(f.Type)})
				}
				un.Variants = append(un.Variants, types.Variant{Name: v.Name, Fields: fields, Index: i})
			}
		case ast.TypeAlias:
			// Transparent alias: resolve immediately and stash the
			// resolved type on the TypeExpr's slot for the parser/checker
			// to read back; aliases are never looked up by name as a
			// distinct Type (spec.md §3.1: "No nominal aliasing").
			resolved := c.resolveTypeExpr(td.Body.Alias)
			c.aliasTypes[td.Name] = resolved
		}
	}
}

// resolveTypeExpr turns a syntactic TypeExpr into a semantic *types.Type,
// handling primitives, built-in composites, record/union names, aliases,
// and bare type-parameter references.
func (c *Checker) resolveTypeExpr(te *ast.TypeExpr) *types.Type {
	if te == nil {
		return types.Unit
	}
	if te.Name == "" && te.FuncReturn != nil {
		params := make([]*types.Type, len(te.FuncParams))
		for i, p := range te.FuncParams {
			params[i] = c.resolveTypeExpr(p)
		}
		return &types.Type{Kind: types.KFunction, Params: params, Return: c.resolveTypeExpr(te.FuncReturn)}
	}
	switch te.Name {
	case "Int64":
		return types.Int64
	case "Float64":
		return types.Float64
	case "Bool":
		return types.Bool
	case "String":
		return types.String
	case "Bytes":
		return types.Bytes
	case "Timestamp":
		return types.Timestamp
	case "Unit":
		return types.Unit
	case "List":
		return types.List(c.resolveArg(te, 0))
	case "Option":
		return c.Registry.OptionOf(c.resolveArg(te, 0))
	case "Result":
		return c.Registry.ResultOf(c.resolveArg(te, 0), c.resolveArg(te, 1))
	case "Map":
		return types.MapOf(c.resolveArg(te, 0), c.resolveArg(te, 1))
	}
	if alias, ok := c.aliasTypes[te.Name]; ok {
		return alias
	}
	if rec, ok := c.Registry.LookupRecord(te.Name); ok {
		return rec
	}
	if un, ok := c.Registry.LookupUnion(te.Name); ok {
		return un
	}
	// Unregistered name: either a bound type parameter (lowercase, by
	// convention) or a forward reference the registry doesn't know about
	// yet. Both resolve to a type variable under the same name.
	return types.TypeVar(te.Name)
}

func (c *Checker) resolveArg(te *ast.TypeExpr, i int) *types.Type {
	if i >= len(te.Args) {
		return c.infer.Fresh()
	}
	return c.resolveTypeExpr(te.Args[i])
}

func isUpperInitial(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// ---- Pass 2: register function signatures ----

func (c *Checker) registerSignatures(mod *ast.Module) {
	for _, d := range mod.Declarations {
		switch decl := d.(type) {
		case *ast.Function:
			ft := c.functionType(decl)
			decl.ResolvedType = ft
			c.funcs[decl.Name] = ft
			c.env.Define(decl.Name, ft, false)
		case *ast.Const:
			if decl.Type != nil {
				t := c.resolveTypeExpr(decl.Type)
				decl.ResolvedType = t
				c.env.Define(decl.Name, t, false)
			}
		}
	}
}

func (c *Checker) functionType(f *ast.Function) *types.Type {
	params := make([]*types.Type, len(f.Params))
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = c.resolveTypeExpr(p.Type)
		names[i] = p.Name
	}
	ret := c.resolveTypeExpr(f.ReturnType)
	effSet := make(map[types.EffectName]bool, len(f.Effects))
	for _, e := range f.Effects {
		en := types.EffectName(e)
		if !c.Registry.IsKnownEffect(en) {
			c.errorf(f.Sp, diag.KindUnknownEffect,
				"valid effects: "+joinStrings(c.Registry.ValidEffectNames()),
				"unknown effect %q", e)
		}
		effSet[en] = true
	}
	return &types.Type{
		Kind: types.KFunction, Params: params, ParamNames: names, Return: ret,
		Effects: effSet, BoundVars: f.TypeParams,
	}
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// ---- Pass 3: check bodies ----

func (c *Checker) checkBodies(mod *ast.Module) {
	for _, d := range mod.Declarations {
		switch decl := d.(type) {
		case *ast.Function:
			c.checkFunction(decl)
		case *ast.Const:
			t := c.checkExpr(decl.Value)
			if decl.Type != nil {
				want := c.resolveTypeExpr(decl.Type)
				if !types.Equal(want, t) {
					c.errorf(decl.Sp, diag.KindTypeMismatch, "",
						"const %q declared as %s but initializer has type %s", decl.Name, want, t)
				}
			} else {
				decl.ResolvedType = t
			}
		}
	}
}

func (c *Checker) checkFunction(f *ast.Function) {
	c.env.Push()
	defer c.env.Pop()

	ft := f.ResolvedType.(*types.Type)
	for i, p := range f.Params {
		c.env.Define(p.Name, ft.Params[i], false)
	}

	prevEffects, prevFunc := c.currentEffects, c.currentFunc
	c.currentEffects = ft.Effects
	c.currentFunc = f.Name
	defer func() { c.currentEffects, c.currentFunc = prevEffects, prevFunc }()

	bodyType := c.checkBlock(f.Body, ft.Return)
	// A bare `None` (Option of a fresh type variable) takes its element
	// type from the declared return type.
	if bodyType != nil && ft.Return != nil && bodyType.Kind == types.KOption && bodyType.Elem != nil &&
		bodyType.Elem.Kind == types.KTypeVar && ft.Return.Kind == types.KOption {
		bodyType = ft.Return
		f.Body.SetResolvedType(bodyType)
	}
	if !types.Equal(bodyType, ft.Return) {
		c.errorf(f.Sp, diag.KindTypeMismatch, "",
			"function %q returns %s but body has type %s", f.Name, ft.Return, bodyType)
	}
}
