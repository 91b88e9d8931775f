package codegen

import (
	"fmt"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/types"
	"github.com/clarity-lang/clarity/wasm"
)

// compileMatch lowers a match expression to a chain of nested WASM `if`
// blocks, one per arm, each producing the same i64-shaped value as the
// rest of the function (spec.md §4.4.4). The checker has already proven
// every arm's pattern type-checks and the whole match is exhaustive, so
// the only arm this codegen ever falls through without a match is a
// final `unreachable` — a trap the checker's exhaustiveness pass is
// supposed to make unreachable in practice (checker/exhaustive.go).
func (fc *fn) compileMatch(n *ast.MatchExpr, tail bool) error {
	scrutType, _ := n.Scrutinee.GetResolvedType().(*types.Type)
	scrutLocal := fc.newLocal(fc.tempName())
	if err := fc.compileExpr(n.Scrutinee, false); err != nil {
		return err
	}
	fc.emitLocalSet(scrutLocal)
	// Trap on a tag word outside the declared variant range.
	if scrutType != nil && (scrutType.Kind == types.KUnion || scrutType.Kind == types.KOption || scrutType.Kind == types.KResult) && len(scrutType.Variants) > 0 {
		fc.emitLocalGet(scrutLocal)
		fc.code.WriteByte(wasm.OpI32WrapI64)
		fc.code.WriteByte(wasm.OpI64Load)
		wasm.WriteLEB128u(&fc.code, 3)
		wasm.WriteLEB128u(&fc.code, 0)
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(int64(len(scrutType.Variants))))
		fc.code.WriteByte(wasm.OpI64GeU)
		fc.code.WriteByte(wasm.OpIf)
		fc.code.WriteByte(byte(wasm.BlockTypeVoid))
		fc.code.WriteByte(wasm.OpUnreachable)
		fc.code.WriteByte(wasm.OpEnd)
	}
	return fc.compileMatchArms(n.Arms, 0, scrutLocal, scrutType, tail)
}

func (fc *fn) compileMatchArms(arms []ast.MatchArm, i int, scrutLocal uint32, scrutType *types.Type, tail bool) error {
	if i >= len(arms) {
		fc.code.WriteByte(wasm.OpUnreachable)
		return nil
	}
	arm := arms[i]
	next := func() error { return fc.compileMatchArms(arms, i+1, scrutLocal, scrutType, tail) }

	onMatch := func() error { return fc.compileExpr(arm.Body, tail) }
	if arm.Guard != nil {
		onMatch = func() error { return fc.compileGuardedArm(arm, next, tail) }
	}
	return fc.compilePatternMatch(arm.Pattern, scrutLocal, scrutType, onMatch, next)
}

// compileGuardedArm evaluates a matched arm's guard and, only if it holds,
// runs the arm's body; otherwise falls through exactly as a pattern
// mismatch would, trying the remaining arms (spec.md §4.4.4: "a guard
// that fails tries the next arm, not the next guard on the same
// pattern").
func (fc *fn) compileGuardedArm(arm ast.MatchArm, onFalse func() error, tail bool) error {
	if err := fc.compileExpr(arm.Guard, false); err != nil {
		return err
	}
	fc.code.WriteByte(wasm.OpI32WrapI64)
	return fc.emitIfElse(
		func() error { return fc.compileExpr(arm.Body, tail) },
		onFalse,
	)
}

// compilePatternMatch emits code that tests pat against the i64 value
// held in valueLocal (of static type valueType), running onMatch with
// every binding pat introduces already stored into its local, or
// onMismatch if pat does not match. Both callbacks must leave exactly
// one i64 value on the stack, the shape every nested `if` here shares.
func (fc *fn) compilePatternMatch(pat ast.Pattern, valueLocal uint32, valueType *types.Type, onMatch, onMismatch func() error) error {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return onMatch()
	case *ast.BindingPattern:
		fc.emitLocalGet(valueLocal)
		fc.emitLocalSet(fc.locals[p.Name])
		return onMatch()
	case *ast.LiteralPattern:
		return fc.compileLiteralTest(p, valueLocal, onMatch, onMismatch)
	case *ast.RangePattern:
		return fc.compileRangeTest(p, valueLocal, onMatch, onMismatch)
	case *ast.ConstructorPattern:
		return fc.compileConstructorTest(p, valueLocal, valueType, onMatch, onMismatch)
	}
	return fmt.Errorf("codegen: unhandled pattern %T", pat)
}

func (fc *fn) compileLiteralTest(p *ast.LiteralPattern, valueLocal uint32, onMatch, onMismatch func() error) error {
	switch v := p.Value.(type) {
	case bool:
		want := int64(0)
		if v {
			want = 1
		}
		fc.emitLocalGet(valueLocal)
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(want))
		fc.code.WriteByte(wasm.OpI64Eq)
	case int64:
		fc.emitLocalGet(valueLocal)
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(v))
		fc.code.WriteByte(wasm.OpI64Eq)
	case float64:
		fc.emitLocalGet(valueLocal)
		fc.code.WriteByte(wasm.OpF64ReinterpretI64)
		fc.code.WriteByte(wasm.OpF64Const)
		wasm.WriteFloat64(&fc.code, v)
		fc.code.WriteByte(wasm.OpF64Eq)
	case string:
		fc.emitLocalGet(valueLocal)
		ptr, length := fc.g.internStringData(v)
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(packPtrLen(ptr, length)))
		if err := fc.callImport("string_eq"); err != nil {
			return err
		}
		fc.code.WriteByte(wasm.OpI32WrapI64)
	default:
		return fmt.Errorf("codegen: unsupported literal pattern value %T", p.Value)
	}
	return fc.emitIfElse(onMatch, onMismatch)
}

func (fc *fn) compileRangeTest(p *ast.RangePattern, valueLocal uint32, onMatch, onMismatch func() error) error {
	fc.emitLocalGet(valueLocal)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(p.Lo))
	fc.code.WriteByte(wasm.OpI64GeS)
	fc.emitLocalGet(valueLocal)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(p.Hi))
	fc.code.WriteByte(wasm.OpI64LeS)
	fc.code.WriteByte(wasm.OpI32And)
	return fc.emitIfElse(onMatch, onMismatch)
}

// compileConstructorTest matches a union-like scrutinee (a tagged pointer:
// see compileTaggedCtor) against one named variant, then on a tag match
// tests each field sub-pattern against the field's loaded word in turn.
// A tag mismatch and a field sub-pattern mismatch both fall through to
// the identical onMismatch — correct because neither is "this arm
// partially matched", just "this arm did not match" (spec.md §4.4.4).
func (fc *fn) compileConstructorTest(p *ast.ConstructorPattern, valueLocal uint32, valueType *types.Type, onMatch, onMismatch func() error) error {
	if valueType == nil || (valueType.Kind != types.KUnion && valueType.Kind != types.KOption && valueType.Kind != types.KResult) {
		return fmt.Errorf("codegen: constructor pattern %q against non-union scrutinee", p.Name)
	}
	variant, ok := lookupVariant(valueType, p.Name)
	if !ok {
		return fmt.Errorf("codegen: %s has no variant %q", valueType, p.Name)
	}

	fc.emitLocalGet(valueLocal)
	fc.code.WriteByte(wasm.OpI32WrapI64)
	fc.code.WriteByte(wasm.OpI64Load)
	wasm.WriteLEB128u(&fc.code, 3)
	wasm.WriteLEB128u(&fc.code, 0)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(int64(variant.Index)))
	fc.code.WriteByte(wasm.OpI64Eq)

	return fc.emitIfElse(
		func() error { return fc.compileConstructorFields(p.Fields, variant, valueLocal, 0, onMatch, onMismatch) },
		onMismatch,
	)
}

func lookupVariant(t *types.Type, name string) (types.Variant, bool) {
	for _, v := range t.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return types.Variant{}, false
}

// compileConstructorFields walks a constructor pattern's field
// sub-patterns in turn (positional or named, matching checker.
// bindConstructorPattern's own resolution), loading each field's word out
// of the tagged value at valueLocal and recursively testing it before
// moving to the next field. Reaching the end of the list means every
// field sub-pattern matched, so onMatch runs with all bindings in place.
func (fc *fn) compileConstructorFields(fields []ast.FieldPattern, variant types.Variant, ptrLocal uint32, idx int, onMatch, onMismatch func() error) error {
	if idx >= len(fields) {
		return onMatch()
	}
	named := fieldPatternsAreNamed(fields)
	fp := fields[idx]
	fieldIdx := idx
	if named {
		fieldIdx = fieldIndexByName(variant.Fields, fp.Name)
	}
	if fieldIdx < 0 || fieldIdx >= len(variant.Fields) {
		return fmt.Errorf("codegen: %s.%s has no field %q", variant.Name, variant.Name, fp.Name)
	}

	fieldLocal := fc.newLocal(fc.tempName())
	fc.emitLocalGet(ptrLocal)
	fc.code.WriteByte(wasm.OpI32WrapI64)
	fc.code.WriteByte(wasm.OpI64Load)
	wasm.WriteLEB128u(&fc.code, 3)
	wasm.WriteLEB128u(&fc.code, uint32((1+fieldIdx)*8))
	fc.emitLocalSet(fieldLocal)

	return fc.compilePatternMatch(fp.Pattern, fieldLocal, variant.Fields[fieldIdx].Type,
		func() error {
			return fc.compileConstructorFields(fields, variant, ptrLocal, idx+1, onMatch, onMismatch)
		},
		onMismatch,
	)
}

func fieldPatternsAreNamed(fields []ast.FieldPattern) bool {
	for _, f := range fields {
		if f.Name != "" {
			return true
		}
	}
	return false
}

func fieldIndexByName(fields []types.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// emitIfElse wraps onMatch/onMismatch in a WASM if/else whose condition is
// the i32 already on the stack, both arms typed to produce one i64 (every
// Clarity value's uniform ABI shape).
func (fc *fn) emitIfElse(onMatch, onMismatch func() error) error {
	fc.code.WriteByte(wasm.OpIf)
	fc.code.WriteByte(byte(blockTypeOf(wasm.ValI64)))
	fc.enterCtrl()
	if err := onMatch(); err != nil {
		return err
	}
	fc.exitCtrl()
	fc.code.WriteByte(wasm.OpElse)
	fc.enterCtrl()
	if err := onMismatch(); err != nil {
		return err
	}
	fc.exitCtrl()
	fc.code.WriteByte(wasm.OpEnd)
	return nil
}
