package codegen

import (
	"fmt"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/types"
	"github.com/clarity-lang/clarity/wasm"
)

// compileCall lowers one call expression. The callee name (if the callee
// is a bare identifier) decides which of the four call shapes applies,
// mirroring checker.inferCall's dispatch: an Option/Result intrinsic
// constructor, a user union variant constructor, a declared
// function/builtin (direct call, or the self-tail-call rewrite when tail
// is true and the callee is this same function), or a function-typed
// value (call_indirect through the shared table).
func (fc *fn) compileCall(n *ast.CallExpr, tail bool) error {
	name, isIdent := calleeNameOf(n.Callee)
	if isIdent {
		switch name {
		case "Some":
			return fc.compileTaggedCtor(n, 0)
		case "None":
			return fc.compileTaggedCtor(n, 1)
		case "Ok":
			return fc.compileTaggedCtor(n, 0)
		case "Err":
			return fc.compileTaggedCtor(n, 1)
		}
		if variant, ok := fc.g.lookupVariant(name); ok {
			return fc.compileTaggedCtor(n, uint32(variant.Index))
		}
		if tail && fc.hasTailLoop && name == fc.name {
			return fc.compileSelfTailCall(n)
		}
		if cb, ok := builtinCompilers[name]; ok {
			return cb(fc, n)
		}
		if idx, ok := fc.g.funcIndex[name]; ok {
			if tail && name != fc.name {
				// spec.md §9: "Mutual-recursion TCO: document as
				// unsupported; emit a compile-time warning when a
				// non-self call is in tail position." Only the
				// call-to-self rewrite above turns into a loop; any
				// other tail call, mutually recursive or not, still
				// grows the WASM call stack one frame per call.
				fc.g.diags.Addf(diag.PhaseCodegen, diag.KindUnsupportedTCO, diag.Warning, n.Span(),
					"rewrite as a self-recursive loop, or accept bounded recursion depth",
					"tail call to %q is not stack-eliminated: only direct self-recursion is optimized", name)
			}
			return fc.compileDirectCall(n, idx)
		}
	}
	return fc.compileIndirectCall(n)
}

// lookupVariant finds a registered union variant by constructor name,
// across every user-declared union (Option/Some/None and Result/Ok/Err
// are handled separately above since they are checker intrinsics with no
// registry entry of their own — spec.md §4.3.3).
func (g *Generator) lookupVariant(name string) (types.Variant, bool) {
	for _, un := range g.registry.AllUnions() {
		for _, v := range un.Variants {
			if v.Name == name {
				return v, true
			}
		}
	}
	return types.Variant{}, false
}

// compileTaggedCtor allocates a [tag][field...] record (spec.md §4.4.1)
// and leaves its bare pointer, widened to i64, on the stack. Every
// argument occupies one 8-byte word, matching the flat per-field layout
// compileRecordLit already uses.
func (fc *fn) compileTaggedCtor(n *ast.CallExpr, tag uint32) error {
	ptrLocal := fc.newLocal(fc.tempName())
	size := int64(1+len(n.Args)) * 8
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(size))
	if err := fc.callImport("mem_alloc"); err != nil {
		return err
	}
	fc.emitLocalSet(ptrLocal)

	fc.emitLocalGet(ptrLocal)
	fc.code.WriteByte(wasm.OpI32WrapI64)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(int64(tag)))
	fc.code.WriteByte(wasm.OpI64Store)
	wasm.WriteLEB128u(&fc.code, 3)
	wasm.WriteLEB128u(&fc.code, 0)

	for i, a := range n.Args {
		fc.emitLocalGet(ptrLocal)
		fc.code.WriteByte(wasm.OpI32WrapI64)
		if err := fc.compileExpr(a.Value, false); err != nil {
			return err
		}
		fc.code.WriteByte(wasm.OpI64Store)
		wasm.WriteLEB128u(&fc.code, 3)
		wasm.WriteLEB128u(&fc.code, uint32((1+i)*8))
	}
	fc.emitLocalGet(ptrLocal)
	return nil
}

// compileSelfTailCall evaluates every argument into a scratch local
// first (so an argument expression referencing an earlier parameter —
// `fact(n-1, n*acc)` — reads the old value, not one already overwritten),
// then rebinds the parameter locals and branches back to the function's
// outer loop instead of emitting a real `call` (spec.md §4.4.5).
func (fc *fn) compileSelfTailCall(n *ast.CallExpr) error {
	temps := make([]uint32, len(n.Args))
	for i, a := range n.Args {
		if err := fc.compileExpr(a.Value, false); err != nil {
			return err
		}
		t := fc.newLocal(fc.tempName())
		fc.emitLocalSet(t)
		temps[i] = t
	}
	for i, t := range temps {
		fc.emitLocalGet(t)
		fc.emitLocalSet(uint32(i))
	}
	fc.code.WriteByte(wasm.OpBr)
	wasm.WriteLEB128u(&fc.code, uint32(fc.curDepth))
	return nil
}

func (fc *fn) compileDirectCall(n *ast.CallExpr, idx uint32) error {
	for _, a := range n.Args {
		if err := fc.compileExpr(a.Value, false); err != nil {
			return err
		}
	}
	fc.code.WriteByte(wasm.OpCall)
	wasm.WriteLEB128u(&fc.code, idx)
	return nil
}

// compileIndirectCall handles a callee that is a value (a lambda stored
// in a local, or a higher-order function parameter): every Clarity
// function value is a funcref table slot packed as a bare i64 (see
// emitFuncRef/emitIdentLoad), so the call goes through call_indirect
// against the shared table (spec.md §4.4.6).
func (fc *fn) compileIndirectCall(n *ast.CallExpr) error {
	for _, a := range n.Args {
		if err := fc.compileExpr(a.Value, false); err != nil {
			return err
		}
	}
	if err := fc.compileExpr(n.Callee, false); err != nil {
		return err
	}
	fc.code.WriteByte(wasm.OpI32WrapI64)

	sig := wasm.FuncType{Params: make([]wasm.ValType, len(n.Args)), Results: []wasm.ValType{wasm.ValI64}}
	for i := range sig.Params {
		sig.Params[i] = wasm.ValI64
	}
	typeIdx := fc.g.internFuncType(sig)

	fc.code.WriteByte(wasm.OpCallIndirect)
	wasm.WriteLEB128u(&fc.code, typeIdx)
	wasm.WriteLEB128u(&fc.code, 0) // table index 0, the only table
	return nil
}

func (fc *fn) callImport(name string) error {
	idx, ok := fc.g.importIdx["env."+name]
	if !ok {
		return fmt.Errorf("codegen: unregistered import %q", name)
	}
	fc.code.WriteByte(wasm.OpCall)
	wasm.WriteLEB128u(&fc.code, idx)
	return nil
}

// builtinCompilers maps a built-in's Clarity-level name to the
// instruction sequence that implements it. Most built-ins are a thin
// pass-through to a matching env.* host import (spec.md §4.5); length/
// head are pure bit arithmetic over the packed (ptr,len) list word and
// need no host round-trip at all.
type builtinCompiler func(fc *fn, n *ast.CallExpr) error

var builtinCompilers map[string]builtinCompiler

func init() {
	builtinCompilers = map[string]builtinCompiler{
		"print_string": passthroughImport("print_string"),
		"print_int":    passthroughImport("print_int"),
		"print_float":  passthroughImport("print_float"),
		"log_info":     passthroughImport("log_info"),
		"log_warn":     passthroughImport("log_warn"),

		"read_file":       passthroughImport("read_file"),
		"write_file":      passthroughImport("write_file"),
		"read_line":       passthroughImport("read_line"),
		"read_all_stdin":  passthroughImport("read_all_stdin"),

		"assert_eq":        passthroughImport("assert_eq"),
		"assert_eq_float":  passthroughImport("assert_eq_float"),
		"assert_eq_string": passthroughImport("assert_eq_string"),
		"assert_true":      passthroughImport("assert_true"),
		"assert_false":     passthroughImport("assert_false"),

		"now_ms":              passthroughImport("time_now"),
		"timestamp_to_string": passthroughImport("timestamp_to_string"),
		"string_to_timestamp": passthroughImport("string_to_timestamp"),
		"hash_sha256":         passthroughImport("sha256"),

		"string_eq":     passthroughImport("string_eq"),
		"string_length": passthroughImport("string_length"),
		"substring":     passthroughImport("substring"),
		"char_at":       passthroughImport("char_at"),
		"contains":      passthroughImport("contains"),
		"index_of":      passthroughImport("index_of"),
		"trim":          passthroughImport("trim"),
		"split":         passthroughImport("split"),
		"char_code":     passthroughImport("char_code"),
		"char_from_code": passthroughImport("char_from_code"),

		"int_to_float":    passthroughImport("int_to_float"),
		"float_to_int":    passthroughImport("float_to_int"),
		"int_to_string":   passthroughImport("int_to_string"),
		"float_to_string": passthroughImport("float_to_string"),
		"string_to_int":   passthroughImport("string_to_int"),
		"string_to_float": passthroughImport("string_to_float"),

		"abs_int": passthroughImport("abs_int"),
		"min_int": passthroughImport("min_int"),
		"max_int": passthroughImport("max_int"),
		"sqrt":    passthroughImport("sqrt"),
		"pow":     passthroughImport("pow"),
		"floor":   passthroughImport("floor"),
		"ceil":    passthroughImport("ceil"),
		"f64_rem": passthroughImport("f64_rem"),

		"length":  compileListLength,
		"head":    compileListHead,
		"tail":    passthroughImport("list_tail"),
		"append":  passthroughImport("list_append"),
		"reverse": passthroughImport("list_reverse"),
		"concat":  passthroughImport("list_concat"),
		"get":     passthroughImport("list_get"),
		"set":     passthroughImport("list_set"),

		"map_new":    passthroughImport("map_new"),
		"map_size":   passthroughImport("map_size"),
		"map_has":    passthroughImport("map_has"),
		"map_get":    passthroughImport("map_get"),
		"map_set":    passthroughImport("map_set"),
		"map_remove": passthroughImport("map_remove"),
		"map_keys":   passthroughImport("map_keys"),
		"map_values": passthroughImport("map_values"),

		"get_args": passthroughImport("get_args"),
		"exit":     passthroughImport("exit"),

		"random_int": passthroughImport("random_int64"),
		"fail":       passthroughImport("assert_fail"),
	}
}

func passthroughImport(hostName string) builtinCompiler {
	return func(fc *fn, n *ast.CallExpr) error {
		for _, a := range n.Args {
			if err := fc.compileExpr(a.Value, false); err != nil {
				return err
			}
		}
		return fc.callImport(hostName)
	}
}

// compileListLength reads the low 32 bits of the packed (ptr,len) word a
// list value carries (see emitPackPtrCount) without any host round-trip.
func compileListLength(fc *fn, n *ast.CallExpr) error {
	if err := fc.compileExpr(n.Args[0].Value, false); err != nil {
		return err
	}
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(0xFFFFFFFF))
	fc.code.WriteByte(wasm.OpI64And)
	return nil
}

// compileListHead traps on an empty list (spec.md §4.2: "traps if
// empty") instead of returning an Option, then loads the first element
// word at the list's base pointer (packed word's high 32 bits).
func compileListHead(fc *fn, n *ast.CallExpr) error {
	packed := fc.newLocal(fc.tempName())
	if err := fc.compileExpr(n.Args[0].Value, false); err != nil {
		return err
	}
	fc.emitLocalSet(packed)

	fc.emitLocalGet(packed)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(0xFFFFFFFF))
	fc.code.WriteByte(wasm.OpI64And)
	fc.code.WriteByte(wasm.OpI64Eqz)
	fc.code.WriteByte(wasm.OpIf)
	fc.code.WriteByte(byte(wasm.BlockTypeVoid))
	fc.code.WriteByte(wasm.OpUnreachable)
	fc.code.WriteByte(wasm.OpEnd)

	fc.emitLocalGet(packed)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(32))
	fc.code.WriteByte(wasm.OpI64ShrU)
	fc.code.WriteByte(wasm.OpI32WrapI64)
	fc.code.WriteByte(wasm.OpI64Load)
	wasm.WriteLEB128u(&fc.code, 3)
	wasm.WriteLEB128u(&fc.code, 0)
	return nil
}
