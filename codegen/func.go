package codegen

import (
	"bytes"
	"fmt"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/types"
	"github.com/clarity-lang/clarity/wasm"
)

// registerDataAndFuncIndices assigns every declared function a func index
// before any body is compiled, so mutually-recursive and forward-
// referenced calls resolve regardless of declaration order (the same
// two-pass shape the checker uses for signatures vs. bodies).
func (g *Generator) registerDataAndFuncIndices() {
	if g.heapBase < 8 {
		g.heapBase = 8 // matches hostabi.NewAllocator's reserved zero page
	}
	for _, d := range g.mod.Declarations {
		f, ok := d.(*ast.Function)
		if !ok {
			continue
		}
		idx := uint32(len(g.imports) + len(g.funcNames))
		g.funcIndex[f.Name] = idx
		g.funcNames = append(g.funcNames, f.Name)
	}
}

// compileAll compiles every declared function's body in turn.
func (g *Generator) compileAll() error {
	for _, d := range g.mod.Declarations {
		f, ok := d.(*ast.Function)
		if !ok {
			continue
		}
		if err := g.compileFunction(f); err != nil {
			return fmt.Errorf("codegen: function %q: %w", f.Name, err)
		}
	}
	return nil
}

// fn holds one function's in-progress compilation state: its local slot
// assignments and the growing instruction byte stream.
type fn struct {
	g        *Generator
	name     string
	locals   map[string]uint32 // name -> local index (params + lets + pattern bindings)
	numLocal uint32
	code     bytes.Buffer

	// hasTailLoop/paramCount support self-tail-call: when set, a tail call
	// to this function's own name compiles to "set params, branch to loop"
	// instead of a real `call`.
	hasTailLoop bool
	paramCount  uint32

	// curDepth counts structured control instructions (block/if/loop)
	// opened since the function's outer tail-call loop, so a tail call
	// found inside a nested match arm can `br` to the right relative
	// label depth instead of always assuming depth 1.
	curDepth int

	tempCounter int
}

// tempName returns a fresh, never-reused synthetic local name for values
// that need a scratch slot (e.g. a list literal's base pointer) but have
// no source-level binding of their own.
func (fc *fn) tempName() string {
	fc.tempCounter++
	return fmt.Sprintf("$tmp%d", fc.tempCounter)
}

func (g *Generator) compileFunction(f *ast.Function) error {
	ft := f.ResolvedType.(*types.Type)

	sig := wasm.FuncType{
		Params:  make([]wasm.ValType, len(ft.Params)),
		Results: []wasm.ValType{valTypeOf(ft.Return)},
	}
	for i := range ft.Params {
		sig.Params[i] = valTypeOf(ft.Params[i])
	}
	typeIdx := g.internFuncType(sig)

	fc := &fn{g: g, name: f.Name, locals: make(map[string]uint32)}
	for i, p := range f.Params {
		fc.locals[p.Name] = uint32(i)
	}
	fc.numLocal = uint32(len(f.Params))
	fc.paramCount = uint32(len(f.Params))
	fc.hasTailLoop = blockHasSelfTailCall(f.Body, f.Name)

	preScanLocals(f.Body, fc)

	if fc.hasTailLoop {
		fc.code.WriteByte(wasm.OpLoop)
		fc.code.WriteByte(byte(blockTypeOf(wasm.ValI64)))
	}
	if err := fc.compileBlock(f.Body, true); err != nil {
		return err
	}
	if fc.hasTailLoop {
		fc.code.WriteByte(wasm.OpEnd)
	}
	fc.code.WriteByte(wasm.OpEnd)

	localEntries := []wasm.LocalEntry{}
	if extra := fc.numLocal - fc.paramCount; extra > 0 {
		localEntries = append(localEntries, wasm.LocalEntry{Count: extra, ValType: wasm.ValI64})
	}

	g.funcTypeIdx = append(g.funcTypeIdx, typeIdx)
	g.funcs = append(g.funcs, &wasm.FuncBody{Locals: localEntries, Code: fc.code.Bytes()})
	return nil
}

// blockTypeOf converts a single-value block result type to the signed
// LEB128 block-type encoding WASM's structured control instructions use.
func blockTypeOf(v wasm.ValType) int32 {
	switch v {
	case wasm.ValI64:
		return wasm.BlockTypeI64
	case wasm.ValF64:
		return wasm.BlockTypeF64
	default:
		return wasm.BlockTypeI32
	}
}

// preScanLocals walks f's body once, assigning a local slot to every
// let-bound name and pattern-bound name before codegen emits any
// instructions — WASM requires every local declared up front.
func preScanLocals(b *ast.Block, fc *fn) {
	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			fc.newLocal(s.Name)
			preScanExpr(s.Value, fc)
		case *ast.AssignStmt:
			preScanExpr(s.Value, fc)
		case *ast.ExprStmt:
			preScanExpr(s.X, fc)
		}
	}
	if b.Result != nil {
		preScanExpr(b.Result, fc)
	}
}

func preScanExpr(e ast.Expr, fc *fn) {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		preScanExpr(n.Left, fc)
		preScanExpr(n.Right, fc)
	case *ast.UnaryExpr:
		preScanExpr(n.Operand, fc)
	case *ast.CallExpr:
		for _, a := range n.Args {
			preScanExpr(a.Value, fc)
		}
	case *ast.MemberExpr:
		preScanExpr(n.Receiver, fc)
	case *ast.ListLit:
		for _, el := range n.Elements {
			preScanExpr(el, fc)
		}
	case *ast.RecordLit:
		for _, fl := range n.Fields {
			preScanExpr(fl.Value, fc)
		}
	case *ast.Block:
		preScanLocals(n, fc)
	case *ast.MatchExpr:
		preScanExpr(n.Scrutinee, fc)
		for _, arm := range n.Arms {
			preScanPattern(arm.Pattern, fc)
			if arm.Guard != nil {
				preScanExpr(arm.Guard, fc)
			}
			preScanExpr(arm.Body, fc)
		}
	case *ast.LambdaExpr:
		// Lowered to its own top-level function with its own locals;
		// nothing to reserve in the enclosing function.
	}
}

func preScanPattern(p ast.Pattern, fc *fn) {
	switch pat := p.(type) {
	case *ast.BindingPattern:
		fc.newLocal(pat.Name)
	case *ast.ConstructorPattern:
		for _, f := range pat.Fields {
			preScanPattern(f.Pattern, fc)
		}
	}
}

func (fc *fn) newLocal(name string) uint32 {
	if idx, ok := fc.locals[name]; ok {
		return idx
	}
	idx := fc.numLocal
	fc.locals[name] = idx
	fc.numLocal++
	return idx
}

// blockHasSelfTailCall reports whether b's trailing result expression
// is, in tail position, a direct recursive call to funcName — the only
// shape this compiler rewrites into a loop (spec.md §4.4's "self-tail-
// call becomes a loop, not stack growth").
func blockHasSelfTailCall(b *ast.Block, funcName string) bool {
	if b.Result == nil {
		return false
	}
	return tailCallsSelf(b.Result, funcName)
}

func tailCallsSelf(e ast.Expr, funcName string) bool {
	switch n := e.(type) {
	case *ast.CallExpr:
		name, ok := calleeNameOf(n.Callee)
		return ok && name == funcName
	case *ast.MatchExpr:
		for _, arm := range n.Arms {
			if tailCallsSelf(arm.Body, funcName) {
				return true
			}
		}
		return false
	case *ast.Block:
		return blockHasSelfTailCall(n, funcName)
	default:
		return false
	}
}

func calleeNameOf(e ast.Expr) (string, bool) {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name, true
	}
	return "", false
}
