package codegen

import (
	"fmt"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/wasm"
)

// registerLambdas discovers every lambda expression in the module and
// compiles each into its own top-level function before any enclosing
// function body is compiled. ast.go documents LambdaExpr as lowering to
// a named function registered in the function table, never a closure
// carrying a captured environment, so a lambda's function index must
// already exist by the time an enclosing body reaches emitFuncRef.
func (g *Generator) registerLambdas() error {
	g.lambdaFuncIndex = make(map[*ast.LambdaExpr]uint32)
	var lambdas []*ast.LambdaExpr
	for _, d := range g.mod.Declarations {
		if f, ok := d.(*ast.Function); ok {
			collectLambdas(f.Body, &lambdas)
		}
	}
	for i, lam := range lambdas {
		name := fmt.Sprintf("$lambda%d", i)
		if err := g.compileLambda(name, lam); err != nil {
			return fmt.Errorf("codegen: lambda %d: %w", i, err)
		}
	}
	return nil
}

func collectLambdas(e ast.Expr, out *[]*ast.LambdaExpr) {
	switch n := e.(type) {
	case *ast.Block:
		for _, s := range n.Stmts {
			switch st := s.(type) {
			case *ast.LetStmt:
				collectLambdas(st.Value, out)
			case *ast.AssignStmt:
				collectLambdas(st.Value, out)
			case *ast.ExprStmt:
				collectLambdas(st.X, out)
			}
		}
		if n.Result != nil {
			collectLambdas(n.Result, out)
		}
	case *ast.BinaryExpr:
		collectLambdas(n.Left, out)
		collectLambdas(n.Right, out)
	case *ast.UnaryExpr:
		collectLambdas(n.Operand, out)
	case *ast.CallExpr:
		collectLambdas(n.Callee, out)
		for _, a := range n.Args {
			collectLambdas(a.Value, out)
		}
	case *ast.MemberExpr:
		collectLambdas(n.Receiver, out)
	case *ast.ListLit:
		for _, el := range n.Elements {
			collectLambdas(el, out)
		}
	case *ast.RecordLit:
		for _, fl := range n.Fields {
			collectLambdas(fl.Value, out)
		}
	case *ast.MatchExpr:
		collectLambdas(n.Scrutinee, out)
		for _, arm := range n.Arms {
			if arm.Guard != nil {
				collectLambdas(arm.Guard, out)
			}
			collectLambdas(arm.Body, out)
		}
	case *ast.LambdaExpr:
		*out = append(*out, n)
		collectLambdas(n.Body, out)
	}
}

// compileLambda lowers one lambda literal to a standalone function: its
// parameters and body get a fresh fn context exactly like a declared
// function, just with a synthesized `$lambdaN` name. The name joins
// g.funcNames, so build exports it like every declared function.
func (g *Generator) compileLambda(name string, lam *ast.LambdaExpr) error {
	paramCount := len(lam.ParamNames)
	sig := wasm.FuncType{
		Params:  make([]wasm.ValType, paramCount),
		Results: []wasm.ValType{wasm.ValI64},
	}
	for i := range sig.Params {
		sig.Params[i] = wasm.ValI64
	}
	typeIdx := g.internFuncType(sig)

	fc := &fn{g: g, name: name, locals: make(map[string]uint32)}
	for i, p := range lam.ParamNames {
		fc.locals[p] = uint32(i)
	}
	fc.numLocal = uint32(paramCount)
	fc.paramCount = uint32(paramCount)

	wrapped := &ast.Block{Result: lam.Body}
	preScanLocals(wrapped, fc)
	if err := fc.compileBlock(wrapped, true); err != nil {
		return err
	}
	fc.code.WriteByte(wasm.OpEnd)

	var localEntries []wasm.LocalEntry
	if extra := fc.numLocal - fc.paramCount; extra > 0 {
		localEntries = append(localEntries, wasm.LocalEntry{Count: extra, ValType: wasm.ValI64})
	}

	idx := uint32(len(g.imports) + len(g.funcNames))
	g.funcNames = append(g.funcNames, name)
	g.funcTypeIdx = append(g.funcTypeIdx, typeIdx)
	g.funcs = append(g.funcs, &wasm.FuncBody{Locals: localEntries, Code: fc.code.Bytes()})
	g.lambdaFuncIndex[lam] = idx
	return nil
}
