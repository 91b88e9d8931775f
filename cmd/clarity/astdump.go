package main

import (
	"fmt"
	"strings"

	"github.com/clarity-lang/clarity/ast"
)

// dumpModule renders a `clarity compile --emit-ast` summary: one line per
// top-level declaration naming its shape and signature. The AST is a data
// model, not an API (spec.md §1), and the driver that inspects it is an
// external collaborator specified only at its interface (spec.md §1), so
// this stays a declaration-level summary rather than a full expression
// dump — enough to confirm parsing shape without re-implementing a
// pretty-printer for every expression/pattern node.
func dumpModule(mod *ast.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", mod.Name)
	for _, d := range mod.Declarations {
		dumpDecl(&b, d)
	}
	return b.String()
}

func dumpDecl(b *strings.Builder, d ast.Decl) {
	switch n := d.(type) {
	case *ast.Import:
		fmt.Fprintf(b, "import {%s} from %s\n", strings.Join(n.Names, ", "), n.From)
	case *ast.TypeDecl:
		fmt.Fprintf(b, "type %s%s\n", n.Name, typeParams(n.TypeParams))
	case *ast.Function:
		fmt.Fprintf(b, "function %s%s(%s) -> %s%s %s\n",
			n.Name, typeParams(n.TypeParams), paramList(n.Params), typeExprStr(n.ReturnType),
			effectsStr(n.Effects), blockSummary(n.Body))
	case *ast.Const:
		fmt.Fprintf(b, "const %s: %s\n", n.Name, typeExprStr(n.Type))
	default:
		fmt.Fprintf(b, "<unknown decl %T>\n", d)
	}
}

func typeParams(ps []string) string {
	if len(ps) == 0 {
		return ""
	}
	return "<" + strings.Join(ps, ", ") + ">"
}

func paramList(ps []ast.Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Name + ": " + typeExprStr(p.Type)
	}
	return strings.Join(parts, ", ")
}

func effectsStr(effects []string) string {
	if len(effects) == 0 {
		return ""
	}
	return " effect[" + strings.Join(effects, ", ") + "]"
}

func typeExprStr(te *ast.TypeExpr) string {
	if te == nil {
		return "Unit"
	}
	if len(te.Args) == 0 {
		return te.Name
	}
	parts := make([]string, len(te.Args))
	for i, a := range te.Args {
		parts[i] = typeExprStr(a)
	}
	return te.Name + "<" + strings.Join(parts, ", ") + ">"
}

func blockSummary(blk *ast.Block) string {
	if blk == nil {
		return "{}"
	}
	tail := "Unit"
	if blk.Result != nil {
		tail = "<result>"
	}
	return fmt.Sprintf("{ %d stmt(s), tail=%s }", len(blk.Stmts), tail)
}
