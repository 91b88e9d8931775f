package codegen

import (
	"fmt"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/types"
	"github.com/clarity-lang/clarity/wasm"
)

// enterCtrl/exitCtrl track nesting depth between the function's outer
// self-tail-call loop and the instruction currently being emitted, so a
// tail call found inside a match arm's nested if/else chain branches to
// the correct relative label (spec.md §4.4: "self-tail calls compile to
// a loop, not stack growth").
func (fc *fn) enterCtrl() { fc.curDepth++ }
func (fc *fn) exitCtrl()  { fc.curDepth-- }

func (fc *fn) compileBlock(b *ast.Block, tail bool) error {
	for _, stmt := range b.Stmts {
		if err := fc.compileStmt(stmt); err != nil {
			return err
		}
	}
	if b.Result == nil {
		return nil
	}
	return fc.compileExpr(b.Result, tail)
}

func (fc *fn) compileStmt(s ast.Stmt) error {
	switch stmt := s.(type) {
	case *ast.LetStmt:
		if err := fc.compileExpr(stmt.Value, false); err != nil {
			return err
		}
		fc.emitLocalSet(fc.locals[stmt.Name])
		return nil
	case *ast.AssignStmt:
		if err := fc.compileExpr(stmt.Value, false); err != nil {
			return err
		}
		fc.emitLocalSet(fc.locals[stmt.Name])
		return nil
	case *ast.ExprStmt:
		if err := fc.compileExpr(stmt.X, false); err != nil {
			return err
		}
		// Expression statements are evaluated for effect; their Unit
		// result is dropped rather than threaded onward.
		fc.code.WriteByte(wasm.OpDrop)
		return nil
	}
	return fmt.Errorf("codegen: unhandled statement %T", s)
}

// compileExpr emits n's value onto the stack. tail indicates n sits in
// tail position of its enclosing function body — only relevant to
// CallExpr (self-tail rewriting) and the recursive forms (Block,
// MatchExpr arm bodies) that can contain one.
func (fc *fn) compileExpr(e ast.Expr, tail bool) error {
	switch n := e.(type) {
	case *ast.IntLit:
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(n.Value))
		return nil
	case *ast.FloatLit:
		return fc.emitFloatConst(n.Value)
	case *ast.BoolLit:
		v := int64(0)
		if n.Value {
			v = 1
		}
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(v))
		return nil
	case *ast.StringLit:
		return fc.emitStringConst(n.Value)
	case *ast.Ident:
		return fc.emitIdentLoad(n.Name)
	case *ast.UnaryExpr:
		return fc.compileUnary(n)
	case *ast.BinaryExpr:
		return fc.compileBinary(n)
	case *ast.CallExpr:
		return fc.compileCall(n, tail)
	case *ast.MemberExpr:
		return fc.compileMember(n)
	case *ast.ListLit:
		return fc.compileListLit(n)
	case *ast.RecordLit:
		return fc.compileRecordLit(n)
	case *ast.Block:
		return fc.compileBlock(n, tail)
	case *ast.MatchExpr:
		return fc.compileMatch(n, tail)
	case *ast.LambdaExpr:
		return fc.emitFuncRef(n)
	}
	return fmt.Errorf("codegen: unhandled expression %T", e)
}

func (fc *fn) emitLocalSet(idx uint32) {
	fc.code.WriteByte(wasm.OpLocalSet)
	wasm.WriteLEB128u(&fc.code, idx)
}

func (fc *fn) emitLocalGet(idx uint32) {
	fc.code.WriteByte(wasm.OpLocalGet)
	wasm.WriteLEB128u(&fc.code, idx)
}

func (fc *fn) emitFloatConst(v float64) error {
	// Floats cross the ABI boundary as the i64 bit pattern of their f64
	// representation (see valTypeOf in codegen.go), so a literal is
	// pushed as f64.const then immediately reinterpreted to i64.
	fc.code.WriteByte(wasm.OpF64Const)
	wasm.WriteFloat64(&fc.code, v)
	fc.code.WriteByte(wasm.OpI64ReinterpretF64)
	return nil
}

func (fc *fn) emitStringConst(s string) error {
	ptr, length := fc.g.internStringData(s)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(packPtrLen(ptr, length)))
	return nil
}

// packPtrLen packs a (ptr,len) pair into a single i64 the way the header
// hostabi.StringInterner builds: high 32 bits ptr, low 32 bits length —
// keeping strings a single i64 word at the ABI boundary like every other
// Clarity value, instead of a two-word pair that would need a different
// call-signature shape per argument.
func packPtrLen(ptr, length uint32) int64 {
	return int64(uint64(ptr)<<32 | uint64(length))
}

func (fc *fn) emitIdentLoad(name string) error {
	if idx, ok := fc.locals[name]; ok {
		fc.emitLocalGet(idx)
		return nil
	}
	if idx, ok := fc.g.funcIndex[name]; ok {
		// Bare reference to a function name used as a value: push its
		// table slot index as an opaque i64 function reference.
		slot := fc.g.tableSlotFor(idx)
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(int64(slot)))
		return nil
	}
	return fmt.Errorf("codegen: unresolved identifier %q", name)
}

func (fc *fn) compileUnary(n *ast.UnaryExpr) error {
	operandType, _ := n.Operand.GetResolvedType().(*types.Type)
	isFloat := operandType != nil && operandType.Kind == types.KFloat64

	switch n.Op {
	case "-":
		if isFloat {
			if err := fc.compileExpr(n.Operand, false); err != nil {
				return err
			}
			fc.code.WriteByte(wasm.OpF64ReinterpretI64)
			fc.code.WriteByte(wasm.OpF64Neg)
			fc.code.WriteByte(wasm.OpI64ReinterpretF64)
			return nil
		}
		// 0 - x: push the constant first so operand order on the stack
		// matches i64.sub's (a, b) -> a - b without needing a swap.
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(0))
		if err := fc.compileExpr(n.Operand, false); err != nil {
			return err
		}
		fc.code.WriteByte(wasm.OpI64Sub)
		return nil
	case "!":
		if err := fc.compileExpr(n.Operand, false); err != nil {
			return err
		}
		fc.code.WriteByte(wasm.OpI32WrapI64)
		fc.code.WriteByte(wasm.OpI32Eqz)
		fc.code.WriteByte(wasm.OpI64ExtendI32U)
		return nil
	}
	return fmt.Errorf("codegen: unknown unary operator %q", n.Op)
}

func (fc *fn) compileBinary(n *ast.BinaryExpr) error {
	leftType, _ := n.Left.GetResolvedType().(*types.Type)
	isFloat := leftType != nil && leftType.Kind == types.KFloat64

	if n.Op == "++" {
		return fc.compileStringConcat(n)
	}
	if n.Op == "&&" || n.Op == "||" {
		return fc.compileShortCircuit(n)
	}

	if err := fc.compileExpr(n.Left, false); err != nil {
		return err
	}
	if isFloat {
		fc.code.WriteByte(wasm.OpF64ReinterpretI64)
	}
	if err := fc.compileExpr(n.Right, false); err != nil {
		return err
	}
	if isFloat {
		fc.code.WriteByte(wasm.OpF64ReinterpretI64)
	}

	op, resultIsBool, err := binaryOpcode(n.Op, isFloat)
	if err != nil {
		return err
	}
	fc.code.WriteByte(op)
	if isFloat && !resultIsBool {
		fc.code.WriteByte(wasm.OpI64ReinterpretF64)
	} else if resultIsBool {
		fc.code.WriteByte(wasm.OpI64ExtendI32U)
	}
	return nil
}

func binaryOpcode(op string, isFloat bool) (byte, bool, error) {
	if isFloat {
		switch op {
		case "+":
			return wasm.OpF64Add, false, nil
		case "-":
			return wasm.OpF64Sub, false, nil
		case "*":
			return wasm.OpF64Mul, false, nil
		case "/":
			return wasm.OpF64Div, false, nil
		case "==":
			return wasm.OpF64Eq, true, nil
		case "!=":
			return wasm.OpF64Ne, true, nil
		case "<":
			return wasm.OpF64Lt, true, nil
		case "<=":
			return wasm.OpF64Le, true, nil
		case ">":
			return wasm.OpF64Gt, true, nil
		case ">=":
			return wasm.OpF64Ge, true, nil
		}
		return 0, false, fmt.Errorf("codegen: unknown float operator %q", op)
	}
	switch op {
	case "+":
		return wasm.OpI64Add, false, nil
	case "-":
		return wasm.OpI64Sub, false, nil
	case "*":
		return wasm.OpI64Mul, false, nil
	case "/":
		return wasm.OpI64DivS, false, nil
	case "%":
		return wasm.OpI64RemS, false, nil
	case "==":
		return wasm.OpI64Eq, true, nil
	case "!=":
		return wasm.OpI64Ne, true, nil
	case "<":
		return wasm.OpI64LtS, true, nil
	case "<=":
		return wasm.OpI64LeS, true, nil
	case ">":
		return wasm.OpI64GtS, true, nil
	case ">=":
		return wasm.OpI64GeS, true, nil
	}
	return 0, false, fmt.Errorf("codegen: unknown integer operator %q", op)
}

func (fc *fn) compileShortCircuit(n *ast.BinaryExpr) error {
	if err := fc.compileExpr(n.Left, false); err != nil {
		return err
	}
	fc.code.WriteByte(wasm.OpI32WrapI64)
	fc.code.WriteByte(wasm.OpIf)
	fc.code.WriteByte(byte(blockTypeOf(wasm.ValI64)))
	fc.enterCtrl()
	if n.Op == "&&" {
		if err := fc.compileExpr(n.Right, false); err != nil {
			return err
		}
	} else {
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(1))
	}
	fc.exitCtrl()
	fc.code.WriteByte(wasm.OpElse)
	fc.enterCtrl()
	if n.Op == "&&" {
		fc.code.WriteByte(wasm.OpI64Const)
		fc.code.Write(wasm.EncodeLEB128s64(0))
	} else {
		if err := fc.compileExpr(n.Right, false); err != nil {
			return err
		}
	}
	fc.exitCtrl()
	fc.code.WriteByte(wasm.OpEnd)
	return nil
}

func (fc *fn) compileStringConcat(n *ast.BinaryExpr) error {
	if err := fc.compileExpr(n.Left, false); err != nil {
		return err
	}
	if err := fc.compileExpr(n.Right, false); err != nil {
		return err
	}
	return fc.callImport("string_concat")
}

func (fc *fn) compileMember(n *ast.MemberExpr) error {
	recType, _ := n.Receiver.GetResolvedType().(*types.Type)
	if err := fc.compileExpr(n.Receiver, false); err != nil {
		return err
	}
	if recType == nil || recType.Kind != types.KRecord {
		return fmt.Errorf("codegen: member access on non-record type")
	}
	offset := uint32(0)
	for _, f := range recType.Fields {
		if f.Name == n.Name {
			return fc.emitLoadAtOffset(offset)
		}
		offset += fieldWidth(f.Type)
	}
	return fmt.Errorf("codegen: record %s has no field %q", recType.Name, n.Name)
}

// emitLoadAtOffset loads the i64 word stored offset bytes into the
// record whose base pointer is already on the stack as an i64 (its low
// 32 bits are the linear-memory address).
func (fc *fn) emitLoadAtOffset(offset uint32) error {
	fc.code.WriteByte(wasm.OpI32WrapI64)
	fc.code.WriteByte(wasm.OpI64Load)
	wasm.WriteLEB128u(&fc.code, 3) // align = 8 bytes
	wasm.WriteLEB128u(&fc.code, offset)
	return nil
}

func fieldWidth(t *types.Type) uint32 {
	// Every field is one 64-bit word at this ABI's flat record layout
	// (spec.md §9's Open Question on record layout resolved as "flat,
	// word-per-field" — see DESIGN.md), which sidesteps needing
	// per-primitive-size packing rules for a first implementation.
	_ = t
	return 8
}

// compileListLit allocates a flat array of one i64 word per element
// (every Clarity value is a uniform i64 word — see valTypeOf in
// codegen.go) via the mem_alloc host import, stores each evaluated
// element at its offset, and leaves the list packed as a single i64 word
// (high 32 bits base pointer, low 32 bits element count) matching
// hostabi.Lists's (ptr, len, elemSize=8) contract.
func (fc *fn) compileListLit(n *ast.ListLit) error {
	ptrLocal := fc.newLocal(fc.tempName())
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(int64(len(n.Elements)) * 8))
	if err := fc.callImport("mem_alloc"); err != nil {
		return err
	}
	fc.emitLocalSet(ptrLocal)
	for i, el := range n.Elements {
		fc.emitLocalGet(ptrLocal)
		fc.code.WriteByte(wasm.OpI32WrapI64)
		if err := fc.compileExpr(el, false); err != nil {
			return err
		}
		fc.code.WriteByte(wasm.OpI64Store)
		wasm.WriteLEB128u(&fc.code, 3)
		wasm.WriteLEB128u(&fc.code, uint32(i*8))
	}
	return fc.emitPackPtrCount(ptrLocal, uint32(len(n.Elements)))
}

// compileRecordLit lays fields out flat, one i64 word each (fieldWidth),
// in declaration order, and leaves the record as a bare i64 pointer —
// records have no length word, unlike lists/strings, since field access
// is by static offset rather than a runtime count.
func (fc *fn) compileRecordLit(n *ast.RecordLit) error {
	ptrLocal := fc.newLocal(fc.tempName())
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(int64(len(n.Fields)) * 8))
	if err := fc.callImport("mem_alloc"); err != nil {
		return err
	}
	fc.emitLocalSet(ptrLocal)
	offset := uint32(0)
	for _, f := range n.Fields {
		fc.emitLocalGet(ptrLocal)
		fc.code.WriteByte(wasm.OpI32WrapI64)
		if err := fc.compileExpr(f.Value, false); err != nil {
			return err
		}
		fc.code.WriteByte(wasm.OpI64Store)
		wasm.WriteLEB128u(&fc.code, 3)
		wasm.WriteLEB128u(&fc.code, offset)
		offset += 8
	}
	fc.emitLocalGet(ptrLocal)
	return nil
}

// emitPackPtrCount packs ptrLocal's i64 value (only its low 32 bits are a
// real address) and count into one word the same way packPtrLen does at
// compile time for string literals.
func (fc *fn) emitPackPtrCount(ptrLocal uint32, count uint32) error {
	fc.emitLocalGet(ptrLocal)
	fc.code.WriteByte(wasm.OpI32WrapI64)
	fc.code.WriteByte(wasm.OpI64ExtendI32U)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(32))
	fc.code.WriteByte(wasm.OpI64Shl)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(int64(count)))
	fc.code.WriteByte(wasm.OpI64Or)
	return nil
}

func (fc *fn) emitFuncRef(n *ast.LambdaExpr) error {
	idx, ok := fc.g.lambdaFuncIndex[n]
	if !ok {
		return fmt.Errorf("codegen: lambda was not pre-registered")
	}
	slot := fc.g.tableSlotFor(idx)
	fc.code.WriteByte(wasm.OpI64Const)
	fc.code.Write(wasm.EncodeLEB128s64(int64(slot)))
	return nil
}

