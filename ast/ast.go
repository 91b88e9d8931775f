// Package ast defines the Clarity abstract syntax tree. Nodes are a data
// model, not an API: the parser builds them, the checker mutates them in
// place to attach resolved types, and codegen reads them.
package ast

import "github.com/clarity-lang/clarity/token"

// Node is implemented by every AST node.
type Node interface {
	Span() token.Span
}

// TypeExpr is the syntactic form of a type reference as written in source,
// e.g. `List<Option<Int64>>` or `UserId`. The checker resolves a TypeExpr
// into a *types.Type; the resolution result is cached on ResolvedSlot by
// the checker (an interior-mutable annotation slot, per node, rather than
// a side table keyed by node identity).
type TypeExpr struct {
	ResolvedSlot any // set by checker; holds *types.Type, typed any to avoid an import cycle
	Name         string
	Args         []*TypeExpr
	// FuncParams and FuncReturn are set instead of Name/Args for a
	// function-type reference written `(T, U) -> V` (used to type a
	// higher-order parameter such as a callback passed to a generic
	// function); Name is empty in that case.
	FuncParams []*TypeExpr
	FuncReturn *TypeExpr
	Sp         token.Span
}

func (t *TypeExpr) Span() token.Span { return t.Sp }

// ---- Module & declarations ----

type Module struct {
	Name         string
	Declarations []Decl
	Sp           token.Span
}

func (m *Module) Span() token.Span { return m.Sp }

type Decl interface {
	Node
	declNode()
}

type Import struct {
	From  string
	Names []string
	Sp    token.Span
}

func (i *Import) Span() token.Span { return i.Sp }
func (*Import) declNode()          {}

// TypeDecl declares a record or union (including a transparent alias,
// which carries a Body with Kind == TypeAlias).
type TypeDecl struct {
	Name       string
	TypeParams []string
	Body       *TypeBody
	Exported   bool
	Sp         token.Span
}

func (t *TypeDecl) Span() token.Span { return t.Sp }
func (*TypeDecl) declNode()          {}

type TypeBodyKind int

const (
	TypeAlias TypeBodyKind = iota
	TypeRecordBody
	TypeUnionBody
)

type TypeBody struct {
	Alias    *TypeExpr          // TypeAlias
	Fields   []RecordFieldDecl  // TypeRecordBody
	Variants []UnionVariantDecl // TypeUnionBody
	Kind     TypeBodyKind
}

type RecordFieldDecl struct {
	Name string
	Type *TypeExpr
}

type UnionVariantDecl struct {
	Name   string
	Fields []RecordFieldDecl
}

type Param struct {
	Name string
	Type *TypeExpr
}

type Function struct {
	ResolvedType any // *types.Type, set by checker pass 2
	Name         string
	TypeParams   []string
	Params       []Param
	ReturnType   *TypeExpr
	Effects      []string
	Body         *Block
	Exported     bool
	Sp           token.Span
}

func (f *Function) Span() token.Span { return f.Sp }
func (*Function) declNode()          {}

type Const struct {
	ResolvedType any // *types.Type
	Name         string
	Type         *TypeExpr
	Value        Expr
	Exported     bool
	Sp           token.Span
}

func (c *Const) Span() token.Span { return c.Sp }
func (*Const) declNode()          {}

// ---- Expressions ----

type Expr interface {
	Node
	exprNode()
	// SetResolvedType / ResolvedType give the checker an interior-mutable
	// annotation slot on every expression node without a side table.
	SetResolvedType(t any)
	GetResolvedType() any
}

// Base is embedded by every expression node: it carries the node's span
// and the checker's interior-mutable resolved-type annotation slot.
type Base struct {
	ResolvedType any
	Sp           token.Span
}

func (b *Base) Span() token.Span      { return b.Sp }
func (b *Base) SetResolvedType(t any) { b.ResolvedType = t }
func (b *Base) GetResolvedType() any  { return b.ResolvedType }

// NewBase constructs a Base node for the given span.
func NewBase(sp token.Span) Base { return Base{Sp: sp} }

type IntLit struct {
	Base
	Value int64
}

func (*IntLit) exprNode() {}

type FloatLit struct {
	Base
	Value float64
}

func (*FloatLit) exprNode() {}

type StringLit struct {
	Base
	Value string
}

func (*StringLit) exprNode() {}

// InterpolatedStringExpr is the desugared form of an interpolated string:
// a right-associative chain of BinaryExpr{Op: "++"} built by the parser.
// This node type only ever appears transiently before desugaring and is
// kept for tests that inspect pre-desugar structure.
type InterpolatedStringExpr struct {
	Base
	Parts []string
	Exprs []Expr
}

func (*InterpolatedStringExpr) exprNode() {}

type BoolLit struct {
	Base
	Value bool
}

func (*BoolLit) exprNode() {}

type ListLit struct {
	Base
	Elements []Expr
}

func (*ListLit) exprNode() {}

type RecordFieldInit struct {
	Name  string
	Value Expr
}

type RecordLit struct {
	Base
	TypeName string // empty until disambiguated by the checker
	Fields   []RecordFieldInit
}

func (*RecordLit) exprNode() {}

type Ident struct {
	Base
	Name string
}

func (*Ident) exprNode() {}

type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

type UnaryExpr struct {
	Base
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

type Arg struct {
	Name  string // empty for positional args
	Value Expr
}

type CallExpr struct {
	Base
	Callee Expr
	Args   []Arg
}

func (*CallExpr) exprNode() {}

type MemberExpr struct {
	Base
	Receiver Expr
	Name     string
}

func (*MemberExpr) exprNode() {}

// Stmt is one entry of a Block: either a binding/assignment or a bare
// expression statement.
type Stmt interface {
	Node
	stmtNode()
}

type LetStmt struct {
	Type  *TypeExpr // optional annotation
	Name  string
	Value Expr
	Mut   bool
	Sp    token.Span
}

func (l *LetStmt) Span() token.Span { return l.Sp }
func (*LetStmt) stmtNode()          {}

type AssignStmt struct {
	Name  string
	Value Expr
	Sp    token.Span
}

func (a *AssignStmt) Span() token.Span { return a.Sp }
func (*AssignStmt) stmtNode()          {}

type ExprStmt struct {
	X  Expr
	Sp token.Span
}

func (e *ExprStmt) Span() token.Span { return e.Sp }
func (*ExprStmt) stmtNode()          {}

// Block is a sequence of statements plus an optional trailing result
// expression; the block's value is that trailing expression's value, or
// Unit if absent.
type Block struct {
	Base
	Stmts  []Stmt
	Result Expr // may be nil
}

func (*Block) exprNode() {}

// MatchArm is one `pattern [if guard] -> body` arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
	Sp      token.Span
}

type MatchExpr struct {
	Base
	Scrutinee Expr
	Arms      []MatchArm
}

func (*MatchExpr) exprNode() {}

// LambdaExpr is reserved AST space for anonymous functions (spec.md §9).
// This implementation lowers non-capturing lambdas to named functions
// registered in the function table at codegen time; LambdaExpr never
// carries a captured environment.
type LambdaExpr struct {
	Base
	ParamNames []string
	Body       Expr
}

func (*LambdaExpr) exprNode() {}
