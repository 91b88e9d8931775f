package parser

import (
	"strconv"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/lexer"
	"github.com/clarity-lang/clarity/token"
)

// Operator precedence table (spec.md §4.2), lowest to highest. All levels
// are left-associative.
const (
	precNone = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
)

func binPrec(t token.Type) int {
	switch t {
	case token.KwOr:
		return precOr
	case token.KwAnd:
		return precAnd
	case token.EqEq, token.NotEq:
		return precEquality
	case token.Lt, token.Gt, token.LtEq, token.GtEq:
		return precRelational
	case token.Plus, token.Minus, token.PlusPlus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return precNone
	}
}

func opLiteral(t token.Type) string {
	switch t {
	case token.KwOr:
		return "or"
	case token.KwAnd:
		return "and"
	case token.EqEq:
		return "=="
	case token.NotEq:
		return "!="
	case token.Lt:
		return "<"
	case token.Gt:
		return ">"
	case token.LtEq:
		return "<="
	case token.GtEq:
		return ">="
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.PlusPlus:
		return "++"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	case token.Percent:
		return "%"
	}
	return "?"
}

// parseExpr implements Pratt-style precedence climbing: parse a unary/
// primary expression, then repeatedly absorb binary operators whose
// precedence is >= minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec := binPrec(p.cur().Type)
		if prec == precNone || prec < minPrec {
			return left
		}
		opTok := p.advance()
		right := p.parseExpr(prec + 1)
		left = &ast.BinaryExpr{
			Base:  ast.NewBase(token.Join(left.Span(), right.Span())),
			Op:    opLiteral(opTok.Type),
			Left:  left,
			Right: right,
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.Minus) || p.check(token.Bang) {
		opTok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Base:    ast.NewBase(token.Join(opTok.Span, operand.Span())),
			Op:      opLiteral2(opTok.Type),
			Operand: operand,
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

func opLiteral2(t token.Type) string {
	if t == token.Bang {
		return "!"
	}
	return "-"
}

// parsePostfix absorbs trailing `.field` and `(args)` call suffixes after
// a primary expression. Explicit type-argument lists are not parsed.
func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		switch p.cur().Type {
		case token.Dot:
			p.advance()
			name := p.expect(token.Ident).Literal
			e = &ast.MemberExpr{Base: ast.NewBase(token.Join(e.Span(), p.cur().Span)), Receiver: e, Name: name}
		case token.LParen:
			e = p.parseCall(e)
		default:
			return e
		}
	}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	start := callee.Span()
	p.expect(token.LParen)
	var args []ast.Arg
	for !p.check(token.RParen) && !p.check(token.EOF) {
		// Named argument: `Ident ':' expr`. Distinguished from a bare
		// expression by a one-token lookahead for ':'.
		if p.check(token.Ident) && p.peekAt(1).Type == token.Colon {
			name := p.advance().Literal
			p.advance() // ':'
			val := p.parseExpr(0)
			args = append(args, ast.Arg{Name: name, Value: val})
		} else {
			val := p.parseExpr(0)
			args = append(args, ast.Arg{Value: val})
		}
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return &ast.CallExpr{Base: ast.NewBase(token.Join(start, p.cur().Span)), Callee: callee, Args: args}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	p.checkMigrationHint(tok)

	switch tok.Type {
	case token.IntLit:
		p.advance()
		v, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return &ast.IntLit{Base: ast.NewBase(tok.Span), Value: v}
	case token.FloatLit:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.FloatLit{Base: ast.NewBase(tok.Span), Value: v}
	case token.StringLit:
		p.advance()
		return &ast.StringLit{Base: ast.NewBase(tok.Span), Value: tok.Literal}
	case token.InterpolatedStringLit:
		p.advance()
		return p.desugarInterpolation(tok)
	case token.KwTrue:
		p.advance()
		return &ast.BoolLit{Base: ast.NewBase(tok.Span), Value: true}
	case token.KwFalse:
		p.advance()
		return &ast.BoolLit{Base: ast.NewBase(tok.Span), Value: false}
	case token.LBracket:
		return p.parseListLit()
	case token.Pipe:
		return p.parseLambda()
	case token.LParen:
		p.advance()
		inner := p.parseExpr(0)
		p.expect(token.RParen)
		return inner
	case token.LBrace:
		return p.parseBlockOrRecord()
	case token.KwMatch:
		return p.parseMatch()
	case token.Ident:
		p.advance()
		return &ast.Ident{Base: ast.NewBase(tok.Span), Name: tok.Literal}
	default:
		p.errorf(tok.Span, "unexpected token %s in expression", tok.Type)
		p.advance()
		return &ast.Ident{Base: ast.NewBase(tok.Span), Name: "<error>"}
	}
}

func (p *Parser) parseListLit() ast.Expr {
	start := p.cur().Span
	p.expect(token.LBracket)
	var elems []ast.Expr
	for !p.check(token.RBracket) && !p.check(token.EOF) {
		elems = append(elems, p.parseExpr(0))
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket)
	return &ast.ListLit{Base: ast.NewBase(token.Join(start, p.cur().Span)), Elements: elems}
}

// parseLambda parses `|a, b| expr` (spec.md §4.2: `|` in expression
// position introduces a lambda).
func (p *Parser) parseLambda() ast.Expr {
	start := p.cur().Span
	p.expect(token.Pipe)
	var params []string
	for !p.check(token.Pipe) && !p.check(token.EOF) {
		params = append(params, p.expect(token.Ident).Literal)
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.Pipe)
	body := p.parseExpr(0)
	return &ast.LambdaExpr{Base: ast.NewBase(token.Join(start, body.Span())), ParamNames: params, Body: body}
}

// parseBlockOrRecord disambiguates `{` between a record literal and a
// block: a record literal requires `Identifier ':'` lookahead immediately
// inside the brace (spec.md §4.2).
func (p *Parser) parseBlockOrRecord() ast.Expr {
	if p.peekAt(1).Type == token.Ident && p.peekAt(2).Type == token.Colon {
		return p.parseRecordLit()
	}
	return p.parseBlock()
}

func (p *Parser) parseRecordLit() ast.Expr {
	start := p.cur().Span
	p.expect(token.LBrace)
	var fields []ast.RecordFieldInit
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		name := p.expect(token.Ident).Literal
		p.expect(token.Colon)
		val := p.parseExpr(0)
		fields = append(fields, ast.RecordFieldInit{Name: name, Value: val})
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return &ast.RecordLit{Base: ast.NewBase(token.Join(start, p.cur().Span)), Fields: fields}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur().Span
	p.expect(token.LBrace)
	blk := &ast.Block{Base: ast.NewBase(start)}
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		if p.isStartOfStmt() {
			blk.Stmts = append(blk.Stmts, p.parseStmt())
			continue
		}
		// Parse a trailing expression; if more tokens follow, it was
		// actually a semicolon-terminated expression statement.
		e := p.parseExpr(0)
		if p.match(token.Semi) {
			blk.Stmts = append(blk.Stmts, &ast.ExprStmt{X: e, Sp: e.Span()})
			continue
		}
		blk.Result = e
		break
	}
	p.expect(token.RBrace)
	blk.Sp = token.Join(start, p.cur().Span)
	return blk
}

func (p *Parser) isStartOfStmt() bool {
	switch p.cur().Type {
	case token.KwLet:
		return true
	case token.Ident:
		return p.peekAt(1).Type == token.Assign
	}
	return false
}

func (p *Parser) parseStmt() ast.Stmt {
	if p.check(token.KwLet) {
		return p.parseLet()
	}
	if p.check(token.Ident) && p.peekAt(1).Type == token.Assign {
		start := p.cur().Span
		name := p.advance().Literal
		p.advance() // '='
		val := p.parseExpr(0)
		p.match(token.Semi)
		return &ast.AssignStmt{Name: name, Value: val, Sp: token.Join(start, p.cur().Span)}
	}
	start := p.cur().Span
	e := p.parseExpr(0)
	p.match(token.Semi)
	return &ast.ExprStmt{X: e, Sp: token.Join(start, p.cur().Span)}
}

func (p *Parser) parseLet() *ast.LetStmt {
	start := p.cur().Span
	p.advance() // let
	mut := p.match(token.KwMut)
	name := p.expect(token.Ident).Literal
	var typ *ast.TypeExpr
	if p.match(token.Colon) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.Assign)
	val := p.parseExpr(0)
	p.match(token.Semi)
	return &ast.LetStmt{Type: typ, Name: name, Value: val, Mut: mut, Sp: token.Join(start, p.cur().Span)}
}

// desugarInterpolation lowers an InterpolatedStringLit token into a
// right-associative chain of `++` BinaryExpr nodes over alternating
// literal parts and sub-expressions (spec.md §4.2). Each sub-expression
// is parsed with its own sub-lexer/sub-parser whose spans are shifted by
// the token's recorded ExprOffsets so diagnostics stay accurate.
func (p *Parser) desugarInterpolation(tok token.Token) ast.Expr {
	ip := tok.Interp
	n := len(ip.ExprSources)
	exprs := make([]ast.Expr, n)
	for i, src := range ip.ExprSources {
		exprs[i] = p.parseSubExpr(src, ip.ExprOffsets[i], tok.Span.Source)
	}

	// Build right-associative: lit0 ++ (e0 ++ (lit1 ++ (e1 ++ lit2)))
	var build func(i int) ast.Expr
	build = func(i int) ast.Expr {
		lit := &ast.StringLit{Base: ast.NewBase(tok.Span), Value: ip.Parts[i]}
		if i == n {
			return lit
		}
		rest := build(i + 1)
		withExpr := &ast.BinaryExpr{Base: ast.NewBase(tok.Span), Op: "++", Left: exprs[i], Right: rest}
		return &ast.BinaryExpr{Base: ast.NewBase(tok.Span), Op: "++", Left: lit, Right: withExpr}
	}
	return build(0)
}

// parseSubExpr parses a single interpolation slot's source text in
// isolation, shifting resulting spans by baseOffset so they locate the
// correct place in the original source file.
func (p *Parser) parseSubExpr(src string, baseOffset int, file string) ast.Expr {
	sub := lexer.New(src, file)
	toks := sub.Tokenize()
	shiftSpan := func(s token.Span) token.Span {
		s.Start.Offset += baseOffset
		s.End.Offset += baseOffset
		return s
	}
	for i := range toks {
		toks[i].Span = shiftSpan(toks[i].Span)
	}
	sp := New(toks, file)
	e := sp.parseExpr(0)
	p.diags.Extend(sub.Diagnostics())
	p.diags.Extend(sp.diags.All())
	return e
}
