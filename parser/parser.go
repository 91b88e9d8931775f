// Package parser implements Clarity's hand-rolled recursive-descent
// parser: declarations and statements by direct recursive descent, binary
// operator expressions by a Pratt precedence table (spec.md §4.2).
//
// The overall shape — a New(tokens) constructor, a pos cursor over a flat
// token slice, peek/next/expect helpers — follows the teacher's WAT
// parser (wat/internal/parser.Parser); the grammar, precedence table,
// disambiguation rules, and diagnostic-accumulation style are specific to
// Clarity and have no WAT analogue.
package parser

import (
	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/lexer"
	"github.com/clarity-lang/clarity/token"
)

// syncPoints is the set of token types the error-recovery pass
// synchronizes to (spec.md §4.2 "Error recovery").
var syncPoints = map[token.Type]bool{
	token.KwFunction: true,
	token.KwType:     true,
	token.KwConst:    true,
	token.KwEffect:   true,
	token.RBrace:     true,
	token.Semi:       true,
}

type Parser struct {
	tokens []token.Token
	file   string
	pos    int
	diags  diag.Bag
}

func New(tokens []token.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// Parse tokenizes src with a fresh lexer and parses it into a Module.
func Parse(src, file string) (*ast.Module, []diag.Diagnostic) {
	lx := lexer.New(src, file)
	toks := lx.Tokenize()
	p := New(toks, file)
	mod := p.parseModule()
	all := append([]diag.Diagnostic{}, lx.Diagnostics()...)
	all = append(all, p.diags.All()...)
	return mod, all
}

func (p *Parser) Diagnostics() []diag.Diagnostic { return p.diags.All() }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) check(t token.Type) bool { return p.cur().Type == t }

func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of type t, or records a syntax diagnostic and
// returns the current token without consuming it. It does not
// synchronize; skipping to the next declaration happens only in
// parseDecl (spec.md §4.2 "Error recovery").
func (p *Parser) expect(t token.Type) token.Token {
	if p.check(t) {
		return p.advance()
	}
	got := p.cur()
	p.errorf(got.Span, "expected %s, got %s", t, got.Type)
	return got
}

func (p *Parser) errorf(span token.Span, format string, args ...any) {
	p.diags.Add(diag.New(diag.PhaseParse, diag.KindSyntax).At(span).Msg(format, args...).Build())
}

// checkMigrationHint flags identifiers borrowed from other language
// families in declaration or expression position (spec.md §4.2).
func (p *Parser) checkMigrationHint(tok token.Token) {
	if token.IsMigrationHint(tok.Type) {
		p.diags.Add(diag.New(diag.PhaseParse, diag.KindMigration).At(tok.Span).
			Msg("'%s' is not a Clarity keyword", tok.Literal).
			Help("%s", token.MigrationHints[tok.Type]).Build())
	}
}

// synchronize advances past the offending token to the next declaration
// or block boundary so the remainder of the file can still be parsed.
func (p *Parser) synchronize() {
	p.advance()
	for !p.check(token.EOF) {
		if syncPoints[p.cur().Type] {
			if p.check(token.RBrace) || p.check(token.Semi) {
				p.advance()
			}
			return
		}
		p.advance()
	}
}

func (p *Parser) parseModule() *ast.Module {
	start := p.cur().Span
	p.expect(token.KwModule)
	name := p.expect(token.Ident).Literal
	mod := &ast.Module{Name: name}
	for !p.check(token.EOF) {
		decl := p.parseDecl()
		if decl != nil {
			mod.Declarations = append(mod.Declarations, decl)
		}
	}
	mod.Sp = token.Join(start, p.cur().Span)
	return mod
}

func (p *Parser) parseDecl() ast.Decl {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
		}
	}()

	p.checkMigrationHint(p.cur())

	exported := p.match(token.KwExport)

	switch p.cur().Type {
	case token.KwImport:
		return p.parseImport()
	case token.KwType:
		return p.parseTypeDecl(exported)
	case token.KwFunction:
		return p.parseFunction(exported, nil)
	case token.KwEffect:
		return p.parseFunctionWithEffects(exported)
	case token.KwConst:
		return p.parseConst(exported)
	default:
		got := p.cur()
		p.errorf(got.Span, "expected a declaration, got %s", got.Type)
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseImport() *ast.Import {
	start := p.cur().Span
	p.advance() // import
	p.expect(token.LBrace)
	var names []string
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		names = append(names, p.expect(token.Ident).Literal)
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	p.expect(token.KwFrom)
	from := p.expect(token.Ident).Literal
	return &ast.Import{Names: names, From: from, Sp: token.Join(start, p.cur().Span)}
}

func (p *Parser) parseTypeDecl(exported bool) *ast.TypeDecl {
	start := p.cur().Span
	p.advance() // type
	name := p.expect(token.Ident).Literal
	var typeParams []string
	if p.match(token.Lt) {
		for !p.check(token.Gt) && !p.check(token.EOF) {
			typeParams = append(typeParams, p.expect(token.Ident).Literal)
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Gt)
	}
	p.expect(token.Assign)

	body := p.parseTypeBody()
	return &ast.TypeDecl{Name: name, TypeParams: typeParams, Body: body, Exported: exported, Sp: token.Join(start, p.cur().Span)}
}

// parseTypeBody dispatches on the lookahead to decide between a union
// (leading `|`), a record (leading `{`), or a transparent alias (a bare
// type reference) — spec.md §3.1.
func (p *Parser) parseTypeBody() *ast.TypeBody {
	if p.check(token.Pipe) {
		var variants []ast.UnionVariantDecl
		for p.match(token.Pipe) {
			vname := p.expect(token.Ident).Literal
			var fields []ast.RecordFieldDecl
			if p.match(token.LParen) {
				fields = p.parseFieldList(token.RParen)
				p.expect(token.RParen)
			}
			variants = append(variants, ast.UnionVariantDecl{Name: vname, Fields: fields})
		}
		return &ast.TypeBody{Kind: ast.TypeUnionBody, Variants: variants}
	}
	if p.check(token.LBrace) {
		p.advance()
		fields := p.parseFieldList(token.RBrace)
		p.expect(token.RBrace)
		return &ast.TypeBody{Kind: ast.TypeRecordBody, Fields: fields}
	}
	alias := p.parseTypeExpr()
	return &ast.TypeBody{Kind: ast.TypeAlias, Alias: alias}
}

func (p *Parser) parseFieldList(end token.Type) []ast.RecordFieldDecl {
	var fields []ast.RecordFieldDecl
	for !p.check(end) && !p.check(token.EOF) {
		fname := p.expect(token.Ident).Literal
		p.expect(token.Colon)
		ftype := p.parseTypeExpr()
		fields = append(fields, ast.RecordFieldDecl{Name: fname, Type: ftype})
		if !p.match(token.Comma) {
			break
		}
	}
	return fields
}

// parseTypeExpr parses a type reference; `<` after the name introduces a
// type-argument list (spec.md §4.2 disambiguation: `<` inside a type
// reference position is never the less-than operator).
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.cur().Span
	if p.check(token.LParen) {
		return p.parseFunctionTypeExpr(start)
	}
	name := p.expect(token.Ident).Literal
	te := &ast.TypeExpr{Name: name, Sp: start}
	if p.match(token.Lt) {
		for !p.check(token.Gt) && !p.check(token.EOF) {
			te.Args = append(te.Args, p.parseTypeExpr())
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Gt)
	}
	te.Sp = token.Join(start, p.cur().Span)
	return te
}

// parseFunctionTypeExpr parses a function-type reference `(T, U) -> V`,
// used to type a higher-order parameter (e.g. the callback argument of a
// generic function like `map<T,U>(xs: List<T>, f: (T) -> U) -> List<U>`).
func (p *Parser) parseFunctionTypeExpr(start token.Span) *ast.TypeExpr {
	p.expect(token.LParen)
	var params []*ast.TypeExpr
	for !p.check(token.RParen) && !p.check(token.EOF) {
		params = append(params, p.parseTypeExpr())
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	p.expect(token.Arrow)
	ret := p.parseTypeExpr()
	return &ast.TypeExpr{FuncParams: params, FuncReturn: ret, Sp: token.Join(start, p.cur().Span)}
}

func (p *Parser) parseFunctionWithEffects(exported bool) *ast.Function {
	p.advance() // effect
	p.expect(token.LBracket)
	var effects []string
	for !p.check(token.RBracket) && !p.check(token.EOF) {
		effects = append(effects, p.expect(token.Ident).Literal)
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket)
	p.expect(token.KwFunction)
	return p.parseFunctionBody(exported, effects)
}

func (p *Parser) parseFunction(exported bool, effects []string) *ast.Function {
	p.advance() // function
	return p.parseFunctionBody(exported, effects)
}

func (p *Parser) parseFunctionBody(exported bool, effects []string) *ast.Function {
	start := p.cur().Span
	name := p.expect(token.Ident).Literal
	var typeParams []string
	if p.match(token.Lt) {
		for !p.check(token.Gt) && !p.check(token.EOF) {
			typeParams = append(typeParams, p.expect(token.Ident).Literal)
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Gt)
	}
	p.expect(token.LParen)
	var params []ast.Param
	for !p.check(token.RParen) && !p.check(token.EOF) {
		pname := p.expect(token.Ident).Literal
		p.expect(token.Colon)
		ptype := p.parseTypeExpr()
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	p.expect(token.Arrow)
	ret := p.parseTypeExpr()
	body := p.parseBlock()
	return &ast.Function{
		Name: name, TypeParams: typeParams, Params: params, ReturnType: ret,
		Effects: effects, Body: body, Exported: exported,
		Sp: token.Join(start, p.cur().Span),
	}
}

func (p *Parser) parseConst(exported bool) *ast.Const {
	start := p.cur().Span
	p.advance() // const
	name := p.expect(token.Ident).Literal
	var typ *ast.TypeExpr
	if p.match(token.Colon) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.Assign)
	val := p.parseExpr(0)
	p.match(token.Semi)
	return &ast.Const{Name: name, Type: typ, Value: val, Exported: exported, Sp: token.Join(start, p.cur().Span)}
}
