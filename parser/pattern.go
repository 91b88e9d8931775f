package parser

import (
	"strconv"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/token"
)

// parseMatch parses `match scrutinee { pattern [if guard] -> body, ... }`.
func (p *Parser) parseMatch() ast.Expr {
	start := p.cur().Span
	p.advance() // match
	scrutinee := p.parseExpr(0)
	p.expect(token.LBrace)
	var arms []ast.MatchArm
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		arms = append(arms, p.parseMatchArm())
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return &ast.MatchExpr{
		Base:      ast.NewBase(token.Join(start, p.cur().Span)),
		Scrutinee: scrutinee,
		Arms:      arms,
	}
}

func (p *Parser) parseMatchArm() ast.MatchArm {
	start := p.cur().Span
	pat := p.parsePattern()
	var guard ast.Expr
	if p.check(token.KwIf) {
		p.advance()
		guard = p.parseExpr(0)
	}
	p.expect(token.Arrow)
	body := p.parseExpr(0)
	return ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Sp: token.Join(start, body.Span())}
}

func (p *Parser) parsePattern() ast.Pattern {
	tok := p.cur()
	switch tok.Type {
	case token.Underscore:
		p.advance()
		return &ast.WildcardPattern{Sp: tok.Span}
	case token.Minus:
		return p.parseIntPattern()
	case token.IntLit:
		return p.parseIntPattern()
	case token.FloatLit:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.LiteralPattern{Value: v, Sp: tok.Span}
	case token.StringLit:
		p.advance()
		return &ast.LiteralPattern{Value: tok.Literal, Sp: tok.Span}
	case token.KwTrue:
		p.advance()
		return &ast.LiteralPattern{Value: true, Sp: tok.Span}
	case token.KwFalse:
		p.advance()
		return &ast.LiteralPattern{Value: false, Sp: tok.Span}
	case token.Ident:
		return p.parseIdentOrConstructorPattern()
	default:
		p.errorf(tok.Span, "unexpected token %s in pattern", tok.Type)
		p.advance()
		return &ast.WildcardPattern{Sp: tok.Span}
	}
}

// parseIntPattern parses an integer literal pattern, optionally followed
// by `..hi` to form an inclusive range pattern (spec.md §3.2).
func (p *Parser) parseIntPattern() ast.Pattern {
	start := p.cur().Span
	neg := p.match(token.Minus)
	tok := p.expect(token.IntLit)
	lo, _ := strconv.ParseInt(tok.Literal, 10, 64)
	if neg {
		lo = -lo
	}
	if p.match(token.DotDot) {
		hiNeg := p.match(token.Minus)
		hiTok := p.expect(token.IntLit)
		hi, _ := strconv.ParseInt(hiTok.Literal, 10, 64)
		if hiNeg {
			hi = -hi
		}
		return &ast.RangePattern{Lo: lo, Hi: hi, Sp: token.Join(start, p.cur().Span)}
	}
	return &ast.LiteralPattern{Value: lo, Sp: token.Join(start, p.cur().Span)}
}

// parseIdentOrConstructorPattern distinguishes a lowercase binding
// pattern from an uppercase constructor pattern by the identifier's
// leading case (spec.md §3.1 invariant: names starting uppercase denote
// types/variants, lowercase denote values/bindings).
func (p *Parser) parseIdentOrConstructorPattern() ast.Pattern {
	tok := p.advance()
	name := tok.Literal
	if !isUpperInitial(name) {
		return &ast.BindingPattern{Name: name, Sp: tok.Span}
	}
	cp := &ast.ConstructorPattern{Name: name, Sp: tok.Span}
	if p.match(token.LParen) {
		for !p.check(token.RParen) && !p.check(token.EOF) {
			if p.check(token.Ident) && p.peekAt(1).Type == token.Colon {
				fname := p.advance().Literal
				p.advance() // ':'
				sub := p.parsePattern()
				cp.Fields = append(cp.Fields, ast.FieldPattern{Name: fname, Pattern: sub})
			} else {
				sub := p.parsePattern()
				cp.Fields = append(cp.Fields, ast.FieldPattern{Pattern: sub})
			}
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.RParen)
	}
	cp.Sp = token.Join(tok.Span, p.cur().Span)
	return cp
}

func isUpperInitial(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}
