// Package lexer turns Clarity source text into a token stream.
//
// The scanning loop is structured after the teacher's WAT tokenizer
// (wat/internal/token.Tokenize): a rune-indexed loop over the source with
// inline classification, a running line counter, and a switch over
// leading characters for multi-character operators. This version adds
// span tracking (offset/line/col for both ends of every token) and
// string-interpolation tokenization, neither of which WAT's flat
// S-expression syntax needs.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/token"
)

// Lexer scans one source file. Identifiers are restricted to ASCII
// (spec.md §4.1); the source itself is arbitrary UTF-8.
type Lexer struct {
	src     string
	file    string
	offset  int
	line    int
	col     int
	diags   diag.Bag
}

func New(src, file string) *Lexer {
	return &Lexer{src: src, file: file, line: 1, col: 1}
}

func (l *Lexer) Diagnostics() []diag.Diagnostic { return l.diags.All() }

func (l *Lexer) pos() token.Position {
	return token.Position{Offset: l.offset, Line: l.line, Col: l.col}
}

func (l *Lexer) peekByte() byte {
	if l.offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset]
}

func (l *Lexer) peekByteAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

// advance consumes one rune and updates line/col bookkeeping.
func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) atEnd() bool { return l.offset >= len(l.src) }

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		r, _ := utf8.DecodeRuneInString(l.src[l.offset:])
		if unicode.IsSpace(r) {
			l.advance()
			continue
		}
		if r == '/' && l.peekByteAt(1) == '/' {
			for !l.atEnd() && l.peekByte() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

// Tokenize scans the entire source into a token slice, terminated by an
// EOF token. Lexer errors are recorded as diagnostics; the lexer
// attempts to recover by skipping the offending rune (spec.md §7).
func (l *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return out
}

// Next scans and returns the next token.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	if l.atEnd() {
		p := l.pos()
		return token.Token{Type: token.EOF, Span: token.Span{Source: l.file, Start: p, End: p}}
	}

	start := l.pos()
	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])

	switch {
	case r == '"':
		return l.scanString(start)
	case unicode.IsDigit(r):
		return l.scanNumber(start)
	case isIdentStart(r):
		return l.scanIdent(start)
	default:
		return l.scanOperator(start)
	}
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func (l *Lexer) span(start token.Position) token.Span {
	return token.Span{Source: l.file, Start: start, End: l.pos()}
}

func (l *Lexer) scanIdent(start token.Position) token.Token {
	begin := l.offset
	for !l.atEnd() {
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		if !isIdentCont(r) {
			break
		}
		l.offset += size
		l.col++
	}
	text := l.src[begin:l.offset]
	if text == "_" {
		return token.Token{Type: token.Underscore, Literal: text, Span: l.span(start)}
	}
	typ := token.LookupIdent(text)
	return token.Token{Type: typ, Literal: text, Span: l.span(start)}
}

func (l *Lexer) scanNumber(start token.Position) token.Token {
	begin := l.offset
	for !l.atEnd() && isDigitByte(l.peekByte()) {
		l.advance()
	}
	isFloat := false
	if l.peekByte() == '.' && isDigitByte(l.peekByteAt(1)) {
		isFloat = true
		l.advance() // consume '.'
		for !l.atEnd() && isDigitByte(l.peekByte()) {
			l.advance()
		}
	}
	text := l.src[begin:l.offset]
	typ := token.IntLit
	if isFloat {
		typ = token.FloatLit
	}
	return token.Token{Type: typ, Literal: text, Span: l.span(start)}
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// scanString scans a double-quoted string literal, recognizing escapes
// and ${expr} interpolation slots (spec.md §4.1).
func (l *Lexer) scanString(start token.Position) token.Token {
	l.advance() // opening quote
	var sb strings.Builder
	var parts []string
	var exprSources []string
	var exprOffsets []int
	interpolated := false

	flushLiteral := func() {
		parts = append(parts, sb.String())
		sb.Reset()
	}

	for {
		if l.atEnd() {
			l.diags.Add(diag.New(diag.PhaseLex, diag.KindSyntax).At(l.span(start)).
				Msg("unterminated string literal").Build())
			break
		}
		b := l.peekByte()
		if b == '"' {
			l.advance()
			break
		}
		if b == '\\' {
			l.advance()
			esc := l.peekByte()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				l.diags.Add(diag.New(diag.PhaseLex, diag.KindSyntax).At(l.span(start)).
					Msg("unknown escape sequence '\\%c'", esc).Build())
				sb.WriteByte(esc)
			}
			l.advance()
			continue
		}
		if b == '$' && l.peekByteAt(1) == '{' {
			interpolated = true
			flushLiteral()
			l.advance() // '$'
			l.advance() // '{'
			exprBegin := l.offset
			depth := 1
			for !l.atEnd() && depth > 0 {
				c := l.peekByte()
				if c == '{' {
					depth++
				} else if c == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				l.advance()
			}
			exprSources = append(exprSources, l.src[exprBegin:l.offset])
			exprOffsets = append(exprOffsets, exprBegin)
			if l.peekByte() == '}' {
				l.advance()
			}
			continue
		}
		r, size := utf8.DecodeRuneInString(l.src[l.offset:])
		sb.WriteRune(r)
		l.offset += size
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}

	if !interpolated {
		return token.Token{Type: token.StringLit, Literal: sb.String(), Span: l.span(start)}
	}
	flushLiteral()
	return token.Token{
		Type: token.InterpolatedStringLit,
		Span: l.span(start),
		Interp: &token.InterpolationParts{
			Parts:       parts,
			ExprSources: exprSources,
			ExprOffsets: exprOffsets,
		},
	}
}

// twoChar table for operators whose first byte is ambiguous between a
// one- and two-character token.
func (l *Lexer) scanOperator(start token.Position) token.Token {
	r := l.advance()
	mk := func(t token.Type) token.Token {
		return token.Token{Type: t, Literal: string(r), Span: l.span(start)}
	}
	switch r {
	case '+':
		if l.peekByte() == '+' {
			l.advance()
			return token.Token{Type: token.PlusPlus, Literal: "++", Span: l.span(start)}
		}
		return mk(token.Plus)
	case '-':
		if l.peekByte() == '>' {
			l.advance()
			return token.Token{Type: token.Arrow, Literal: "->", Span: l.span(start)}
		}
		return mk(token.Minus)
	case '*':
		return mk(token.Star)
	case '/':
		return mk(token.Slash)
	case '%':
		return mk(token.Percent)
	case '=':
		if l.peekByte() == '=' {
			l.advance()
			return token.Token{Type: token.EqEq, Literal: "==", Span: l.span(start)}
		}
		return mk(token.Assign)
	case '!':
		if l.peekByte() == '=' {
			l.advance()
			return token.Token{Type: token.NotEq, Literal: "!=", Span: l.span(start)}
		}
		return mk(token.Bang)
	case '<':
		if l.peekByte() == '=' {
			l.advance()
			return token.Token{Type: token.LtEq, Literal: "<=", Span: l.span(start)}
		}
		return mk(token.Lt)
	case '>':
		if l.peekByte() == '=' {
			l.advance()
			return token.Token{Type: token.GtEq, Literal: ">=", Span: l.span(start)}
		}
		return mk(token.Gt)
	case '.':
		if l.peekByte() == '.' {
			l.advance()
			return token.Token{Type: token.DotDot, Literal: "..", Span: l.span(start)}
		}
		return mk(token.Dot)
	case '|':
		return mk(token.Pipe)
	case ',':
		return mk(token.Comma)
	case ';':
		return mk(token.Semi)
	case ':':
		return mk(token.Colon)
	case '(':
		return mk(token.LParen)
	case ')':
		return mk(token.RParen)
	case '[':
		return mk(token.LBracket)
	case ']':
		return mk(token.RBracket)
	case '{':
		return mk(token.LBrace)
	case '}':
		return mk(token.RBrace)
	default:
		l.diags.Add(diag.New(diag.PhaseLex, diag.KindSyntax).At(l.span(start)).
			Msg("unexpected character %s", describeRune(r)).Build())
		return l.Next()
	}
}

func describeRune(r rune) string {
	if r < 32 || r > 126 {
		return fmt.Sprintf("U+%04X", r)
	}
	return fmt.Sprintf("%q", r)
}
