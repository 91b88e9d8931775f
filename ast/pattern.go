package ast

import "github.com/clarity-lang/clarity/token"

// Pattern is implemented by every match-arm pattern node.
type Pattern interface {
	Node
	patternNode()
}

type WildcardPattern struct {
	Sp token.Span
}

func (w *WildcardPattern) Span() token.Span { return w.Sp }
func (*WildcardPattern) patternNode()       {}

// BindingPattern binds the scrutinee (or sub-value) to a lowercase name.
type BindingPattern struct {
	Name string
	Sp   token.Span
}

func (b *BindingPattern) Span() token.Span { return b.Sp }
func (*BindingPattern) patternNode()       {}

type LiteralPattern struct {
	Value any // int64, float64, string, or bool
	Sp    token.Span
}

func (l *LiteralPattern) Span() token.Span { return l.Sp }
func (*LiteralPattern) patternNode()       {}

// RangePattern matches any Int64 v with Lo <= v <= Hi (inclusive).
type RangePattern struct {
	Lo int64
	Hi int64
	Sp token.Span
}

func (r *RangePattern) Span() token.Span { return r.Sp }
func (*RangePattern) patternNode()       {}

type FieldPattern struct {
	Name    string // empty for a positional sub-pattern
	Pattern Pattern
}

// ConstructorPattern matches a union variant (or bare zero-field variant)
// by name, with positional or named sub-patterns against its fields.
type ConstructorPattern struct {
	Name   string
	Fields []FieldPattern
	Sp     token.Span
}

func (c *ConstructorPattern) Span() token.Span { return c.Sp }
func (*ConstructorPattern) patternNode()       {}
