// Package diag provides the structured diagnostic type shared by every
// stage of the Clarity pipeline (lexer, parser, checker, codegen).
//
// Diagnostics are accumulated, not thrown: each stage collects a slice of
// Diagnostic values and decides afterward whether any Severity == Error
// entry blocks the next stage.
package diag

import (
	"fmt"
	"strings"

	"github.com/clarity-lang/clarity/token"
)

// Phase indicates which compiler stage produced the diagnostic.
type Phase string

const (
	PhaseLex     Phase = "lex"
	PhaseParse   Phase = "parse"
	PhaseCheck   Phase = "check"
	PhaseCodegen Phase = "codegen"
	PhaseRuntime Phase = "runtime"
)

// Kind categorizes the diagnostic within its phase.
type Kind string

const (
	KindSyntax         Kind = "syntax"
	KindMigration      Kind = "migration"
	KindUndefined      Kind = "undefined"
	KindTypeMismatch   Kind = "type_mismatch"
	KindNonExhaustive  Kind = "non_exhaustive"
	KindOverlap        Kind = "range_overlap"
	KindEffectMissing  Kind = "effect_missing"
	KindUnknownEffect  Kind = "unknown_effect"
	KindImmutable      Kind = "immutable"
	KindArity          Kind = "arity"
	KindAmbiguous      Kind = "ambiguous"
	KindDuplicateName  Kind = "duplicate_name"
	KindUnsupportedTCO Kind = "unsupported_tco"
	KindTrap           Kind = "trap"
)

// Severity controls whether a diagnostic blocks progress to the next stage.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// Diagnostic is a single span-carrying error, warning, or info message.
type Diagnostic struct {
	Phase    Phase
	Kind     Kind
	Severity Severity
	Message  string
	Span     token.Span
	Help     string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: [%s] %s: %s", d.Span, d.Severity, d.Kind, d.Message)
	if d.Help != "" {
		fmt.Fprintf(&b, "\n  help: %s", d.Help)
	}
	return b.String()
}

// Error implements the error interface so a Diagnostic can be returned
// directly wherever a plain error is expected (e.g. from a sub-lexer used
// for string interpolation).
func (d Diagnostic) Error() string { return d.String() }

// Builder provides fluent, structured diagnostic construction mirroring
// the rest of the pipeline's error-construction style.
type Builder struct {
	d Diagnostic
}

// New starts a diagnostic of the given phase/kind with Error severity.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{d: Diagnostic{Phase: phase, Kind: kind, Severity: Error}}
}

func (b *Builder) At(span token.Span) *Builder {
	b.d.Span = span
	return b
}

func (b *Builder) Msg(format string, args ...any) *Builder {
	if len(args) > 0 {
		b.d.Message = fmt.Sprintf(format, args...)
	} else {
		b.d.Message = format
	}
	return b
}

func (b *Builder) Help(format string, args ...any) *Builder {
	if len(args) > 0 {
		b.d.Help = fmt.Sprintf(format, args...)
	} else {
		b.d.Help = format
	}
	return b
}

func (b *Builder) Severity(s Severity) *Builder {
	b.d.Severity = s
	return b
}

func (b *Builder) Build() Diagnostic { return b.d }

// Bag accumulates diagnostics across a single pipeline stage.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Addf(phase Phase, kind Kind, sev Severity, span token.Span, help string, format string, args ...any) {
	b.Add(Diagnostic{
		Phase:    phase,
		Kind:     kind,
		Severity: sev,
		Span:     span,
		Help:     help,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any accumulated diagnostic is Severity Error.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (b *Bag) All() []Diagnostic { return b.items }

func (b *Bag) Extend(others []Diagnostic) { b.items = append(b.items, others...) }
