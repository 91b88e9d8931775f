// Package types implements the Clarity type universe: the tagged-variant
// Type representation, the Option/Result union cache, and the built-in
// function/effect catalog (component C4 of the pipeline).
package types

import "strings"

// Kind tags the variant of a Type.
type Kind int

const (
	KInt64 Kind = iota
	KFloat64
	KBool
	KString
	KBytes
	KTimestamp
	KUnit
	KList
	KOption
	KResult
	KMap
	KRecord
	KUnion
	KFunction
	KTypeVar
	KError // sentinel: equal to every type, propagated to suppress cascades
)

// EffectName is one entry of the closed effect catalog (spec.md §4.3.7).
type EffectName string

const (
	EffectDB         EffectName = "DB"
	EffectNetwork    EffectName = "Network"
	EffectTime       EffectName = "Time"
	EffectRandom     EffectName = "Random"
	EffectLog        EffectName = "Log"
	EffectFileSystem EffectName = "FileSystem"
	EffectTest       EffectName = "Test"
)

// BuiltinEffects is the closed catalog named in spec.md §4.3.7. The
// built-in registry (Registry) may extend it with further names drawn
// from host-runtime ABI imports, but the base set never shrinks.
var BuiltinEffects = map[EffectName]bool{
	EffectDB:         true,
	EffectNetwork:    true,
	EffectTime:       true,
	EffectRandom:     true,
	EffectLog:        true,
	EffectFileSystem: true,
	EffectTest:       true,
}

// Field is one named, typed member of a Record or one Union variant.
type Field struct {
	Name string
	Type *Type
}

// Variant is one alternative of a Union, with its zero-based declaration
// index doubling as its runtime tag value (spec.md §4.4.1).
type Variant struct {
	Name   string
	Fields []Field
	Index  int
}

// Type is the tagged-variant representation of every Clarity type.
// Two Type pointers referring to the "same" type are not required to be
// identical in general, EXCEPT for cache-backed entries (Option/Result
// unions, and Record/Union entries registered in a Registry), where
// identity comparison is valid by construction (spec.md §3.4).
type Type struct {
	Kind Kind

	// KList, KOption (element/inner type)
	Elem *Type

	// KResult
	Ok  *Type
	Err *Type

	// KMap
	Key *Type
	Val *Type

	// KRecord / KUnion
	Name     string
	Fields   []Field   // KRecord
	Variants []Variant // KUnion

	// KFunction
	Params     []*Type
	ParamNames []string
	Return     *Type
	Effects    map[EffectName]bool

	// KTypeVar
	TypeVarName string

	// Generic function/type entries carry their bound variable names here.
	BoundVars []string
}

var (
	Int64     = &Type{Kind: KInt64}
	Float64   = &Type{Kind: KFloat64}
	Bool      = &Type{Kind: KBool}
	String    = &Type{Kind: KString}
	Bytes     = &Type{Kind: KBytes}
	Timestamp = &Type{Kind: KTimestamp}
	Unit      = &Type{Kind: KUnit}
	ErrorType = &Type{Kind: KError}
)

func List(elem *Type) *Type { return &Type{Kind: KList, Elem: elem} }
func MapOf(k, v *Type) *Type { return &Type{Kind: KMap, Key: k, Val: v} }
func TypeVar(name string) *Type { return &Type{Kind: KTypeVar, TypeVarName: name} }

// Equal reports structural equality. The Error sentinel is equal to every
// type so that a single upstream failure does not cascade into spurious
// downstream mismatches (spec.md §3.1).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind == KError || b.Kind == KError {
		return true
	}
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KList, KOption:
		return Equal(a.Elem, b.Elem)
	case KResult:
		return Equal(a.Ok, b.Ok) && Equal(a.Err, b.Err)
	case KMap:
		return Equal(a.Key, b.Key) && Equal(a.Val, b.Val)
	case KRecord:
		if a.Name != b.Name || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !Equal(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case KUnion:
		return a.Name == b.Name
	case KFunction:
		if len(a.Params) != len(b.Params) || !Equal(a.Return, b.Return) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	case KTypeVar:
		return a.TypeVarName == b.TypeVarName
	default:
		return true // primitives, Unit
	}
}

// String renders a canonical, stable textual form used both for
// diagnostics and as the Option/Result cache key (spec.md §4.3.3).
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KInt64:
		return "Int64"
	case KFloat64:
		return "Float64"
	case KBool:
		return "Bool"
	case KString:
		return "String"
	case KBytes:
		return "Bytes"
	case KTimestamp:
		return "Timestamp"
	case KUnit:
		return "Unit"
	case KError:
		return "<error>"
	case KList:
		return "List<" + t.Elem.String() + ">"
	case KOption:
		return "Option<" + t.Elem.String() + ">"
	case KResult:
		return "Result<" + t.Ok.String() + "," + t.Err.String() + ">"
	case KMap:
		return "Map<" + t.Key.String() + "," + t.Val.String() + ">"
	case KRecord:
		return t.Name
	case KUnion:
		return t.Name
	case KTypeVar:
		return t.TypeVarName
	case KFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
	}
	return "?"
}

// IsUnionLike reports whether t is a user-declared Union. The built-in
// Option/Result unions are not included; callers that apply the
// per-variant coverage rule test KOption/KResult separately (spec.md
// §4.3.8).
func (t *Type) IsUnionLike() bool {
	return t.Kind == KUnion
}
