package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/clarity-lang/clarity/types"
)

type builtinJSON struct {
	Name       string   `json:"name"`
	Params     []string `json:"params"`
	ParamNames []string `json:"paramNames,omitempty"`
	ReturnType string   `json:"returnType"`
	Effects    []string `json:"effects,omitempty"`
	Doc        string   `json:"doc"`
	Category   string   `json:"category"`
}

// primitiveKinds are the built-in type constructors introspect reports
// under --types: introspect takes no source file (spec.md §6.3), so
// there are no user-defined Record/Union entries to list — only the
// fixed catalog from spec.md §3.1.
var primitiveKinds = []string{
	"Int64", "Float64", "Bool", "String", "Bytes", "Timestamp", "Unit",
	"List<T>", "Option<T>", "Result<T,E>", "Map<K,V>",
}

// runIntrospect implements `clarity introspect [--builtins|--effects|--types]`
// (spec.md §6.4): emit the built-in registry as JSON for tooling to
// consume, e.g. an editor's autocomplete or an LLM-facing doc generator.
func runIntrospect(args []string) error {
	fs := flag.NewFlagSet("introspect", flag.ContinueOnError)
	builtins := fs.Bool("builtins", false, "emit the built-in function catalog")
	effects := fs.Bool("effects", false, "emit the valid effect names")
	typesFlag := fs.Bool("types", false, "emit the built-in type constructors")
	if err := fs.Parse(args); err != nil {
		return &usageError{err.Error()}
	}

	reg := types.NewRegistry()
	all := !*builtins && !*effects && !*typesFlag

	out := map[string]any{}
	if *builtins || all {
		var bs []builtinJSON
		for _, f := range reg.Builtins() {
			bs = append(bs, builtinJSON{
				Name:       f.Name,
				Params:     typeStrings(f.Params),
				ParamNames: f.ParamNames,
				ReturnType: f.ReturnType.String(),
				Effects:    effectStrings(f.Effects),
				Doc:        f.Doc,
				Category:   f.Category,
			})
		}
		out["builtins"] = bs
	}
	if *effects || all {
		out["effects"] = reg.ValidEffectNames()
	}
	if *typesFlag || all {
		out["types"] = primitiveKinds
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func typeStrings(ts []*types.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func effectStrings(es []types.EffectName) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = string(e)
	}
	return out
}
