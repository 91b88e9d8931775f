package types

// BuiltinFunc is one entry of the built-in registry (spec.md §6.4): the
// wire shape consulted by the checker and by `clarity introspect`.
type BuiltinFunc struct {
	Name       string
	Params     []*Type
	ParamNames []string
	ReturnType *Type
	Effects    []EffectName
	Doc        string
	Category   string
}

func (f *BuiltinFunc) FuncType() *Type {
	effSet := make(map[EffectName]bool, len(f.Effects))
	for _, e := range f.Effects {
		effSet[e] = true
	}
	return &Type{
		Kind:       KFunction,
		Params:     f.Params,
		ParamNames: f.ParamNames,
		Return:     f.ReturnType,
		Effects:    effSet,
	}
}

// Registry is the checker's insertion-ordered store of record/union type
// definitions, the Option/Result union cache, and the built-in function
// catalog. Insertion order is preserved so that record-literal
// disambiguation (spec.md §4.3.4) is stable across re-runs.
type Registry struct {
	records      map[string]*Type
	unions       map[string]*Type
	recordOrder  []string
	unionOrder   []string
	optionResult map[string]*Type // cache key -> Option<T> or Result<T,E> union
	builtins     map[string]*BuiltinFunc
	builtinOrder []string
	extraEffects map[EffectName]bool
}

func NewRegistry() *Registry {
	r := &Registry{
		records:      make(map[string]*Type),
		unions:       make(map[string]*Type),
		optionResult: make(map[string]*Type),
		builtins:     make(map[string]*BuiltinFunc),
		extraEffects: make(map[EffectName]bool),
	}
	registerBuiltins(r)
	return r
}

// DefineRecord registers a record type under its declared name.
func (r *Registry) DefineRecord(t *Type) {
	r.records[t.Name] = t
	r.recordOrder = append(r.recordOrder, t.Name)
}

// DefineUnion registers a union type (and each variant's synthetic
// constructor is registered separately by the checker as a builtin-style
// function — spec.md §4.3.1 step 1).
func (r *Registry) DefineUnion(t *Type) {
	r.unions[t.Name] = t
	r.unionOrder = append(r.unionOrder, t.Name)
}

func (r *Registry) LookupRecord(name string) (*Type, bool) {
	t, ok := r.records[name]
	return t, ok
}

func (r *Registry) LookupUnion(name string) (*Type, bool) {
	t, ok := r.unions[name]
	return t, ok
}

// AllUnions returns every registered union (not including the cached
// Option/Result instances, which are looked up separately by OptionOf).
func (r *Registry) AllUnions() []*Type {
	out := make([]*Type, 0, len(r.unions))
	for _, name := range r.unionOrder {
		out = append(out, r.unions[name])
	}
	return out
}

// RecordCandidates returns, in insertion order, every registered record
// whose field-name set is exactly fieldNames (spec.md §4.3.4).
func (r *Registry) RecordCandidates(fieldNames []string) []*Type {
	want := make(map[string]bool, len(fieldNames))
	for _, n := range fieldNames {
		want[n] = true
	}
	var out []*Type
	for _, name := range r.recordOrder {
		rec := r.records[name]
		if len(rec.Fields) != len(want) {
			continue
		}
		match := true
		for _, f := range rec.Fields {
			if !want[f.Name] {
				match = false
				break
			}
		}
		if match {
			out = append(out, rec)
		}
	}
	return out
}

// OptionOf returns the shared Option<inner> union, creating and caching
// it on first use so that every subsequent reference to Option<Int64>
// resolves to the same *Type (spec.md §3.1, §4.3.3). tag 0 = Some, 1 = None.
func (r *Registry) OptionOf(inner *Type) *Type {
	key := "Option<" + inner.String() + ">"
	if t, ok := r.optionResult[key]; ok {
		return t
	}
	t := &Type{
		Kind: KOption,
		Elem: inner,
		Name: key,
		Variants: []Variant{
			{Name: "Some", Fields: []Field{{Name: "0", Type: inner}}, Index: 0},
			{Name: "None", Fields: nil, Index: 1},
		},
	}
	r.optionResult[key] = t
	return t
}

// ResultOf returns the shared Result<ok,err> union; tag 0 = Ok, 1 = Err.
func (r *Registry) ResultOf(ok, errT *Type) *Type {
	key := "Result<" + ok.String() + "," + errT.String() + ">"
	if t, found := r.optionResult[key]; found {
		return t
	}
	t := &Type{
		Kind: KResult,
		Ok:   ok,
		Err:  errT,
		Name: key,
		Variants: []Variant{
			{Name: "Ok", Fields: []Field{{Name: "0", Type: ok}}, Index: 0},
			{Name: "Err", Fields: []Field{{Name: "0", Type: errT}}, Index: 1},
		},
	}
	r.optionResult[key] = t
	return t
}

// DefineBuiltin registers a built-in function (registry entry + effect
// extension, spec.md §6.4: "a three-point edit").
func (r *Registry) DefineBuiltin(f *BuiltinFunc) {
	r.builtins[f.Name] = f
	r.builtinOrder = append(r.builtinOrder, f.Name)
	for _, e := range f.Effects {
		if !BuiltinEffects[e] {
			r.extraEffects[e] = true
		}
	}
}

func (r *Registry) LookupBuiltin(name string) (*BuiltinFunc, bool) {
	f, ok := r.builtins[name]
	return f, ok
}

// Builtins returns the catalog in registration order (for `introspect`).
func (r *Registry) Builtins() []*BuiltinFunc {
	out := make([]*BuiltinFunc, len(r.builtinOrder))
	for i, name := range r.builtinOrder {
		out[i] = r.builtins[name]
	}
	return out
}

// IsKnownEffect reports whether name is in the closed catalog or one of
// the registry's host-import extensions.
func (r *Registry) IsKnownEffect(name EffectName) bool {
	return BuiltinEffects[name] || r.extraEffects[name]
}

// ValidEffectNames lists every known effect name, for the
// "Unknown effect names ... raise a dedicated diagnostic listing the
// valid set" rule (spec.md §4.3.7).
func (r *Registry) ValidEffectNames() []string {
	var out []string
	for e := range BuiltinEffects {
		out = append(out, string(e))
	}
	for e := range r.extraEffects {
		out = append(out, string(e))
	}
	return out
}

func registerBuiltins(r *Registry) {
	tv := func(n string) *Type { return TypeVar(n) }
	listT := func(n string) *Type { return List(tv(n)) }
	mapT := func(k, v string) *Type { return MapOf(tv(k), tv(v)) }

	entries := []*BuiltinFunc{
		{Name: "print_string", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: Unit, Effects: []EffectName{EffectLog}, Category: "io", Doc: "Print a string to stdout."},
		{Name: "print_int", Params: []*Type{Int64}, ParamNames: []string{"n"}, ReturnType: Unit, Effects: []EffectName{EffectLog}, Category: "io", Doc: "Print an Int64 to stdout."},
		{Name: "print_float", Params: []*Type{Float64}, ParamNames: []string{"n"}, ReturnType: Unit, Effects: []EffectName{EffectLog}, Category: "io", Doc: "Print a Float64 to stdout."},
		{Name: "log_info", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: Unit, Effects: []EffectName{EffectLog}, Category: "io", Doc: "Write s to the info-level log channel."},
		{Name: "log_warn", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: Unit, Effects: []EffectName{EffectLog}, Category: "io", Doc: "Write s to the warn-level log channel."},

		{Name: "length", Params: []*Type{listT("T")}, ParamNames: []string{"l"}, ReturnType: Int64, Category: "list", Doc: "Number of elements in a list.", Effects: nil},
		{Name: "head", Params: []*Type{listT("T")}, ParamNames: []string{"l"}, ReturnType: tv("T"), Category: "list", Doc: "First element; traps if empty."},
		{Name: "tail", Params: []*Type{listT("T")}, ParamNames: []string{"l"}, ReturnType: listT("T"), Category: "list", Doc: "All but the first element."},
		{Name: "append", Params: []*Type{listT("T"), tv("T")}, ParamNames: []string{"l", "v"}, ReturnType: listT("T"), Category: "list", Doc: "A new list with v appended."},
		{Name: "reverse", Params: []*Type{listT("T")}, ParamNames: []string{"l"}, ReturnType: listT("T"), Category: "list", Doc: "A new list with elements reversed."},
		{Name: "concat", Params: []*Type{listT("T"), listT("T")}, ParamNames: []string{"a", "b"}, ReturnType: listT("T"), Category: "list", Doc: "A new list, a followed by b."},
		{Name: "get", Params: []*Type{listT("T"), Int64}, ParamNames: []string{"l", "i"}, ReturnType: r.OptionOf(tv("T")), Category: "list", Doc: "Element at index i, or None if out of range."},
		{Name: "set", Params: []*Type{listT("T"), Int64, tv("T")}, ParamNames: []string{"l", "i", "v"}, ReturnType: listT("T"), Category: "list", Doc: "A new list with index i replaced by v; traps if out of range."},

		{Name: "read_file", Params: []*Type{String}, ParamNames: []string{"path"}, ReturnType: String, Effects: []EffectName{EffectFileSystem}, Category: "io", Doc: "Read an entire file as a string."},
		{Name: "write_file", Params: []*Type{String, String}, ParamNames: []string{"path", "contents"}, ReturnType: Unit, Effects: []EffectName{EffectFileSystem}, Category: "io", Doc: "Overwrite a file with contents."},
		{Name: "read_line", Params: nil, ReturnType: String, Effects: []EffectName{EffectFileSystem}, Category: "io", Doc: "Read a single line from stdin."},
		{Name: "read_all_stdin", Params: nil, ReturnType: String, Effects: []EffectName{EffectFileSystem}, Category: "io", Doc: "Read stdin to EOF."},
		{Name: "get_args", Params: nil, ReturnType: listT("String"), Effects: []EffectName{EffectFileSystem}, Category: "io", Doc: "The program's positional arguments."},
		{Name: "exit", Params: []*Type{Int64}, ParamNames: []string{"code"}, ReturnType: Unit, Effects: []EffectName{EffectFileSystem}, Category: "io", Doc: "Terminate the process with code."},

		{Name: "assert_eq", Params: []*Type{tv("T"), tv("T")}, ParamNames: []string{"actual", "expected"}, ReturnType: Unit, Effects: []EffectName{EffectTest}, Category: "test", Doc: "Record a failure if actual != expected."},
		{Name: "assert_eq_float", Params: []*Type{Float64, Float64}, ParamNames: []string{"actual", "expected"}, ReturnType: Unit, Effects: []EffectName{EffectTest}, Category: "test", Doc: "Record a failure if actual and expected differ by more than a small epsilon."},
		{Name: "assert_eq_string", Params: []*Type{String, String}, ParamNames: []string{"actual", "expected"}, ReturnType: Unit, Effects: []EffectName{EffectTest}, Category: "test", Doc: "Record a failure if actual != expected."},
		{Name: "assert_true", Params: []*Type{Bool}, ParamNames: []string{"cond"}, ReturnType: Unit, Effects: []EffectName{EffectTest}, Category: "test", Doc: "Record a failure if cond is False."},
		{Name: "assert_false", Params: []*Type{Bool}, ParamNames: []string{"cond"}, ReturnType: Unit, Effects: []EffectName{EffectTest}, Category: "test", Doc: "Record a failure if cond is True."},

		{Name: "now_ms", Params: nil, ReturnType: Timestamp, Effects: []EffectName{EffectTime}, Category: "time", Doc: "Current time in milliseconds since epoch."},
		{Name: "timestamp_to_string", Params: []*Type{Timestamp}, ParamNames: []string{"t"}, ReturnType: String, Category: "time", Doc: "RFC3339 rendering of t."},
		{Name: "string_to_timestamp", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: r.OptionOf(Timestamp), Category: "time", Doc: "Parse s as an RFC3339 timestamp, or None if it isn't one."},
		{Name: "hash_sha256", Params: []*Type{Bytes}, ParamNames: []string{"b"}, ReturnType: Bytes, Category: "crypto", Doc: "SHA-256 digest of b."},
		{Name: "random_int", Params: nil, ReturnType: Int64, Effects: []EffectName{EffectRandom}, Category: "random", Doc: "A pseudo-random Int64, substitutable with a fixed seed under the test harness."},

		{Name: "fail", Params: []*Type{String}, ParamNames: []string{"message"}, ReturnType: Unit, Effects: []EffectName{EffectTest}, Category: "test", Doc: "Unconditionally record a test failure with message."},

		{Name: "string_eq", Params: []*Type{String, String}, ParamNames: []string{"a", "b"}, ReturnType: Bool, Category: "string", Doc: "Content equality of two strings."},
		{Name: "string_length", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: Int64, Category: "string", Doc: "Number of Unicode scalar values in s."},
		{Name: "substring", Params: []*Type{String, Int64, Int64}, ParamNames: []string{"s", "start", "end"}, ReturnType: String, Category: "string", Doc: "The substring [start, end), clamped to s's bounds."},
		{Name: "char_at", Params: []*Type{String, Int64}, ParamNames: []string{"s", "i"}, ReturnType: Int64, Category: "string", Doc: "Code point at index i, or -1 if out of range."},
		{Name: "contains", Params: []*Type{String, String}, ParamNames: []string{"s", "needle"}, ReturnType: Bool, Category: "string", Doc: "Whether needle occurs in s."},
		{Name: "index_of", Params: []*Type{String, String}, ParamNames: []string{"s", "needle"}, ReturnType: Int64, Category: "string", Doc: "Index of needle's first occurrence in s, or -1."},
		{Name: "trim", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: String, Category: "string", Doc: "s with leading and trailing whitespace removed."},
		{Name: "split", Params: []*Type{String, String}, ParamNames: []string{"s", "sep"}, ReturnType: listT("String"), Category: "string", Doc: "s split on every occurrence of sep."},
		{Name: "char_code", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: Int64, Category: "string", Doc: "Code point of a single-character string, or -1."},
		{Name: "char_from_code", Params: []*Type{Int64}, ParamNames: []string{"code"}, ReturnType: String, Category: "string", Doc: "The single-character string for a code point."},

		{Name: "int_to_float", Params: []*Type{Int64}, ParamNames: []string{"n"}, ReturnType: Float64, Category: "conv", Doc: "Widen an Int64 to Float64."},
		{Name: "float_to_int", Params: []*Type{Float64}, ParamNames: []string{"n"}, ReturnType: Int64, Category: "conv", Doc: "Truncate a Float64 toward zero."},
		{Name: "int_to_string", Params: []*Type{Int64}, ParamNames: []string{"n"}, ReturnType: String, Category: "conv", Doc: "Decimal rendering of an Int64."},
		{Name: "float_to_string", Params: []*Type{Float64}, ParamNames: []string{"n"}, ReturnType: String, Category: "conv", Doc: "Decimal rendering of a Float64."},
		{Name: "string_to_int", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: r.OptionOf(Int64), Category: "conv", Doc: "Parse s as an Int64, or None if it isn't one."},
		{Name: "string_to_float", Params: []*Type{String}, ParamNames: []string{"s"}, ReturnType: r.OptionOf(Float64), Category: "conv", Doc: "Parse s as a Float64, or None if it isn't one."},

		{Name: "abs_int", Params: []*Type{Int64}, ParamNames: []string{"n"}, ReturnType: Int64, Category: "math", Doc: "Absolute value of n."},
		{Name: "min_int", Params: []*Type{Int64, Int64}, ParamNames: []string{"a", "b"}, ReturnType: Int64, Category: "math", Doc: "Lesser of a and b."},
		{Name: "max_int", Params: []*Type{Int64, Int64}, ParamNames: []string{"a", "b"}, ReturnType: Int64, Category: "math", Doc: "Greater of a and b."},
		{Name: "sqrt", Params: []*Type{Float64}, ParamNames: []string{"n"}, ReturnType: Float64, Category: "math", Doc: "Square root of n."},
		{Name: "pow", Params: []*Type{Float64, Float64}, ParamNames: []string{"base", "exp"}, ReturnType: Float64, Category: "math", Doc: "base raised to exp."},
		{Name: "floor", Params: []*Type{Float64}, ParamNames: []string{"n"}, ReturnType: Float64, Category: "math", Doc: "Largest integer value not greater than n."},
		{Name: "ceil", Params: []*Type{Float64}, ParamNames: []string{"n"}, ReturnType: Float64, Category: "math", Doc: "Smallest integer value not less than n."},
		{Name: "f64_rem", Params: []*Type{Float64, Float64}, ParamNames: []string{"a", "b"}, ReturnType: Float64, Category: "math", Doc: "Floating-point remainder of a / b."},

		{Name: "map_new", Params: nil, ReturnType: mapT("K", "V"), Category: "map", Doc: "An empty map."},
		{Name: "map_size", Params: []*Type{mapT("K", "V")}, ParamNames: []string{"m"}, ReturnType: Int64, Category: "map", Doc: "Number of entries in m."},
		{Name: "map_has", Params: []*Type{mapT("K", "V"), tv("K")}, ParamNames: []string{"m", "key"}, ReturnType: Bool, Category: "map", Doc: "Whether key is present in m."},
		{Name: "map_get", Params: []*Type{mapT("K", "V"), tv("K")}, ParamNames: []string{"m", "key"}, ReturnType: r.OptionOf(tv("V")), Category: "map", Doc: "The value for key, or None."},
		{Name: "map_set", Params: []*Type{mapT("K", "V"), tv("K"), tv("V")}, ParamNames: []string{"m", "key", "value"}, ReturnType: mapT("K", "V"), Category: "map", Doc: "A new map with key bound to value."},
		{Name: "map_remove", Params: []*Type{mapT("K", "V"), tv("K")}, ParamNames: []string{"m", "key"}, ReturnType: mapT("K", "V"), Category: "map", Doc: "A new map with key absent."},
		{Name: "map_keys", Params: []*Type{mapT("K", "V")}, ParamNames: []string{"m"}, ReturnType: listT("K"), Category: "map", Doc: "m's keys, in insertion order."},
		{Name: "map_values", Params: []*Type{mapT("K", "V")}, ParamNames: []string{"m"}, ReturnType: listT("V"), Category: "map", Doc: "m's values, in insertion order."},
	}
	for _, e := range entries {
		r.DefineBuiltin(e)
	}

	// Polymorphic sum-type constructors (Some/None/Ok/Err) are resolved as
	// checker intrinsics (spec.md §4.3.3, §9), not ordinary registry
	// entries: they have no fixed monomorphic signature to register here.
}
