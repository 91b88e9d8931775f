package codegen

import "github.com/clarity-lang/clarity/wasm"

// hostImport names one env.* function hostabi.Host registers, alongside
// the raw wasm.ValType signature codegen needs to call it — a fixed
// table rather than deriving the list from types.Registry's builtins,
// since the two lists differ: mem_alloc and string_concat have no Clarity
// call syntax and are invoked by codegen when lowering literals and `++`,
// and several imports back a builtin of a different name (sha256 backs
// hash_sha256, time_now backs now_ms). Every signature here is
// shaped around the uniform i64 ABI: a string or list crosses as one
// packed i64 word (high 32 bits ptr, low 32 bits length), matching
// hostabi.Host's wazero function bindings exactly (see host.go) — a
// mismatch here would fail wazero instantiation, not just misbehave.
//
// This table is the full host-runtime ABI of spec.md §4.5: every import
// the Clarity built-in registry (types.registerBuiltins) can call
// through must have a matching entry here and a matching wazero
// registration in hostabi.Host.registerFuncs.
var hostImports = []importedFunc{
	{module: "env", name: "mem_alloc", sig: fn1(1)},

	// I/O and logging
	{module: "env", name: "print_string", sig: fn0(1)},
	{module: "env", name: "print_int", sig: fn0(1)},
	{module: "env", name: "print_float", sig: fn0(1)},
	{module: "env", name: "log_info", sig: fn0(1)},
	{module: "env", name: "log_warn", sig: fn0(1)},
	{module: "env", name: "read_line", sig: fn1(0)},
	{module: "env", name: "read_all_stdin", sig: fn1(0)},
	{module: "env", name: "read_file", sig: fn1(1)},
	{module: "env", name: "write_file", sig: fn0(2)},
	{module: "env", name: "get_args", sig: fn1(0)},
	{module: "env", name: "exit", sig: fn0(1)},

	// Strings
	{module: "env", name: "string_concat", sig: fn1(2)},
	{module: "env", name: "string_eq", sig: fn1(2)},
	{module: "env", name: "string_length", sig: fn1(1)},
	{module: "env", name: "substring", sig: fn1(3)},
	{module: "env", name: "char_at", sig: fn1(2)},
	{module: "env", name: "contains", sig: fn1(2)},
	{module: "env", name: "index_of", sig: fn1(2)},
	{module: "env", name: "trim", sig: fn1(1)},
	{module: "env", name: "split", sig: fn1(2)},
	{module: "env", name: "char_code", sig: fn1(1)},
	{module: "env", name: "char_from_code", sig: fn1(1)},

	// Conversions
	{module: "env", name: "int_to_float", sig: fn1(1)},
	{module: "env", name: "float_to_int", sig: fn1(1)},
	{module: "env", name: "int_to_string", sig: fn1(1)},
	{module: "env", name: "float_to_string", sig: fn1(1)},
	{module: "env", name: "string_to_int", sig: fn1(1)},
	{module: "env", name: "string_to_float", sig: fn1(1)},

	// Math
	{module: "env", name: "abs_int", sig: fn1(1)},
	{module: "env", name: "min_int", sig: fn1(2)},
	{module: "env", name: "max_int", sig: fn1(2)},
	{module: "env", name: "sqrt", sig: fn1(1)},
	{module: "env", name: "pow", sig: fn1(2)},
	{module: "env", name: "floor", sig: fn1(1)},
	{module: "env", name: "ceil", sig: fn1(1)},
	{module: "env", name: "f64_rem", sig: fn1(2)},

	// Lists (length/head compile inline; the rest need host-side allocation)
	{module: "env", name: "list_tail", sig: fn1(1)},
	{module: "env", name: "list_append", sig: fn1(2)},
	{module: "env", name: "list_reverse", sig: fn1(1)},
	{module: "env", name: "list_concat", sig: fn1(2)},
	{module: "env", name: "list_get", sig: fn1(2)},
	{module: "env", name: "list_set", sig: fn1(3)},

	// Maps
	{module: "env", name: "map_new", sig: fn1(0)},
	{module: "env", name: "map_size", sig: fn1(1)},
	{module: "env", name: "map_has", sig: fn1(2)},
	{module: "env", name: "map_get", sig: fn1(2)},
	{module: "env", name: "map_set", sig: fn1(3)},
	{module: "env", name: "map_remove", sig: fn1(2)},
	{module: "env", name: "map_keys", sig: fn1(1)},
	{module: "env", name: "map_values", sig: fn1(1)},

	// Crypto / time / random
	{module: "env", name: "sha256", sig: fn1(1)},
	{module: "env", name: "time_now", sig: fn1(0)},
	{module: "env", name: "timestamp_to_string", sig: fn1(1)},
	{module: "env", name: "string_to_timestamp", sig: fn1(1)},
	{module: "env", name: "random_int64", sig: fn1(0)},

	// Assertions (spec.md §4.5: "never throw", accumulate into the
	// current test's failure list instead)
	{module: "env", name: "assert_eq", sig: fn0(2)},
	{module: "env", name: "assert_eq_float", sig: fn0(2)},
	{module: "env", name: "assert_eq_string", sig: fn0(2)},
	{module: "env", name: "assert_true", sig: fn0(1)},
	{module: "env", name: "assert_false", sig: fn0(1)},
	{module: "env", name: "assert_fail", sig: fn0(1)},
}

// fn1 builds a FuncType of n i64 params returning one i64 — the shape of
// every value-returning host import, since the uniform ABI never crosses
// anything but i64 words (valTypeOf).
func fn1(n int) wasm.FuncType {
	return wasm.FuncType{Params: i64s(n), Results: []wasm.ValType{wasm.ValI64}}
}

// fn0 builds a FuncType of n i64 params returning nothing (print/assert/
// write-style imports called only for effect).
func fn0(n int) wasm.FuncType {
	return wasm.FuncType{Params: i64s(n)}
}

func i64s(n int) []wasm.ValType {
	if n == 0 {
		return nil
	}
	out := make([]wasm.ValType, n)
	for i := range out {
		out[i] = wasm.ValI64
	}
	return out
}

// registerImports appends every host import to the function index
// space; imports always occupy indices [0, len(imports)) ahead of any
// locally defined function, per the core WASM spec.
func (g *Generator) registerImports() {
	for i, imp := range hostImports {
		g.imports = append(g.imports, imp)
		g.importIdx[imp.module+"."+imp.name] = uint32(i)
	}
}
