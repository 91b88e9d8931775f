// Package codegen lowers a checked Clarity module (an *ast.Module whose
// expression nodes carry resolved types from package checker) into a
// core WebAssembly binary (component C6). It builds a *wasm.Module value
// using the teacher's general WASM encoder package and serializes it
// with that package's own Encode method — see DESIGN.md.
package codegen

import (
	"fmt"

	"github.com/clarity-lang/clarity/ast"
	"github.com/clarity-lang/clarity/diag"
	"github.com/clarity-lang/clarity/types"
	"github.com/clarity-lang/clarity/wasm"
)

// importedFunc describes one env.* host import in declaration order,
// used to compute the function index space (imports come first).
type importedFunc struct {
	module, name string
	sig          wasm.FuncType
}

// Generator holds all state needed to lower one checked module to a
// *wasm.Module: the type index cache, the function index space, and the
// function table used for indirect calls (non-capturing lambdas).
type Generator struct {
	registry *types.Registry
	mod      *ast.Module

	typeIndex map[string]uint32 // canonical FuncType signature -> type index
	funcTypes []wasm.FuncType

	imports   []importedFunc
	importIdx map[string]uint32 // "module.name" -> func index

	funcs       []*wasm.FuncBody
	funcTypeIdx []uint32
	funcNames   []string          // parallel to funcs, for debugging/exports
	funcIndex   map[string]uint32 // mangled name -> func index (imports + locals)

	exports []wasm.Export

	table           []uint32                   // function table (funcidx per slot), for lambdas
	tableSlot       map[uint32]uint32          // func index -> table slot, assigned on first reference
	lambdaFuncIndex map[*ast.LambdaExpr]uint32 // lambda node -> its lowered top-level func index

	dataSegs  []wasm.DataSegment
	dataOff   uint32            // bump offset for string/constant data, separate from runtime heap
	dataBytes map[string]uint32 // interned literal string -> data offset, for dedup

	heapBase uint32

	diags diag.Bag
}

// Generate lowers mod (already type-checked against reg) to a binary
// WASM module. The returned diagnostics are warnings only (codegen
// failures are returned as the trailing error); spec.md §9's
// mutual-recursion note ("emit a compile-time warning when a non-self
// call is in tail position") surfaces here as diag.KindUnsupportedTCO.
func Generate(mod *ast.Module, reg *types.Registry) ([]byte, []diag.Diagnostic, error) {
	g := &Generator{
		registry:  reg,
		mod:       mod,
		typeIndex: make(map[string]uint32),
		importIdx: make(map[string]uint32),
		funcIndex: make(map[string]uint32),
	}
	g.registerImports()
	if err := g.registerLambdas(); err != nil {
		return nil, nil, err
	}
	g.registerDataAndFuncIndices()
	if err := g.compileAll(); err != nil {
		return nil, nil, err
	}
	m := g.build()
	return m.Encode(), g.diags.All(), nil
}

// valTypeOf is always i64: every Clarity value, Float64 included, crosses
// a function boundary as a 64-bit word (a raw integer, or a linear-memory
// pointer widened to i64, or an f64's bit pattern via i64.reinterpret_f64).
// A uniform ABI width means a generic function's compiled body never
// needs a monomorphized copy per instantiation — the body only ever moves
// opaque i64 words around for its type-variable-typed values, and
// concrete Float64 arithmetic reinterprets to f64 only at the point of
// use (see exprFloatOp in expr.go). This resolves the generic-instantiation
// question in DESIGN.md's "Open Questions Resolved" without a monomorphization pass at all.
func valTypeOf(t *types.Type) wasm.ValType {
	_ = t
	return wasm.ValI64
}

// internFuncType interns ft into the module's type section and returns
// its index, reusing an existing entry on an identical signature.
func (g *Generator) internFuncType(ft wasm.FuncType) uint32 {
	key := fmt.Sprintf("%v->%v", ft.Params, ft.Results)
	if idx, ok := g.typeIndex[key]; ok {
		return idx
	}
	idx := uint32(len(g.funcTypes))
	g.funcTypes = append(g.funcTypes, ft)
	g.typeIndex[key] = idx
	return idx
}

func (g *Generator) build() *wasm.Module {
	m := &wasm.Module{
		Types: g.funcTypes,
	}
	for _, imp := range g.imports {
		m.Imports = append(m.Imports, wasm.Import{
			Module: imp.module,
			Name:   imp.name,
			Desc:   wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: g.internFuncType(imp.sig)},
		})
	}
	// One exported linear memory, initial size chosen generously for a
	// compiled test program; wazero grows it on demand via the imported
	// allocator's page-grow path (hostabi.Allocator.Alloc).
	m.Memories = []wasm.MemoryType{{Limits: wasm.Limits{Min: 16}}}
	m.Exports = append(m.Exports, wasm.Export{Name: "memory", Kind: wasm.KindMemory, Idx: 0})

	m.Funcs = g.funcTypeIdx
	for _, fb := range g.funcs {
		m.Code = append(m.Code, *fb)
	}

	if len(g.table) > 0 {
		max := uint64(len(g.table))
		m.Tables = []wasm.TableType{{ElemType: wasm.ValFuncRef, Limits: wasm.Limits{Min: uint64(len(g.table)), Max: &max}}}
		m.Elements = []wasm.Element{{
			Flags:    0,
			Offset:   encodeConstI32(0),
			FuncIdxs: g.table,
		}}
	}

	m.Data = g.dataSegs

	// heap_base tells the host where the runtime allocator's watermark
	// must start: immediately past every compile-time string/constant
	// data segment, so a runtime allocation never overwrites literal data.
	base := g.heapBase
	if base == 0 {
		base = 8
	}
	m.Globals = []wasm.Global{{
		Type: wasm.GlobalType{ValType: wasm.ValI32, Mutable: false},
		Init: encodeConstI32(int32(base)),
	}}
	m.Exports = append(m.Exports, wasm.Export{Name: "heap_base", Kind: wasm.KindGlobal, Idx: 0})

	// spec.md §4.4.7: every top-level function is exported under its
	// declared name, regardless of the source-level `export` keyword —
	// that keyword governs cross-module visibility (`import { names }
	// from module`), a separate concern from the WASM export surface the
	// host and test harness both need every function reachable through.
	for i, name := range g.funcNames {
		m.Exports = append(m.Exports, wasm.Export{
			Name: name,
			Kind: wasm.KindFunc,
			Idx:  uint32(len(g.imports) + i),
		})
	}
	return m
}

// internStringData places s into the module's data section, deduplicating
// repeated literals by content, and returns its (ptr, len) — the compile-
// time counterpart to hostabi.StringInterner, since literal bytes are
// known at codegen time and don't need a runtime allocation at all.
func (g *Generator) internStringData(s string) (ptr, length uint32) {
	if s == "" {
		return 0, 0
	}
	if g.dataBytes == nil {
		g.dataBytes = make(map[string]uint32)
	}
	if off, ok := g.dataBytes[s]; ok {
		return off, uint32(len(s))
	}
	if g.dataOff == 0 {
		g.dataOff = 8 // skip the reserved null-pointer sentinel byte
	}
	off := g.dataOff
	g.dataSegs = append(g.dataSegs, wasm.DataSegment{
		Offset: encodeConstI32(int32(off)),
		Init:   []byte(s),
	})
	g.dataBytes[s] = off
	g.dataOff = off + uint32(len(s))
	g.heapBase = (g.dataOff + 7) &^ 7
	return off, uint32(len(s))
}

// tableSlotFor assigns funcIdx a slot in the indirect function table used
// for lambda values and indirect calls, reusing the same slot on repeat
// references to the same function.
func (g *Generator) tableSlotFor(funcIdx uint32) uint32 {
	if g.tableSlot == nil {
		g.tableSlot = make(map[uint32]uint32)
	}
	if slot, ok := g.tableSlot[funcIdx]; ok {
		return slot
	}
	slot := uint32(len(g.table))
	g.table = append(g.table, funcIdx)
	g.tableSlot[funcIdx] = slot
	return slot
}

func encodeConstI32(v int32) []byte {
	buf := append([]byte{wasm.OpI32Const}, wasm.EncodeLEB128s(v)...)
	return append(buf, wasm.OpEnd)
}
