package hostabi

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Host wires every env.* import a compiled Clarity module expects into
// a wazero runtime and exposes the running instance's exported
// functions. Grounded on the corpus's single-module wazero engine
// (register host funcs under a namespace, compile, instantiate, call
// exports by name) with the component-model canonical-ABI lowering
// layer dropped, since Clarity compiles straight to core WASM with no
// component boundary to lower across.
type Host struct {
	runtime wazero.Runtime
	logger  *zap.Logger

	alloc  *Allocator
	strs   *StringInterner
	lists  *Lists
	maps   *MapTable
	assert *Assertions
	io     *IO
	crypto *Crypto
	clock  Clock
	random *Random
	stdio  *Stdio

	module api.Module
}

// Options configures a Host's non-deterministic dependencies so test
// runs can pin them.
type Options struct {
	Out    io.Writer
	In     io.Reader
	Args   []string
	Logger *zap.Logger
	Clock  Clock
	Seed   int64
}

// NewHost builds the env module definition and returns a Host ready to
// Load a compiled binary.
func NewHost(ctx context.Context, opts Options) *Host {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	h := &Host{
		runtime: wazero.NewRuntime(ctx),
		logger:  opts.Logger,
		maps:    NewMapTable(),
		assert:  NewAssertions(),
		crypto:  NewCrypto(),
		clock:   opts.Clock,
		random:  NewRandom(opts.Seed),
		stdio:   NewStdio(opts.In, opts.Args),
	}
	h.io = NewIO(opts.Out, h.logger)
	return h
}

// wazeroMemory adapts api.Memory to hostabi.Memory.
type wazeroMemory struct{ m api.Memory }

func (w wazeroMemory) Read(offset, length uint32) ([]byte, bool) { return w.m.Read(offset, length) }
func (w wazeroMemory) Write(offset uint32, data []byte) bool     { return w.m.Write(offset, data) }
func (w wazeroMemory) Size() uint32                              { return w.m.Size() }
func (w wazeroMemory) Grow(delta uint32) (uint32, bool)          { return w.m.Grow(delta) }

// Load compiles wasmBytes, binds the env namespace, instantiates, and
// rebinds the string/list helpers against the live instance's memory
// (only available after instantiation).
func (h *Host) Load(ctx context.Context, wasmBytes []byte) error {
	builder := h.runtime.NewHostModuleBuilder("env")
	h.registerFuncs(builder)
	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("hostabi: registering env module: %w", err)
	}

	compiled, err := h.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return fmt.Errorf("hostabi: compiling module: %w", err)
	}
	mod, err := h.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return fmt.Errorf("hostabi: instantiating module: %w", err)
	}
	h.module = mod

	mem := wazeroMemory{mod.Memory()}
	h.alloc = NewAllocator(mem)
	if g := mod.ExportedGlobal("heap_base"); g != nil {
		h.alloc.SetBase(uint32(g.Get()))
	}
	h.strs = NewStringInterner(h.alloc, mem)
	h.lists = NewLists(h.alloc, mem)
	return nil
}

// Call invokes an exported function by name.
func (h *Host) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn := h.module.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("hostabi: no exported function %q", name)
	}
	return fn.Call(ctx, args...)
}

// Assertions returns the recorder test_* runs fed their assert_* calls into.
func (h *Host) Assertions() *Assertions { return h.assert }

// InternString interns s into the running instance's linear memory and
// returns the packed (ptr,length) word a String-typed ABI parameter
// expects. Exposed so a driver (cmd/clarity's `run` subcommand) can
// marshal a CLI string argument the same way a compiled module would.
func (h *Host) InternString(s string) (uint64, error) {
	ptr, length, err := h.strs.Intern(s)
	if err != nil {
		return 0, fmt.Errorf("hostabi: interning %q: %w", s, err)
	}
	return packPtrLen(ptr, length), nil
}

// ReadString reads back the string addressed by a packed (ptr,length)
// word, the inverse of InternString — used to render a String-typed
// function result for `clarity run`.
func (h *Host) ReadString(word uint64) (string, error) {
	ptr, length := unpackPtrLen(word)
	return h.strs.Read(ptr, length)
}

// Close releases the wazero runtime and everything it owns.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// unpackPtrLen splits a single packed i64 word (high 32 bits ptr, low 32
// bits length) back into its two parts — the inverse of codegen's
// packPtrLen, since every string/list value crosses the ABI as one word.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	return uint32(packed >> 32), uint32(packed)
}

func packPtrLen(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

// readStr reads the string the packed word addresses, logging and
// falling back to the empty string on a bad pointer rather than
// panicking the whole host process over one malformed import call.
func (h *Host) readStr(packed uint64, who string) string {
	ptr, length := unpackPtrLen(packed)
	s, err := h.strs.Read(ptr, length)
	if err != nil {
		h.logger.Warn(who+": bad pointer", zap.Error(err))
		return ""
	}
	return s
}

func (h *Host) internStr(s string) uint64 {
	ptr, length, err := h.strs.Intern(s)
	if err != nil {
		h.logger.Warn("string intern failed", zap.Error(err))
		return 0
	}
	return packPtrLen(ptr, length)
}

func f64bits(v uint64) float64 { return math.Float64frombits(v) }
func bitsf64(v float64) uint64 { return math.Float64bits(v) }

func boolWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// someWord/noneWord build the tagged-union layout compileTaggedCtor emits
// at compile time (tag word followed by one payload word per field), for
// the handful of host imports that themselves need to return an
// Option<T> (spec.md §4.4.1: Some is tag 0, None is tag 1).
func (h *Host) someWord(payload uint64) uint64 {
	ptr, err := h.alloc.Alloc(16, 8)
	if err != nil {
		h.logger.Warn("someWord: alloc failed", zap.Error(err))
		return 0
	}
	mem := wazeroMemory{h.module.Memory()}
	writeWord(mem, ptr, 0)
	writeWord(mem, ptr+8, payload)
	return uint64(ptr)
}

func (h *Host) noneWord() uint64 {
	ptr, err := h.alloc.Alloc(8, 8)
	if err != nil {
		h.logger.Warn("noneWord: alloc failed", zap.Error(err))
		return 0
	}
	mem := wazeroMemory{h.module.Memory()}
	writeWord(mem, ptr, 1)
	return uint64(ptr)
}

func writeWord(mem Memory, ptr uint32, v uint64) {
	var buf [8]byte
	putUint64LE(buf[:], v)
	mem.Write(ptr, buf[:])
}

// stringListWord assembles a List<String> out of Go strings: each piece
// is interned (so repeated pieces across calls share storage) and the
// resulting packed (ptr,len) words are laid out as one flat i64 array,
// the same representation compileListLit produces for a literal list.
func (h *Host) stringListWord(pieces []string) uint64 {
	words := make([]uint64, len(pieces))
	for i, p := range pieces {
		words[i] = h.internStr(p)
	}
	if len(words) == 0 {
		return packPtrLen(0, 0)
	}
	arrPtr, err := h.alloc.Alloc(uint32(len(words))*8, 8)
	if err != nil {
		h.logger.Warn("stringListWord: alloc failed", zap.Error(err))
		return packPtrLen(0, 0)
	}
	mem := wazeroMemory{h.module.Memory()}
	for i, w := range words {
		writeWord(mem, arrPtr+uint32(i)*8, w)
	}
	return packPtrLen(arrPtr, uint32(len(words)))
}

func (h *Host) registerFuncs(b wazero.HostModuleBuilder) {
	bind := func(name string, fn any) { b.NewFunctionBuilder().WithFunc(fn).Export(name) }

	bind("mem_alloc", func(ctx context.Context, m api.Module, size uint64) uint64 {
		out, err := h.alloc.Alloc(uint32(size), 8)
		if err != nil {
			h.logger.Warn("mem_alloc: out of memory", zap.Error(err))
			return 0
		}
		return uint64(out)
	})

	// I/O and logging
	bind("print_string", func(ctx context.Context, m api.Module, packed uint64) {
		h.io.PrintString(h.readStr(packed, "print_string"))
	})
	bind("print_int", func(ctx context.Context, m api.Module, v uint64) {
		h.io.PrintInt(int64(v))
	})
	bind("print_float", func(ctx context.Context, m api.Module, v uint64) {
		h.io.PrintFloat(f64bits(v))
	})
	bind("log_info", func(ctx context.Context, m api.Module, packed uint64) {
		h.io.LogInfo(h.readStr(packed, "log_info"))
	})
	bind("log_warn", func(ctx context.Context, m api.Module, packed uint64) {
		h.io.LogWarn(h.readStr(packed, "log_warn"))
	})
	bind("read_line", func(ctx context.Context, m api.Module) uint64 {
		s, err := h.stdio.ReadLine()
		if err != nil {
			h.logger.Warn("read_line", zap.Error(err))
			return 0
		}
		return h.internStr(s)
	})
	bind("read_all_stdin", func(ctx context.Context, m api.Module) uint64 {
		s, err := h.stdio.ReadAllStdin()
		if err != nil {
			h.logger.Warn("read_all_stdin", zap.Error(err))
			return 0
		}
		return h.internStr(s)
	})
	bind("read_file", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		path := h.readStr(packed, "read_file")
		s, err := h.stdio.ReadFile(path)
		if err != nil {
			h.logger.Warn("read_file", zap.String("path", path), zap.Error(err))
			return 0
		}
		return h.internStr(s)
	})
	bind("write_file", func(ctx context.Context, m api.Module, pathPacked, contentPacked uint64) {
		path := h.readStr(pathPacked, "write_file")
		content := h.readStr(contentPacked, "write_file")
		if err := h.stdio.WriteFile(path, content); err != nil {
			h.logger.Warn("write_file", zap.String("path", path), zap.Error(err))
		}
	})
	bind("get_args", func(ctx context.Context, m api.Module) uint64 {
		return h.stringListWord(h.stdio.Args())
	})
	bind("exit", func(ctx context.Context, m api.Module, code uint64) {
		h.stdio.Exit(int(code))
	})

	// Strings
	bind("string_concat", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		p1, l1 := unpackPtrLen(a)
		p2, l2 := unpackPtrLen(c)
		ptr, length, err := h.strs.Concat(p1, l1, p2, l2)
		if err != nil {
			h.logger.Warn("string_concat: bad pointer", zap.Error(err))
			return 0
		}
		return packPtrLen(ptr, length)
	})
	bind("string_eq", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		p1, l1 := unpackPtrLen(a)
		p2, l2 := unpackPtrLen(c)
		eq, err := h.strs.Eq(p1, l1, p2, l2)
		if err != nil {
			h.logger.Warn("string_eq: bad pointer", zap.Error(err))
			return 0
		}
		return boolWord(eq)
	})
	bind("string_length", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		n, err := h.strs.Length(ptr, length)
		if err != nil {
			h.logger.Warn("string_length: bad pointer", zap.Error(err))
			return 0
		}
		return uint64(n)
	})
	bind("substring", func(ctx context.Context, m api.Module, packed uint64, start, end uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		p, l, err := h.strs.Substring(ptr, length, int64(start), int64(end))
		if err != nil {
			h.logger.Warn("substring: bad pointer", zap.Error(err))
			return 0
		}
		return packPtrLen(p, l)
	})
	bind("char_at", func(ctx context.Context, m api.Module, packed uint64, idx uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		code, err := h.strs.CharAt(ptr, length, int64(idx))
		if err != nil {
			h.logger.Warn("char_at: bad pointer", zap.Error(err))
			return uint64(int64(-1))
		}
		return uint64(code)
	})
	bind("contains", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		p1, l1 := unpackPtrLen(a)
		p2, l2 := unpackPtrLen(c)
		ok, err := h.strs.Contains(p1, l1, p2, l2)
		if err != nil {
			h.logger.Warn("contains: bad pointer", zap.Error(err))
			return 0
		}
		return boolWord(ok)
	})
	bind("index_of", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		p1, l1 := unpackPtrLen(a)
		p2, l2 := unpackPtrLen(c)
		idx, err := h.strs.IndexOf(p1, l1, p2, l2)
		if err != nil {
			h.logger.Warn("index_of: bad pointer", zap.Error(err))
			return uint64(int64(-1))
		}
		return uint64(idx)
	})
	bind("trim", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		p, l, err := h.strs.Trim(ptr, length)
		if err != nil {
			h.logger.Warn("trim: bad pointer", zap.Error(err))
			return 0
		}
		return packPtrLen(p, l)
	})
	bind("split", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		p1, l1 := unpackPtrLen(a)
		p2, l2 := unpackPtrLen(c)
		pieces, err := h.strs.Split(p1, l1, p2, l2)
		if err != nil {
			h.logger.Warn("split: bad pointer", zap.Error(err))
			return packPtrLen(0, 0)
		}
		return h.stringListWord(pieces)
	})
	bind("char_code", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		code, err := h.strs.CharCode(ptr, length)
		if err != nil {
			h.logger.Warn("char_code: bad pointer", zap.Error(err))
			return uint64(int64(-1))
		}
		return uint64(code)
	})
	bind("char_from_code", func(ctx context.Context, m api.Module, code uint64) uint64 {
		p, l, err := h.strs.CharFromCode(int64(code))
		if err != nil {
			h.logger.Warn("char_from_code: alloc failed", zap.Error(err))
			return 0
		}
		return packPtrLen(p, l)
	})

	// Conversions
	bind("int_to_float", func(ctx context.Context, m api.Module, v uint64) uint64 {
		return bitsf64(float64(int64(v)))
	})
	bind("float_to_int", func(ctx context.Context, m api.Module, v uint64) uint64 {
		return uint64(int64(f64bits(v)))
	})
	bind("int_to_string", func(ctx context.Context, m api.Module, v uint64) uint64 {
		return h.internStr(fmt.Sprintf("%d", int64(v)))
	})
	bind("float_to_string", func(ctx context.Context, m api.Module, v uint64) uint64 {
		return h.internStr(fmt.Sprintf("%g", f64bits(v)))
	})
	bind("string_to_int", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		s := h.readStr(packed, "string_to_int")
		var n int64
		if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
			return h.noneWord()
		}
		return h.someWord(uint64(n))
	})
	bind("string_to_float", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		s := h.readStr(packed, "string_to_float")
		var f float64
		if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
			return h.noneWord()
		}
		return h.someWord(bitsf64(f))
	})

	// Math
	bind("abs_int", func(ctx context.Context, m api.Module, v uint64) uint64 {
		n := int64(v)
		if n < 0 {
			n = -n
		}
		return uint64(n)
	})
	bind("min_int", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		if int64(a) < int64(c) {
			return a
		}
		return c
	})
	bind("max_int", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		if int64(a) > int64(c) {
			return a
		}
		return c
	})
	bind("sqrt", func(ctx context.Context, m api.Module, v uint64) uint64 {
		return bitsf64(math.Sqrt(f64bits(v)))
	})
	bind("pow", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		return bitsf64(math.Pow(f64bits(a), f64bits(c)))
	})
	bind("floor", func(ctx context.Context, m api.Module, v uint64) uint64 {
		return bitsf64(math.Floor(f64bits(v)))
	})
	bind("ceil", func(ctx context.Context, m api.Module, v uint64) uint64 {
		return bitsf64(math.Ceil(f64bits(v)))
	})
	bind("f64_rem", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		return bitsf64(math.Mod(f64bits(a), f64bits(c)))
	})

	// Lists
	bind("list_tail", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		p, l := h.lists.Tail(ptr, length, 8)
		return packPtrLen(p, l)
	})
	bind("list_append", func(ctx context.Context, m api.Module, packed, value uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		p, l, err := h.lists.Append(ptr, length, value)
		if err != nil {
			h.logger.Warn("list_append: alloc failed", zap.Error(err))
			return packed
		}
		return packPtrLen(p, l)
	})
	bind("list_reverse", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		p, err := h.lists.Reverse(ptr, length, 8)
		if err != nil {
			h.logger.Warn("list_reverse: alloc failed", zap.Error(err))
			return packed
		}
		return packPtrLen(p, length)
	})
	bind("list_concat", func(ctx context.Context, m api.Module, a, c uint64) uint64 {
		p1, l1 := unpackPtrLen(a)
		p2, l2 := unpackPtrLen(c)
		p, l, err := h.lists.Concat(p1, l1, p2, l2, 8)
		if err != nil {
			h.logger.Warn("list_concat: alloc failed", zap.Error(err))
			return packPtrLen(0, 0)
		}
		return packPtrLen(p, l)
	})
	bind("list_get", func(ctx context.Context, m api.Module, packed, idx uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		v, ok := h.lists.GetAt(ptr, length, int64(idx))
		if !ok {
			h.logger.Warn("list_get: index out of range")
			return 0
		}
		return v
	})
	bind("list_set", func(ctx context.Context, m api.Module, packed, idx, value uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		p, l, ok, err := h.lists.SetAt(ptr, length, int64(idx), value)
		if err != nil {
			h.logger.Warn("list_set: alloc failed", zap.Error(err))
			return packed
		}
		if !ok {
			h.logger.Warn("list_set: index out of range")
			return packed
		}
		return packPtrLen(p, l)
	})

	// Maps
	bind("map_new", func(ctx context.Context, m api.Module) uint64 {
		return uint64(h.maps.New())
	})
	bind("map_size", func(ctx context.Context, m api.Module, handle uint64) uint64 {
		n, _ := h.maps.Len(MapHandle(handle))
		return uint64(n)
	})
	bind("map_has", func(ctx context.Context, m api.Module, handle, key uint64) uint64 {
		return boolWord(h.maps.Has(MapHandle(handle), key))
	})
	bind("map_get", func(ctx context.Context, m api.Module, handle, key uint64) uint64 {
		v, ok := h.maps.Get(MapHandle(handle), key)
		if !ok {
			return h.noneWord()
		}
		return h.someWord(v)
	})
	bind("map_set", func(ctx context.Context, m api.Module, handle, key, value uint64) uint64 {
		nh, ok := h.maps.Set(MapHandle(handle), key, value)
		if !ok {
			h.logger.Warn("map_set: stale handle")
			return handle
		}
		return uint64(nh)
	})
	bind("map_remove", func(ctx context.Context, m api.Module, handle, key uint64) uint64 {
		nh, ok := h.maps.Remove(MapHandle(handle), key)
		if !ok {
			h.logger.Warn("map_remove: stale handle")
			return handle
		}
		return uint64(nh)
	})
	bind("map_keys", func(ctx context.Context, m api.Module, handle uint64) uint64 {
		keys, ok := h.maps.Keys(MapHandle(handle))
		if !ok {
			return packPtrLen(0, 0)
		}
		return h.wordListWord(keys)
	})
	bind("map_values", func(ctx context.Context, m api.Module, handle uint64) uint64 {
		values, ok := h.maps.Values(MapHandle(handle))
		if !ok {
			return packPtrLen(0, 0)
		}
		return h.wordListWord(values)
	})

	// Crypto / time / random
	bind("sha256", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		ptr, length := unpackPtrLen(packed)
		mem := wazeroMemory{m.Memory()}
		data, ok := mem.Read(ptr, length)
		if !ok {
			h.logger.Warn("sha256: bad pointer")
			return 0
		}
		digest := h.crypto.Sha256(data)
		out, err := h.alloc.Alloc(uint32(len(digest)), 1)
		if err != nil {
			h.logger.Warn("sha256: alloc failed", zap.Error(err))
			return 0
		}
		if !mem.Write(out, digest[:]) {
			return 0
		}
		return packPtrLen(out, uint32(len(digest)))
	})
	bind("time_now", func(ctx context.Context, m api.Module) uint64 {
		return uint64(h.clock.NowMillis())
	})
	bind("timestamp_to_string", func(ctx context.Context, m api.Module, v uint64) uint64 {
		ms := int64(v)
		return h.internStr(time.UnixMilli(ms).UTC().Format(time.RFC3339Nano))
	})
	bind("string_to_timestamp", func(ctx context.Context, m api.Module, packed uint64) uint64 {
		s := h.readStr(packed, "string_to_timestamp")
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return h.noneWord()
		}
		return h.someWord(uint64(t.UnixMilli()))
	})
	bind("random_int64", func(ctx context.Context, m api.Module) uint64 {
		return uint64(h.random.Int64())
	})

	// Assertions
	bind("assert_eq", func(ctx context.Context, m api.Module, got, want uint64) {
		h.assert.AssertEqInt(int64(got), int64(want))
	})
	bind("assert_eq_float", func(ctx context.Context, m api.Module, got, want uint64) {
		h.assert.AssertEqFloat(f64bits(got), f64bits(want))
	})
	bind("assert_eq_string", func(ctx context.Context, m api.Module, got, want uint64) {
		h.assert.AssertEqString(h.readStr(got, "assert_eq_string"), h.readStr(want, "assert_eq_string"))
	})
	bind("assert_true", func(ctx context.Context, m api.Module, cond uint64) {
		h.assert.AssertTrue(cond != 0, "assertion failed")
	})
	bind("assert_false", func(ctx context.Context, m api.Module, cond uint64) {
		h.assert.AssertFalse(cond != 0, "assertion failed")
	})
	bind("assert_fail", func(ctx context.Context, m api.Module, packed uint64) {
		h.assert.AssertFail(h.readStr(packed, "assert_fail"))
	})
}

// wordListWord lays out a flat List of raw i64 words (used by map_keys/
// map_values, whose elements are already-packed ABI words of unknown
// element type).
func (h *Host) wordListWord(words []uint64) uint64 {
	if len(words) == 0 {
		return packPtrLen(0, 0)
	}
	arrPtr, err := h.alloc.Alloc(uint32(len(words))*8, 8)
	if err != nil {
		h.logger.Warn("wordListWord: alloc failed", zap.Error(err))
		return packPtrLen(0, 0)
	}
	mem := wazeroMemory{h.module.Memory()}
	for i, w := range words {
		writeWord(mem, arrPtr+uint32(i)*8, w)
	}
	return packPtrLen(arrPtr, uint32(len(words)))
}
