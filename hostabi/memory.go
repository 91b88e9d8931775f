// Package hostabi implements the Go side of the contract a compiled
// Clarity module expects from its host: linear-memory access, the bump
// allocator, string/list/record layout, the Map<K,V> handle table,
// assertion recording, and the imported env.* functions wired through
// wazero (component C7).
package hostabi

import "fmt"

// Memory is the subset of wazero's api.Memory this package depends on,
// named independently so hostabi can be unit-tested against a plain byte
// slice without spinning up a runtime.
type Memory interface {
	Read(offset, length uint32) ([]byte, bool)
	Write(offset uint32, data []byte) bool
	Size() uint32
	Grow(deltaPages uint32) (previousPages uint32, ok bool)
}

// Allocator is a bump allocator over a Memory: every Alloc call advances
// a single watermark and never reuses freed space. Clarity has no
// manual memory management in source, so a compacting or free-list
// allocator would add complexity with no corresponding language feature
// to drive it (spec.md §6.2 "bump-allocated linear memory").
type Allocator struct {
	mem       Memory
	watermark uint32
}

const pageSize = 65536

// NewAllocator creates a bump allocator starting immediately after the
// reserved zero page (offset 0 is never a valid allocation, so that a
// null/None sentinel pointer of 0 is unambiguous).
func NewAllocator(mem Memory) *Allocator {
	return &Allocator{mem: mem, watermark: 8}
}

// Alloc reserves size bytes aligned to align (a power of two) and grows
// memory in whole pages if the watermark would exceed the current size.
func (a *Allocator) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	start := (a.watermark + align - 1) &^ (align - 1)
	end := start + size
	if end > a.mem.Size() {
		needed := end - a.mem.Size()
		pages := (needed + pageSize - 1) / pageSize
		if _, ok := a.mem.Grow(pages); !ok {
			return 0, fmt.Errorf("hostabi: failed to grow memory by %d pages", pages)
		}
	}
	a.watermark = end
	return start, nil
}

// SetBase advances the watermark to base, if base is further along than
// the current watermark. Called once at load time with a compiled
// module's exported heap_base global, so runtime allocations start past
// whatever string/constant data the module's data segments occupy.
func (a *Allocator) SetBase(base uint32) {
	if base > a.watermark {
		a.watermark = base
	}
}

// Mark returns the current watermark, usable as a restore point for
// scratch allocations that don't need to outlive a single host call.
func (a *Allocator) Mark() uint32 { return a.watermark }

// Reset rewinds the watermark to a previous Mark. Only safe when nothing
// allocated since the mark has escaped into a return value.
func (a *Allocator) Reset(mark uint32) { a.watermark = mark }
