package hostabi

import "sync"

// MapHandle identifies a live Map<K,V> value. Handle 0 is never issued,
// matching the pointer-sentinel convention used for Option/Result null
// representations elsewhere in the ABI.
type MapHandle uint32

type mapEntry struct {
	pairs map[uint64]uint64 // raw ABI word -> raw ABI word
	order []uint64          // insertion order, for deterministic keys()/values()
	valid bool
}

// MapTable is an arena of live Map values addressed by handle, grounded
// on the corpus's handle/backend resource table: a flat slice plus a
// free list, no borrow tracking (Clarity maps have no borrow semantics,
// only value-or-trap-on-stale-handle access). Keys and values are the
// raw packed i64 ABI word a compiled module already computed for them:
// correct identity for every primitive (Int64/Bool/Timestamp/Float64
// bit pattern) and for String keys, since every string the host builds
// (literals, string_concat results and other computed strings) passes
// through hostabi.StringInterner, and equal content always shares one
// interned pointer.
type MapTable struct {
	mu       sync.Mutex
	entries  []mapEntry
	freeList []MapHandle
}

func NewMapTable() *MapTable {
	return &MapTable{entries: make([]mapEntry, 0, 64)}
}

// New allocates an empty map and returns its handle.
func (t *MapTable) New() MapHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := mapEntry{pairs: make(map[uint64]uint64), valid: true}
	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
		return h
	}
	t.entries = append(t.entries, e)
	return MapHandle(len(t.entries))
}

// Set stores key -> value on an existing map handle, returning a fresh
// handle for the updated map (spec.md §8.1 "map functional update":
// the old handle keeps resolving to the unmodified map).
func (t *MapTable) Set(h MapHandle, key, value uint64) (MapHandle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	src, ok := t.get(h)
	if !ok {
		return 0, false
	}
	next := mapEntry{pairs: make(map[uint64]uint64, len(src.pairs)+1), valid: true}
	next.order = append(next.order, src.order...)
	for k, v := range src.pairs {
		next.pairs[k] = v
	}
	if _, existed := next.pairs[key]; !existed {
		next.order = append(next.order, key)
	}
	next.pairs[key] = value
	return t.store(next), true
}

// Remove returns a fresh handle for h with key absent (a no-op copy if
// key was not present).
func (t *MapTable) Remove(h MapHandle, key uint64) (MapHandle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	src, ok := t.get(h)
	if !ok {
		return 0, false
	}
	next := mapEntry{pairs: make(map[uint64]uint64, len(src.pairs)), valid: true}
	for _, k := range src.order {
		if k == key {
			continue
		}
		next.order = append(next.order, k)
		next.pairs[k] = src.pairs[k]
	}
	return t.store(next), true
}

func (t *MapTable) store(e mapEntry) MapHandle {
	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
		return h
	}
	t.entries = append(t.entries, e)
	return MapHandle(len(t.entries))
}

// Get returns the value stored at key, if present.
func (t *MapTable) Get(h MapHandle, key uint64) (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.get(h)
	if !ok {
		return 0, false
	}
	v, ok := e.pairs[key]
	return v, ok
}

// Has reports whether key is present in the map at handle h.
func (t *MapTable) Has(h MapHandle, key uint64) bool {
	_, ok := t.Get(h, key)
	return ok
}

// Len reports the number of entries in the map.
func (t *MapTable) Len(h MapHandle) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.get(h)
	if !ok {
		return 0, false
	}
	return len(e.pairs), true
}

// Keys returns the map's keys in insertion order.
func (t *MapTable) Keys(h MapHandle) ([]uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.get(h)
	if !ok {
		return nil, false
	}
	out := make([]uint64, len(e.order))
	copy(out, e.order)
	return out, true
}

// Values returns the map's values in the same insertion order as Keys.
func (t *MapTable) Values(h MapHandle) ([]uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.get(h)
	if !ok {
		return nil, false
	}
	out := make([]uint64, len(e.order))
	for i, k := range e.order {
		out[i] = e.pairs[k]
	}
	return out, true
}

func (t *MapTable) get(h MapHandle) (mapEntry, bool) {
	if h == 0 || int(h) > len(t.entries) {
		return mapEntry{}, false
	}
	e := t.entries[h-1]
	if !e.valid {
		return mapEntry{}, false
	}
	return e, true
}
