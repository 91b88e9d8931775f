package hostabi

// Lists are passed across the ABI as one packed (ptr, len) i64 word over
// a flat array of 8-byte elements in linear memory. Representing them as
// contiguous arrays rather than host-side cons cells keeps element access
// O(1) and lets tail() reuse the same backing storage (persistent-style
// sharing: tail copies nothing, while prepend, append, set, concat and
// reverse build a fresh array) while still giving List<T> value
// semantics, since nothing in Clarity ever mutates an existing list in
// place (spec.md §4.2 "lists are immutable; operations return new
// lists").
type Lists struct {
	alloc *Allocator
	mem   Memory
}

func NewLists(alloc *Allocator, mem Memory) *Lists {
	return &Lists{alloc: alloc, mem: mem}
}

// Tail returns a list view over the same backing array starting one
// element later, an O(1) slice rather than a copy.
func (l *Lists) Tail(ptr, length, elemSize uint32) (uint32, uint32) {
	if length == 0 {
		return ptr, 0
	}
	return ptr + elemSize, length - 1
}

// Head copies the first element's bytes out to a caller-supplied buffer
// pointer; traps (returns false) on an empty list, matching Clarity's
// `head` on Option<T> Non-goal of silent defaulting (spec.md §4.2: "head
// of an empty list is a runtime trap, not an Option").
func (l *Lists) Head(ptr, length, elemSize uint32) (elemPtr uint32, ok bool) {
	if length == 0 {
		return 0, false
	}
	return ptr, true
}

// Cons prepends one element to a list, which requires a full copy since
// the new array must be contiguous (spec.md §6.3: "O(n) prepend,
// documented as the tradeoff for O(1) tail").
func (l *Lists) Cons(elemPtr, elemSize, listPtr, listLen uint32) (uint32, uint32, error) {
	total := (listLen + 1) * elemSize
	newPtr, err := l.alloc.Alloc(total, 8)
	if err != nil {
		return 0, 0, err
	}
	head, ok := l.mem.Read(elemPtr, elemSize)
	if !ok {
		return 0, 0, errOutOfBounds
	}
	if !l.mem.Write(newPtr, head) {
		return 0, 0, errOutOfBounds
	}
	if listLen > 0 {
		rest, ok := l.mem.Read(listPtr, listLen*elemSize)
		if !ok {
			return 0, 0, errOutOfBounds
		}
		if !l.mem.Write(newPtr+elemSize, rest) {
			return 0, 0, errOutOfBounds
		}
	}
	return newPtr, listLen + 1, nil
}

// Reverse builds a new array with elements in reverse order.
func (l *Lists) Reverse(ptr, length, elemSize uint32) (uint32, error) {
	if length == 0 {
		return ptr, nil
	}
	newPtr, err := l.alloc.Alloc(length*elemSize, 8)
	if err != nil {
		return 0, err
	}
	for i := uint32(0); i < length; i++ {
		src, ok := l.mem.Read(ptr+i*elemSize, elemSize)
		if !ok {
			return 0, errOutOfBounds
		}
		dstOff := newPtr + (length-1-i)*elemSize
		if !l.mem.Write(dstOff, src) {
			return 0, errOutOfBounds
		}
	}
	return newPtr, nil
}

// Append adds one i64 element to the end of a list, copying into a fresh,
// one-element-larger backing array (spec.md §4.2: "append returns a new
// list; the original is unaffected"). elemSize is always 8 under the
// uniform ABI (valTypeOf), so Append, GetAt and SetAt hardcode it; Tail,
// Cons, Reverse and Concat take elemSize, which host.go always passes as 8.
func (l *Lists) Append(ptr, length uint32, value uint64) (uint32, uint32, error) {
	const elemSize = 8
	newPtr, err := l.alloc.Alloc((length+1)*elemSize, 8)
	if err != nil {
		return 0, 0, err
	}
	if length > 0 {
		existing, ok := l.mem.Read(ptr, length*elemSize)
		if !ok {
			return 0, 0, errOutOfBounds
		}
		if !l.mem.Write(newPtr, existing) {
			return 0, 0, errOutOfBounds
		}
	}
	var buf [elemSize]byte
	putUint64LE(buf[:], value)
	if !l.mem.Write(newPtr+length*elemSize, buf[:]) {
		return 0, 0, errOutOfBounds
	}
	return newPtr, length + 1, nil
}

// GetAt reads the element at idx, trapping (via the second, false return)
// on an out-of-range index rather than silently clamping, matching head's
// trap-on-empty convention (spec.md §4.2).
func (l *Lists) GetAt(ptr, length uint32, idx int64) (uint64, bool) {
	const elemSize = 8
	if idx < 0 || idx >= int64(length) {
		return 0, false
	}
	b, ok := l.mem.Read(ptr+uint32(idx)*elemSize, elemSize)
	if !ok {
		return 0, false
	}
	return getUint64LE(b), true
}

// SetAt returns a new list with the element at idx replaced by value,
// leaving the original list's backing array untouched.
func (l *Lists) SetAt(ptr, length uint32, idx int64, value uint64) (uint32, uint32, bool, error) {
	const elemSize = 8
	if idx < 0 || idx >= int64(length) {
		return 0, 0, false, nil
	}
	newPtr, err := l.alloc.Alloc(length*elemSize, 8)
	if err != nil {
		return 0, 0, false, err
	}
	existing, ok := l.mem.Read(ptr, length*elemSize)
	if !ok {
		return 0, 0, false, errOutOfBounds
	}
	if !l.mem.Write(newPtr, existing) {
		return 0, 0, false, errOutOfBounds
	}
	var buf [elemSize]byte
	putUint64LE(buf[:], value)
	if !l.mem.Write(newPtr+uint32(idx)*elemSize, buf[:]) {
		return 0, 0, false, errOutOfBounds
	}
	return newPtr, length, true, nil
}

func putUint64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64LE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// Concat appends two lists into one fresh backing array.
func (l *Lists) Concat(aPtr, aLen, bPtr, bLen, elemSize uint32) (uint32, uint32, error) {
	total := aLen + bLen
	if total == 0 {
		return 0, 0, nil
	}
	newPtr, err := l.alloc.Alloc(total*elemSize, 8)
	if err != nil {
		return 0, 0, err
	}
	if aLen > 0 {
		a, ok := l.mem.Read(aPtr, aLen*elemSize)
		if !ok {
			return 0, 0, errOutOfBounds
		}
		if !l.mem.Write(newPtr, a) {
			return 0, 0, errOutOfBounds
		}
	}
	if bLen > 0 {
		b, ok := l.mem.Read(bPtr, bLen*elemSize)
		if !ok {
			return 0, 0, errOutOfBounds
		}
		if !l.mem.Write(newPtr+aLen*elemSize, b) {
			return 0, 0, errOutOfBounds
		}
	}
	return newPtr, total, nil
}
