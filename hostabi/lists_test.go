package hostabi

import "testing"

func newLists() (*Lists, *Allocator, *fakeMemory) {
	mem := newFakeMemory(65536)
	a := NewAllocator(mem)
	return NewLists(a, mem), a, mem
}

func allocWord(t *testing.T, mem *fakeMemory, a *Allocator, v uint64) uint32 {
	t.Helper()
	p, err := a.Alloc(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	var buf [8]byte
	putUint64LE(buf[:], v)
	if !mem.Write(p, buf[:]) {
		t.Fatal("write out of bounds")
	}
	return p
}

func TestListsTailIsAViewNotACopy(t *testing.T) {
	lists, a, mem := newLists()
	e1 := allocWord(t, mem, a, 1)
	listPtr, listLen, err := lists.Cons(e1, 8, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	e2 := allocWord(t, mem, a, 2)
	listPtr, listLen, err = lists.Cons(e2, 8, listPtr, listLen)
	if err != nil {
		t.Fatal(err)
	}
	if listLen != 2 {
		t.Fatalf("expected length 2, got %d", listLen)
	}

	tailPtr, tailLen := lists.Tail(listPtr, listLen, 8)
	if tailLen != 1 {
		t.Fatalf("expected tail length 1, got %d", tailLen)
	}
	elemPtr, ok := lists.Head(tailPtr, tailLen, 8)
	if !ok {
		t.Fatalf("expected head of a non-empty tail to succeed")
	}
	b, _ := mem.Read(elemPtr, 8)
	if getUint64LE(b) != 1 {
		t.Fatalf("expected tail's head to be the originally-consed element 1, got %d", getUint64LE(b))
	}
}

func TestListsHeadTrapsOnEmpty(t *testing.T) {
	lists, _, _ := newLists()
	if _, ok := lists.Head(0, 0, 8); ok {
		t.Fatalf("expected Head on an empty list to report ok=false")
	}
}

func TestListsAppendLeavesOriginalUntouched(t *testing.T) {
	lists, a, mem := newLists()
	e1 := allocWord(t, mem, a, 10)
	p1, l1, err := lists.Cons(e1, 8, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	p2, l2, err := lists.Append(p1, l1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if l2 != 2 {
		t.Fatalf("expected appended length 2, got %d", l2)
	}
	if l1 != 1 {
		t.Fatalf("expected original length to remain 1, got %d", l1)
	}
	v, ok := lists.GetAt(p2, l2, 1)
	if !ok || v != 20 {
		t.Fatalf("expected appended element 20 at index 1, got %d ok=%v", v, ok)
	}
}

func TestListsGetAtOutOfRange(t *testing.T) {
	lists, a, mem := newLists()
	e1 := allocWord(t, mem, a, 5)
	p1, l1, _ := lists.Cons(e1, 8, 0, 0)
	if _, ok := lists.GetAt(p1, l1, 5); ok {
		t.Fatalf("expected an out-of-range GetAt to report ok=false")
	}
	if _, ok := lists.GetAt(p1, l1, -1); ok {
		t.Fatalf("expected a negative index to report ok=false")
	}
}

func TestListsSetAtDoesNotMutateOriginal(t *testing.T) {
	lists, a, mem := newLists()
	e1 := allocWord(t, mem, a, 1)
	p1, l1, err := lists.Cons(e1, 8, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	p1, l1, err = lists.Append(p1, l1, 2)
	if err != nil {
		t.Fatal(err)
	}

	p2, l2, ok, err := lists.SetAt(p1, l1, 1, 99)
	if err != nil || !ok {
		t.Fatalf("expected SetAt to succeed, got ok=%v err=%v", ok, err)
	}
	v, _ := lists.GetAt(p2, l2, 1)
	if v != 99 {
		t.Fatalf("expected updated element 99, got %d", v)
	}
	orig, _ := lists.GetAt(p1, l1, 1)
	if orig != 2 {
		t.Fatalf("expected original list unchanged at index 1, got %d", orig)
	}
}

func TestListsSetAtOutOfRange(t *testing.T) {
	lists, a, mem := newLists()
	e1 := allocWord(t, mem, a, 1)
	p1, l1, _ := lists.Cons(e1, 8, 0, 0)
	if _, _, ok, err := lists.SetAt(p1, l1, 10, 0); ok || err != nil {
		t.Fatalf("expected an out-of-range SetAt to report ok=false with no error, got ok=%v err=%v", ok, err)
	}
}

func TestListsConcat(t *testing.T) {
	lists, a, mem := newLists()
	e1 := allocWord(t, mem, a, 1)
	p1, l1, _ := lists.Cons(e1, 8, 0, 0)
	e2 := allocWord(t, mem, a, 2)
	p2, l2, _ := lists.Cons(e2, 8, 0, 0)

	p3, l3, err := lists.Concat(p1, l1, p2, l2, 8)
	if err != nil {
		t.Fatal(err)
	}
	if l3 != 2 {
		t.Fatalf("expected concatenated length 2, got %d", l3)
	}
	v0, _ := lists.GetAt(p3, l3, 0)
	v1, _ := lists.GetAt(p3, l3, 1)
	if v0 != 1 || v1 != 2 {
		t.Fatalf("expected [1,2], got [%d,%d]", v0, v1)
	}
}

func TestListsConcatWithEmptyOperand(t *testing.T) {
	lists, _, _ := newLists()
	p, l, err := lists.Concat(0, 0, 0, 0, 8)
	if err != nil {
		t.Fatal(err)
	}
	if l != 0 || p != 0 {
		t.Fatalf("expected concatenating two empty lists to stay empty, got ptr=%d len=%d", p, l)
	}
}
