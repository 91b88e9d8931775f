package hostabi

type fakeMemory struct {
	data []byte
}

func newFakeMemory(size uint32) *fakeMemory {
	return &fakeMemory{data: make([]byte, size)}
}

func (f *fakeMemory) Read(offset, length uint32) ([]byte, bool) {
	if uint64(offset)+uint64(length) > uint64(len(f.data)) {
		return nil, false
	}
	out := make([]byte, length)
	copy(out, f.data[offset:offset+length])
	return out, true
}

func (f *fakeMemory) Write(offset uint32, data []byte) bool {
	if uint64(offset)+uint64(len(data)) > uint64(len(f.data)) {
		return false
	}
	copy(f.data[offset:], data)
	return true
}

func (f *fakeMemory) Size() uint32 { return uint32(len(f.data)) }

func (f *fakeMemory) Grow(deltaPages uint32) (uint32, bool) {
	prev := uint32(len(f.data)) / pageSize
	f.data = append(f.data, make([]byte, deltaPages*pageSize)...)
	return prev, true
}
