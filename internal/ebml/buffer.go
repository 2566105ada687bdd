package ebml

import (
	"bytes"
	"fmt"
	"unsafe"
)

// Buffer is an immutable owner byte slice plus an active half-open range.
// Views derived from the same owner alias one backing array; the array stays
// reachable for as long as any view references it, so the longest-lived view
// determines the owner's lifetime.
type Buffer struct {
	owner []byte
	start int
	end   int
}

// NewBuffer wraps owner with a view covering all of it.
func NewBuffer(owner []byte) Buffer {
	return NewBufferRange(owner, 0, len(owner))
}

// NewBufferRange wraps owner with the view [start, end). A range outside the
// owner is a caller bug, not bad input, and panics.
func NewBufferRange(owner []byte, start, end int) Buffer {
	if start < 0 || start > end || end > len(owner) {
		panic(fmt.Sprintf("ebml: view [%d,%d) outside owner of %d bytes", start, end, len(owner)))
	}
	return Buffer{owner: owner, start: start, end: end}
}

// Slice derives a view whose range is sub's position within the owner,
// checked by address containment rather than byte equality. sub must
// originate from the owner's backing array; anything else panics.
func (b Buffer) Slice(sub []byte) Buffer {
	start, ok := offsetIn(b.owner, sub)
	if !ok {
		panic("ebml: subslice does not belong to this buffer")
	}
	return NewBufferRange(b.owner, start, start+len(sub))
}

// Bytes dereferences the view.
func (b Buffer) Bytes() []byte {
	return b.owner[b.start:b.end]
}

func (b Buffer) Len() int {
	return b.end - b.start
}

func (b Buffer) Range() (start, end int) {
	return b.start, b.end
}

// Equal compares the materialized bytes and the range, not object identity.
func (b Buffer) Equal(o Buffer) bool {
	return b.start == o.start && b.end == o.end && bytes.Equal(b.Bytes(), o.Bytes())
}

func (b Buffer) String() string {
	return fmt.Sprintf("Buffer{data len: %d, range: [%d,%d)}", len(b.owner), b.start, b.end)
}

// offsetIn locates sub within owner by pointer arithmetic. An equality search
// would misfire on repeated content; only address containment counts.
func offsetIn(owner, sub []byte) (int, bool) {
	if len(sub) == 0 && len(owner) == 0 {
		return 0, true
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(owner)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(sub)))
	if base == 0 || p < base || p+uintptr(len(sub)) > base+uintptr(len(owner)) {
		return 0, false
	}
	return int(p - base), true
}
