package array

import (
	"bytes"
	"unsafe"

	"github.com/ssungk/sharedarray/pkg/buf"
)

// handle is the read side shared by Array and ConstArray: a reference to
// Storage, or nil for the null array.
type handle[T any] struct {
	mem *buf.Buffer
}

// share returns a second reference to the same Storage.
func (h *handle[T]) share() handle[T] {
	if h.mem != nil {
		h.mem.Retain()
	}
	return handle[T]{mem: h.mem}
}

// duplicate returns a reference to a fresh copy of the Storage. A null
// handle duplicates to a null handle.
func (h *handle[T]) duplicate() handle[T] {
	if h.mem == nil {
		return handle[T]{}
	}
	return handle[T]{mem: h.mem.Clone()}
}

// IsNull reports whether the handle refers to no Storage at all.
func (h *handle[T]) IsNull() bool {
	return h.mem == nil
}

// IsEmpty reports whether the array has no elements. A null array is
// also empty; use IsNull to tell the two apart.
func (h *handle[T]) IsEmpty() bool {
	return h.Len() == 0
}

// Len returns the number of elements.
func (h *handle[T]) Len() int {
	if h.mem == nil {
		return 0
	}
	return h.mem.Len() / layoutOf[T]().size
}

// Cap returns the number of elements the Storage can hold without growing.
func (h *handle[T]) Cap() int {
	if h.mem == nil {
		return 0
	}
	return h.mem.Cap() / layoutOf[T]().size
}

// RefCount returns the number of handles and exported views currently
// holding the Storage, or 0 for a null array.
func (h *handle[T]) RefCount() int {
	if h.mem == nil {
		return 0
	}
	return int(h.mem.RefCount())
}

// Get returns the element at index i.
func (h *handle[T]) Get(i int) (T, error) {
	elems := h.elements()
	if i < 0 || i >= len(elems) {
		var zero T
		return zero, outOfRange(i, len(elems))
	}
	return elems[i], nil
}

// Slice returns the elements in place. The slice aliases Storage that may
// be shared with other handles and views, so it must not be written to;
// use Array.MutableSlice for writes.
func (h *handle[T]) Slice() []T {
	return h.elements()
}

// Ptr returns the address of the first element, or nil when there is no
// backing memory.
func (h *handle[T]) Ptr() unsafe.Pointer {
	if h.mem == nil {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(h.mem.Data()))
}

// Count returns how many elements equal v, comparing the bytes of every
// field. Padding between fields is ignored; float fields compare by bit
// pattern, so NaN matches an identical NaN and 0 does not match -0.
func (h *handle[T]) Count(v T) int {
	l := layoutOf[T]()
	want := unsafe.Slice((*byte)(unsafe.Pointer(&v)), l.size)
	data := h.data()

	n := 0
	for off := 0; off < len(data); off += l.size {
		if equalMasked(data[off:off+l.size], want, l.mask) {
			n++
		}
	}
	return n
}

func equalMasked(a, b, mask []byte) bool {
	if mask == nil {
		return bytes.Equal(a, b)
	}
	for i, m := range mask {
		if (a[i]^b[i])&m != 0 {
			return false
		}
	}
	return true
}

// Release drops this handle's reference. The handle becomes null; the
// Storage is freed once every other handle and view has released it too.
func (h *handle[T]) Release() {
	if h.mem != nil {
		h.mem.Release()
		h.mem = nil
	}
}

func (h *handle[T]) data() []byte {
	if h.mem == nil {
		return nil
	}
	return h.mem.Data()
}

func (h *handle[T]) elements() []T {
	data := h.data()
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), len(data)/layoutOf[T]().size)
}
