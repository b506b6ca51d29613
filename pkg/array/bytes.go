package array

import "fmt"

// FromBytes builds an array from raw native-endian bytes. See
// Array.SetFromBytes for the accepted inputs.
func FromBytes[T any](data []byte, itemSize int) (*Array[T], error) {
	a := New[T]()
	if err := a.SetFromBytes(data, itemSize); err != nil {
		return nil, err
	}
	return a, nil
}

// SetFromBytes replaces the contents with a verbatim copy of data.
//
// itemSize is the item size the producer declared for data; it must be 1
// (raw bytes) or the element size. The length of data must be a whole
// number of elements. On error the array is left unchanged. Empty input
// clears the array, which makes a null array empty.
func (a *Array[T]) SetFromBytes(data []byte, itemSize int) error {
	size := layoutOf[T]().size
	if itemSize != 1 && itemSize != size {
		return fmt.Errorf("%w: item size %d, element size %d", ErrTypeMismatch, itemSize, size)
	}
	if len(data)%size != 0 {
		return fmt.Errorf("%w: %d bytes, element size %d", ErrSizeMismatch, len(data), size)
	}

	if len(data) == 0 {
		a.Clear()
		return nil
	}
	copy(a.rebind(len(data)), data)
	return nil
}

// Bytes returns a copy of the backing bytes; nil for a null array and an
// empty, non-nil slice for an empty one.
func (h *handle[T]) Bytes() []byte {
	if h.mem == nil {
		return nil
	}
	data := h.mem.Data()
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// SubrangeBytes returns a copy of the bytes of count elements starting at
// element start. Out-of-range requests are clamped, never rejected:
//
//   - start is clamped to [0, Len()];
//   - a negative count yields no elements;
//   - otherwise count is raised to at least start, then lowered so that
//     start+count does not exceed Len().
func (h *handle[T]) SubrangeBytes(start, count int) []byte {
	if h.mem == nil {
		return nil
	}
	n := h.Len()
	start = min(max(start, 0), n)
	if count < 0 {
		count = 0
	} else {
		count = max(count, start)
	}
	count = min(count, n-start)

	size := layoutOf[T]().size
	out := make([]byte, count*size)
	copy(out, h.mem.Data()[start*size:])
	return out
}

// SetSubrangeBytes replaces the count elements starting at start with the
// elements encoded in data, which may hold a different number of
// elements; the array grows or shrinks accordingly.
func (a *Array[T]) SetSubrangeBytes(start, count int, data []byte) error {
	size := layoutOf[T]().size
	if len(data)%size != 0 {
		return fmt.Errorf("%w: %d bytes, element size %d", ErrSizeMismatch, len(data), size)
	}
	n := a.Len()
	if start < 0 || count < 0 || start > n || start+count > n {
		return fmt.Errorf("%w: range [%d, %d), length %d", ErrOutOfRange, start, start+count, n)
	}
	if a.mem == nil {
		return a.SetFromBytes(data, 1)
	}

	replaced := len(data) / size
	newLen := n - count + replaced
	tail := (n - start - count) * size

	a.own()
	if newLen > n {
		a.Resize(newLen)
	}
	mem := a.mem.Data()
	copy(mem[(start+replaced)*size:], mem[(start+count)*size:][:tail])
	if newLen < n {
		a.Resize(newLen)
		mem = a.mem.Data()
	}
	copy(mem[start*size:], data)
	return nil
}
