package array

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/ssungk/sharedarray/pkg/buf"
	"github.com/ssungk/sharedarray/pkg/linmath"
)

// ViewFlags select what an export must allow and which metadata it fills in.
type ViewFlags uint32

const (
	ViewSimple   ViewFlags = 0
	ViewWritable ViewFlags = 0x0001
	ViewFormat   ViewFlags = 0x0004
	ViewND       ViewFlags = 0x0008
	ViewStrides  ViewFlags = 0x0010 | ViewND

	ViewFullRO ViewFlags = ViewFormat | ViewStrides
	ViewFull   ViewFlags = ViewWritable | ViewFullRO
)

// View is a zero-copy description of an array's Storage. It pins the
// Storage until Release is called exactly once.
//
// Format, Shape and Strides are only filled in when the matching flag was
// requested; otherwise they are empty, which consumers must read as
// "undefined" rather than zero. Shape and Strides are allocated per
// export and belong to the consumer.
type View struct {
	Buf      unsafe.Pointer // first byte of the Storage
	Len      int            // bytes covered by the view
	ItemSize int
	ReadOnly bool
	Format   string
	NDim     int // 1 for flat views, 3 for matrix blocks
	Shape    []int
	Strides  []int

	pin atomic.Pointer[buf.Buffer]
}

// nullStorage is pinned by views of a null array so that every export,
// including those with no memory behind them, is released the same way.
var nullStorage = buf.New(nil)

// Bytes returns the viewed memory, or nil once the view is released.
func (v *View) Bytes() []byte {
	if v.Buf == nil || v.pin.Load() == nil {
		return nil
	}
	return unsafe.Slice((*byte)(v.Buf), v.Len)
}

// Release drops the view's pin on the Storage. A second call, or a call
// on a View that never came from an export, returns ErrViewReleased and
// changes nothing.
func (v *View) Release() error {
	mem := v.pin.Swap(nil)
	if mem == nil {
		return ErrViewReleased
	}
	v.Buf = nil
	v.Shape = nil
	v.Strides = nil
	mem.Release()
	return nil
}

// ReleaseView releases v; see View.Release.
func ReleaseView(v *View) error {
	if v == nil {
		return ErrViewReleased
	}
	return v.Release()
}

// ExportView exports the array's Storage. Arrays of matrices export
// (N, size, size) blocks; every other element type exports a flat view.
func (a *Array[T]) ExportView(flags ViewFlags) (*View, error) {
	return a.exportView(flags, false)
}

// ExportView exports the array's Storage read-only. Requesting
// ViewWritable fails with ErrWritabilityViolation.
func (c *ConstArray[T]) ExportView(flags ViewFlags) (*View, error) {
	return c.exportView(flags, true)
}

// ExportMatrixView reinterprets the Storage as consecutive kind matrices.
// The element type must be the matrix type itself or a scalar or vector
// type of the same precision, and the byte length must be a whole
// number of matrices.
func (a *Array[T]) ExportMatrixView(kind linmath.MatrixKind, flags ViewFlags) (*View, error) {
	return a.exportMatrixView(kind, flags, false)
}

// ExportMatrixView is the read-only form of Array.ExportMatrixView.
func (c *ConstArray[T]) ExportMatrixView(kind linmath.MatrixKind, flags ViewFlags) (*View, error) {
	return c.exportMatrixView(kind, flags, true)
}

func (h *handle[T]) exportView(flags ViewFlags, readOnly bool) (*View, error) {
	if readOnly && flags&ViewWritable != 0 {
		return nil, ErrWritabilityViolation
	}
	l := layoutOf[T]()
	if flags&ViewFormat != 0 && l.format == "" {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFormat, *new(T))
	}

	if l.matrix.Valid() {
		return h.pinView(matrixView(l.matrix, h.Len(), flags), readOnly), nil
	}

	v := &View{
		Len:      h.Len() * l.size,
		ItemSize: l.size,
		NDim:     1,
	}
	if flags&ViewFormat != 0 {
		v.Format = l.format
	}
	if flags&ViewND != 0 {
		v.Shape = []int{h.Len()}
	}
	if flags&ViewStrides == ViewStrides {
		v.Strides = []int{l.size}
	}
	return h.pinView(v, readOnly), nil
}

func (h *handle[T]) exportMatrixView(kind linmath.MatrixKind, flags ViewFlags, readOnly bool) (*View, error) {
	if readOnly && flags&ViewWritable != 0 {
		return nil, ErrWritabilityViolation
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, kind)
	}
	l := layoutOf[T]()
	if (l.matrix.Valid() && l.matrix != kind) || l.scalar != kind.Format() {
		return nil, fmt.Errorf("%w: cannot view %T storage as %v", ErrTypeMismatch, *new(T), kind)
	}
	byteLen := len(h.data())
	if byteLen%kind.ByteSize() != 0 {
		return nil, fmt.Errorf("%w: %d bytes, %v is %d bytes", ErrSizeMismatch, byteLen, kind, kind.ByteSize())
	}
	return h.pinView(matrixView(kind, byteLen/kind.ByteSize(), flags), readOnly), nil
}

// matrixView describes count consecutive row-major kind matrices.
func matrixView(kind linmath.MatrixKind, count int, flags ViewFlags) *View {
	size, itemSize := kind.Size(), kind.ItemSize()
	v := &View{
		Len:      count * kind.ByteSize(),
		ItemSize: itemSize,
		NDim:     3,
	}
	if flags&ViewFormat != 0 {
		v.Format = kind.Format()
	}
	if flags&ViewND != 0 {
		v.Shape = []int{count, size, size}
	}
	if flags&ViewStrides == ViewStrides {
		v.Strides = []int{kind.ByteSize(), itemSize * size, itemSize}
	}
	return v
}

// pinView takes the view's one reference on the Storage.
func (h *handle[T]) pinView(v *View, readOnly bool) *View {
	mem := h.mem
	if mem == nil {
		mem = nullStorage
	}
	mem.Retain()
	v.pin.Store(mem)
	v.Buf = unsafe.Pointer(unsafe.SliceData(mem.Data()))
	v.ReadOnly = readOnly
	return v
}
