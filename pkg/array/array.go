// Package array implements a reference-counted, copy-on-write array whose
// backing Storage can be exported as zero-copy, shape and stride
// described views.
//
// Several handles may share one Storage. Every mutating method first
// forks the Storage when anything else (another handle or an exported
// view) still references it, so a handle never observes a write made
// through a different handle. Writable views are the exception: they
// alias the Storage as exported, without forking, and their writes are
// seen by every handle still sharing it. Storage stays alive until the
// last handle and the last view have released it.
//
// Storage at or above buf.MapThreshold lives in an anonymous mapping that
// only the final Release frees. Handles of that size must be released;
// slices and pointers taken from them stay valid until then.
//
// The reference count is atomic; nothing else is. A single handle must
// not be used from several goroutines without external locking, but
// different handles sharing one Storage may be used concurrently.
package array

import (
	"unsafe"

	"github.com/ssungk/sharedarray/pkg/buf"
)

// Array is a mutable handle. Handles are not copied by assignment; use
// Share to take a second reference and Release to drop one.
type Array[T any] struct {
	handle[T]
}

// New returns a null array: no Storage at all.
func New[T any]() *Array[T] {
	layoutOf[T]()
	return &Array[T]{}
}

// Make returns a non-null array of n zero elements.
func Make[T any](n int) *Array[T] {
	a := New[T]()
	a.Resize(n)
	return a
}

// FromSlice returns an array holding a copy of values. A nil slice yields
// an empty, non-null array.
func FromSlice[T any](values []T) *Array[T] {
	a := Make[T](len(values))
	copy(a.elements(), values)
	return a
}

// Share returns a second handle to the same Storage.
func (a *Array[T]) Share() *Array[T] {
	return &Array[T]{handle: a.share()}
}

// Const returns a read-only handle to the same Storage.
func (a *Array[T]) Const() *ConstArray[T] {
	return &ConstArray[T]{handle: a.share()}
}

// DeepCopy returns a handle to an independent copy of the Storage. A null
// array copies to a null array and an empty one to an empty one.
func (a *Array[T]) DeepCopy() *Array[T] {
	return &Array[T]{handle: a.duplicate()}
}

// Set stores v at index i.
func (a *Array[T]) Set(i int, v T) error {
	if i < 0 || i >= a.Len() {
		return outOfRange(i, a.Len())
	}
	a.own()
	a.elements()[i] = v
	return nil
}

// MutableSlice returns the elements in place after making the Storage
// exclusive to this handle. The slice is invalidated by any call that
// changes the length or capacity.
func (a *Array[T]) MutableSlice() []T {
	if a.mem == nil {
		return nil
	}
	a.own()
	return a.elements()
}

// MutablePtr is MutableSlice for callers that need the raw address.
func (a *Array[T]) MutablePtr() unsafe.Pointer {
	if a.mem == nil {
		return nil
	}
	a.own()
	return a.Ptr()
}

// Reserve ensures capacity for at least n elements.
func (a *Array[T]) Reserve(n int) {
	if n < 0 {
		panic("array: negative capacity")
	}
	a.own().Reserve(n * layoutOf[T]().size)
}

// Resize sets the length to n. New elements are zero.
func (a *Array[T]) Resize(n int) {
	if n < 0 {
		panic("array: negative length")
	}
	a.own().Resize(n * layoutOf[T]().size)
}

// Clear removes every element. A null array becomes empty.
func (a *Array[T]) Clear() {
	if a.mem != nil && a.mem.Unique() {
		a.mem.Resize(0)
		return
	}
	a.Release()
	a.mem = buf.New(nil)
}

// PushBack appends v.
func (a *Array[T]) PushBack(v T) {
	n := a.Len()
	a.Resize(n + 1)
	a.elements()[n] = v
}

// PopBack removes and returns the last element.
func (a *Array[T]) PopBack() (T, error) {
	n := a.Len()
	if n == 0 {
		var zero T
		return zero, outOfRange(-1, 0)
	}
	v := a.elements()[n-1]
	a.Resize(n - 1)
	return v, nil
}

// Insert places v before index i; i == Len() appends.
func (a *Array[T]) Insert(i int, v T) error {
	n := a.Len()
	if i < 0 || i > n {
		return outOfRange(i, n)
	}
	a.Resize(n + 1)
	elems := a.elements()
	copy(elems[i+1:], elems[i:n])
	elems[i] = v
	return nil
}

// Erase removes the element at index i.
func (a *Array[T]) Erase(i int) error {
	n := a.Len()
	if i < 0 || i >= n {
		return outOfRange(i, n)
	}
	a.own()
	elems := a.elements()
	copy(elems[i:], elems[i+1:])
	a.Resize(n - 1)
	return nil
}

// own makes the Storage exclusive to a before a write: a null array gets
// empty Storage and shared Storage is forked.
func (a *Array[T]) own() *buf.Buffer {
	switch {
	case a.mem == nil:
		a.mem = buf.New(nil)
	case !a.mem.Unique():
		forked := a.mem.Clone()
		a.mem.Release()
		a.mem = forked
	}
	return a.mem
}

// rebind points a at fresh Storage of byteLen bytes whose contents the
// caller overwrites entirely, skipping the copy a fork would make.
func (a *Array[T]) rebind(byteLen int) []byte {
	if a.mem != nil && a.mem.Unique() {
		a.mem.Resize(byteLen)
		return a.mem.Data()
	}
	a.Release()
	a.mem = buf.NewPooled(byteLen)
	return a.mem.Data()
}
