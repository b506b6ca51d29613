package array

// ConstArray is a read-only handle. It never forks and never writes to
// its Storage, and the views it exports are read-only.
type ConstArray[T any] struct {
	handle[T]
}

// NewConst returns a null read-only array.
func NewConst[T any]() *ConstArray[T] {
	layoutOf[T]()
	return &ConstArray[T]{}
}

// ConstFromSlice returns a read-only array holding a copy of values.
func ConstFromSlice[T any](values []T) *ConstArray[T] {
	a := FromSlice(values)
	return &ConstArray[T]{handle: a.handle}
}

// Share returns a second read-only handle to the same Storage.
func (c *ConstArray[T]) Share() *ConstArray[T] {
	return &ConstArray[T]{handle: c.share()}
}

// Mutable returns a mutable handle to the same Storage. The new handle
// forks on its first write, so c never observes the change.
func (c *ConstArray[T]) Mutable() *Array[T] {
	return &Array[T]{handle: c.share()}
}

// DeepCopy returns a read-only handle to an independent copy of the
// Storage, keeping the null/empty distinction.
func (c *ConstArray[T]) DeepCopy() *ConstArray[T] {
	return &ConstArray[T]{handle: c.duplicate()}
}
