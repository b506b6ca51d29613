package buf

import (
	"log/slog"
	"sync/atomic"
)

// Buffer represents a reference-counted buffer with custom release function.
//
// Len is the number of bytes in use and Cap the bytes reserved; both may
// change through Resize and Reserve, which require exclusive ownership
// (RefCount() == 1). The reference count itself is atomic, so Retain and
// Release may be called from any goroutine.
type Buffer struct {
	data     []byte
	refCount *atomic.Int32
	release  func([]byte)
}

// New creates a buffer without release function (GC managed)
func New(data []byte) *Buffer {
	return NewWithRelease(data, nil)
}

// NewPooled creates a buffer from pool, or from an anonymous mapping when
// size reaches MapThreshold. A mapping lives outside the Go heap: it is
// unmapped only by the final Release, never by the garbage collector, so
// slices of it stay valid until then and a buffer that is never released
// leaks its mapping.
func NewPooled(size int) *Buffer {
	b := NewWithRelease(nil, nil)
	b.data, b.release = allocate(size, size)
	return b
}

// NewWithRelease creates a buffer with custom release function
func NewWithRelease(data []byte, release func([]byte)) *Buffer {
	refCount := &atomic.Int32{}
	refCount.Store(1)

	return &Buffer{
		data:     data,
		refCount: refCount,
		release:  release,
	}
}

// Data returns the underlying byte slice
func (b *Buffer) Data() []byte {
	return b.data
}

// Len returns the length of the buffer
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the capacity of the buffer
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// RefCount returns the current number of references.
func (b *Buffer) RefCount() int32 {
	if b.refCount == nil {
		return 0
	}
	return b.refCount.Load()
}

// Unique reports whether the caller holds the only reference.
func (b *Buffer) Unique() bool {
	return b.RefCount() == 1
}

// Retain increments the reference count
func (b *Buffer) Retain() {
	if b.refCount != nil {
		b.refCount.Add(1)
	}
}

// Release decrements the reference count and calls release function when it reaches zero
func (b *Buffer) Release() {
	if b.refCount == nil {
		return
	}

	count := b.refCount.Add(-1)
	if count < 0 {
		panic("buf: release of a freed buffer")
	}
	if count == 0 && b.release != nil {
		b.release(b.data)
	}
}

// Reserve grows the capacity to at least capacity bytes, keeping the
// contents. The caller must hold the only reference.
func (b *Buffer) Reserve(capacity int) {
	if capacity <= cap(b.data) {
		return
	}
	b.mustOwn("reserve")

	data, release := allocate(len(b.data), capacity)
	copy(data, b.data)
	if b.release != nil {
		b.release(b.data)
	}
	b.data, b.release = data, release
}

// Resize sets the length to size bytes, growing the capacity when
// needed. Bytes past the old length are zeroed. The caller must hold the
// only reference.
func (b *Buffer) Resize(size int) {
	b.mustOwn("resize")

	old := len(b.data)
	if size > cap(b.data) {
		b.Reserve(growCap(cap(b.data), size))
	}
	b.data = b.data[:size]
	if size > old {
		clear(b.data[old:])
	}
}

// Clone returns a new, unshared buffer with the same contents and at
// least the same capacity.
func (b *Buffer) Clone() *Buffer {
	c := NewWithRelease(nil, nil)
	c.data, c.release = allocate(len(b.data), cap(b.data))
	copy(c.data, b.data)
	return c
}

func (b *Buffer) mustOwn(op string) {
	if b.refCount != nil && b.refCount.Load() > 1 {
		panic("buf: " + op + " on a shared buffer")
	}
}

// allocate returns size bytes with at least capacity bytes reserved,
// plus the function that gives the memory back.
func allocate(size, capacity int) ([]byte, func([]byte)) {
	if capacity >= MapThreshold() {
		region, err := mapRegion(capacity)
		if err == nil {
			return region.data[:size], func([]byte) { region.unmap() }
		}
		slog.Debug("Anonymous mapping failed, using heap", "size", capacity, "error", err)
	}
	data := alloc(capacity)
	return data[:size], free
}

// growCap picks the next capacity for a buffer that must hold need bytes.
func growCap(current, need int) int {
	next := current * 2
	if next < need {
		next = need
	}
	return tierSize(next)
}
