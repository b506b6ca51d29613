package buf

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// Predefined buffer pool sizes.
// Storage for small and medium arrays comes from these tiers; anything
// larger than Size8M is mapped directly from the OS (see mapRegion).
const (
	Size32   = 1 << 5  // 32 bytes
	Size512  = 1 << 9  // 512 bytes
	Size4K   = 1 << 12 // 4 KB
	Size16K  = 1 << 14 // 16 KB
	Size64K  = 1 << 16 // 64 KB
	Size256K = 1 << 18 // 256 KB
	Size1M   = 1 << 20 // 1 MB
	Size4M   = 1 << 22 // 4 MB
	Size8M   = 1 << 23 // 8 MB
)

// Buffer pools for different size tiers.
// Pool slices are allocated as []uint64 so that every tier is at least
// 8-byte aligned and can back float64 and matrix elements.
var (
	pool32   = sync.Pool{New: func() any { return makeAligned(Size32) }}
	pool512  = sync.Pool{New: func() any { return makeAligned(Size512) }}
	pool4K   = sync.Pool{New: func() any { return makeAligned(Size4K) }}
	pool16K  = sync.Pool{New: func() any { return makeAligned(Size16K) }}
	pool64K  = sync.Pool{New: func() any { return makeAligned(Size64K) }}
	pool256K = sync.Pool{New: func() any { return makeAligned(Size256K) }}
	pool1M   = sync.Pool{New: func() any { return makeAligned(Size1M) }}
	pool4M   = sync.Pool{New: func() any { return makeAligned(Size4M) }}
	pool8M   = sync.Pool{New: func() any { return makeAligned(Size8M) }}
)

// mapThreshold is the smallest size served by an anonymous mapping.
var mapThreshold atomic.Int64

func init() {
	mapThreshold.Store(Size8M + 1)
}

// SetMapThreshold changes the size above which buffers are mapped from
// the OS instead of the pools. Values below Size8M+1 are raised to it so
// pooled tiers are never bypassed. It returns the previous threshold.
func SetMapThreshold(size int) int {
	if size <= Size8M {
		size = Size8M + 1
	}
	return int(mapThreshold.Swap(int64(size)))
}

// MapThreshold returns the current mapping threshold.
func MapThreshold() int {
	return int(mapThreshold.Load())
}

// alloc returns a buffer from pool based on size
// If size exceeds largest pool, allocates directly
func alloc(size int) []byte {
	switch {
	case size <= Size32:
		return pool32.Get().([]byte)[:size]
	case size <= Size512:
		return pool512.Get().([]byte)[:size]
	case size <= Size4K:
		return pool4K.Get().([]byte)[:size]
	case size <= Size16K:
		return pool16K.Get().([]byte)[:size]
	case size <= Size64K:
		return pool64K.Get().([]byte)[:size]
	case size <= Size256K:
		return pool256K.Get().([]byte)[:size]
	case size <= Size1M:
		return pool1M.Get().([]byte)[:size]
	case size <= Size4M:
		return pool4M.Get().([]byte)[:size]
	case size <= Size8M:
		return pool8M.Get().([]byte)[:size]
	default:
		// Size exceeds pool range, allocate directly
		return makeAligned(size)[:size]
	}
}

// free returns a buffer to the appropriate pool based on capacity
func free(buf []byte) {
	if buf == nil {
		return
	}

	capacity := cap(buf)

	switch capacity {
	case Size32:
		pool32.Put(buf[:cap(buf)])
	case Size512:
		pool512.Put(buf[:cap(buf)])
	case Size4K:
		pool4K.Put(buf[:cap(buf)])
	case Size16K:
		pool16K.Put(buf[:cap(buf)])
	case Size64K:
		pool64K.Put(buf[:cap(buf)])
	case Size256K:
		pool256K.Put(buf[:cap(buf)])
	case Size1M:
		pool1M.Put(buf[:cap(buf)])
	case Size4M:
		pool4M.Put(buf[:cap(buf)])
	case Size8M:
		pool8M.Put(buf[:cap(buf)])
	default:
		// Not from pool or oversized, let GC handle it
	}
}

// tierSize reports the capacity alloc hands out for size.
func tierSize(size int) int {
	for _, tier := range [...]int{Size32, Size512, Size4K, Size16K, Size64K, Size256K, Size1M, Size4M, Size8M} {
		if size <= tier {
			return tier
		}
	}
	return size
}

// makeAligned allocates size bytes backed by 8-byte words.
func makeAligned(size int) []byte {
	words := make([]uint64, (size+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size)
}
