package buf

import (
	"errors"
	"sync/atomic"
)

var errMapUnsupported = errors.New("anonymous mapping not supported on this platform")

// region is an anonymous mapping outside the Go heap.
type region struct {
	data  []byte
	freed atomic.Bool
}

func mapRegion(size int) (*region, error) {
	data, err := mapAnonymous(size)
	if err != nil {
		return nil, err
	}
	return &region{data: data}, nil
}

// unmap releases the mapping once. It reports whether this call did it.
func (r *region) unmap() bool {
	if !r.freed.CompareAndSwap(false, true) {
		return false
	}
	return unmapAnonymous(r.data) == nil
}
