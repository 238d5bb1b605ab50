package stackalloc

import (
	"fmt"
	"math"
	"slices"
)

// StackAllocator is a bump allocator with stack discipline over one
// fixed-capacity byte region.
//
// One frontier grows from 0 towards the capacity. Every successful non-zero
// allocation records the pre-allocation frontier in a marker history, so any
// suffix of allocations can later be discarded at once with Free.
// The backing storage is reserved at construction time and is never resized.
//
// StackAllocator is not thread safe. Use one instance per goroutine or
// protect it with external synchronization.
type StackAllocator struct {
	buffer  []byte
	offset  Marker
	markers []Marker
}

// NewStackAllocator creates an allocator with capacity bytes
// of zeroed backing storage.
func NewStackAllocator(capacity uint) *StackAllocator {
	return &StackAllocator{
		buffer: make([]byte, capacity),
	}
}

// AllocBytes carves size bytes from the arena and returns them as a view
// aliasing the backing storage.
//
// A zero size always succeeds, returns an empty view and pushes no marker.
// Negative size fails with AllocationSizeError, insufficient remaining
// capacity fails with AllocationLimitError. A failed call leaves the
// allocator untouched.
//
// The view is valid until a Free or Clear that covers its range.
func (a *StackAllocator) AllocBytes(size int) ([]byte, error) {
	if size < 0 {
		return nil, AllocationSizeError
	}
	if size == 0 {
		return a.buffer[a.offset:a.offset:a.offset], nil
	}
	// compare against the remaining capacity, the sum can overflow
	if size > len(a.buffer)-int(a.offset) {
		return nil, AllocationLimitError
	}
	newOffset := a.offset + Marker(size)
	a.markers = append(a.markers, a.offset)
	// three-index form, so append on the view can't spill into the arena
	view := a.buffer[a.offset:newOffset:newOffset]
	a.offset = newOffset
	return view, nil
}

// AllocElems carves count elements of elemSize bytes each.
// The returned view always covers whole elements.
func (a *StackAllocator) AllocElems(elemSize int, count int) ([]byte, error) {
	size, sizeErr := elementsByteSize(elemSize, count)
	if sizeErr != nil {
		return nil, sizeErr
	}
	return a.AllocBytes(size)
}

// AllocElemBytes carves at least size bytes, rounding the request up to the
// nearest multiple of elemSize, so the view covers whole elements and is
// never shorter than requested.
func (a *StackAllocator) AllocElemBytes(elemSize int, size int) ([]byte, error) {
	roundedSize, sizeErr := roundedByteSize(elemSize, size)
	if sizeErr != nil {
		return nil, sizeErr
	}
	return a.AllocBytes(roundedSize)
}

// TryAllocBytes is a non-raising form of AllocBytes.
func (a *StackAllocator) TryAllocBytes(size int) ([]byte, bool) {
	view, allocErr := a.AllocBytes(size)
	return view, allocErr == nil
}

// TryAllocElems is a non-raising form of AllocElems.
func (a *StackAllocator) TryAllocElems(elemSize int, count int) ([]byte, bool) {
	view, allocErr := a.AllocElems(elemSize, count)
	return view, allocErr == nil
}

// TryAllocElemBytes is a non-raising form of AllocElemBytes.
func (a *StackAllocator) TryAllocElemBytes(elemSize int, size int) ([]byte, bool) {
	view, allocErr := a.AllocElemBytes(elemSize, size)
	return view, allocErr == nil
}

// Free rolls the frontier back to a previously observed marker and discards
// every allocation made at or after it.
//
// The marker has to be a value that Marker returned before one of the
// subsequent allocations. Negative values, values ahead of the current
// frontier and values never recorded in the history fail with
// InvalidMarkerError and leave the allocator untouched.
//
// Views over the discarded range stay aliased to the storage; using them
// after Free is a caller contract violation that is not detected here.
func (a *StackAllocator) Free(m Marker) error {
	if m < 0 || m > a.offset {
		return InvalidMarkerError
	}
	// the history is strictly increasing by construction,
	// so there is at most one match
	idx, found := slices.BinarySearch(a.markers, m)
	if !found {
		return InvalidMarkerError
	}
	a.markers = a.markers[:idx]
	a.offset = m
	return nil
}

// TryFree is a non-raising form of Free.
func (a *StackAllocator) TryFree(m Marker) bool {
	return a.Free(m) == nil
}

// Clear unconditionally rolls the allocator back to its initial state:
// frontier at 0, empty history, storage zeroed.
func (a *StackAllocator) Clear() {
	clearBytes(a.buffer[:a.offset])
	a.offset = 0
	a.markers = a.markers[:0]
}

// Marker returns the current frontier as a rollback token.
func (a *StackAllocator) Marker() Marker {
	return a.offset
}

// Capacity returns the size of the backing storage.
func (a *StackAllocator) Capacity() int {
	return len(a.buffer)
}

// FreeBytes returns the count of bytes that still can be allocated.
func (a *StackAllocator) FreeBytes() int {
	return len(a.buffer) - int(a.offset)
}

// UsedBytes returns the count of bytes currently carved out of the arena.
func (a *StackAllocator) UsedBytes() int {
	return int(a.offset)
}

// Metrics provides a snapshot of current allocation statistics.
func (a *StackAllocator) Metrics() Metrics {
	return Metrics{
		UsedBytes:      a.UsedBytes(),
		AvailableBytes: a.FreeBytes(),
		Capacity:       a.Capacity(),
	}
}

// String provides a string snapshot of the current allocator state.
func (a *StackAllocator) String() string {
	return fmt.Sprintf("stackalloc{offset: %v capacity: %v}", int(a.offset), len(a.buffer))
}

func elementsByteSize(elemSize int, count int) (int, error) {
	if elemSize < 0 || count < 0 {
		return 0, AllocationSizeError
	}
	if elemSize == 0 || count == 0 {
		return 0, nil
	}
	if count > math.MaxInt/elemSize {
		return 0, AllocationLimitError
	}
	return elemSize * count, nil
}

func roundedByteSize(elemSize int, size int) (int, error) {
	if size < 0 {
		return 0, AllocationSizeError
	}
	if elemSize <= 0 {
		return 0, AllocationSizeError
	}
	if size > math.MaxInt-(elemSize-1) {
		return 0, AllocationLimitError
	}
	return roundUpToMultiple(size, elemSize), nil
}
