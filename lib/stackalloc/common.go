package stackalloc

import (
	"fmt"
)

// Error type used by the library to declare error constants.
type Error string

// Error method that implements error interface.
func (e Error) Error() string {
	return string(e)
}

// AllocationLimitError typically returned if
// allocator can't afford the requested allocation.
const AllocationLimitError = Error("allocation limit")

// AllocationSizeError typically returned if
// the computed allocation size is negative.
const AllocationSizeError = Error("allocation size is negative")

// InvalidMarkerError typically returned if a marker passed to one of
// the Free methods is out of range or was never issued by that direction.
const InvalidMarkerError = Error("marker is invalid")

// Marker is an integer snapshot of an allocator frontier.
//
// It is used as a rollback token: capture it before a batch of allocations
// and pass it back to Free to discard the whole batch at once.
// Markers are plain offsets into the arena, so they should be passed by value
// and are invisible to the GC.
type Marker int

// String provides a string snapshot of the current Marker.
func (m Marker) String() string {
	return fmt.Sprintf("marker{%d}", int(m))
}

// Metrics is a struct that represents a snapshot of current allocation
// statistics, that can be used by end-users for introspection.
type Metrics struct {
	UsedBytes      int // count of bytes currently carved out of the arena
	AvailableBytes int // count of bytes that still can be allocated
	Capacity       int // size of the backing storage
}

// String provides a string snapshot of the Metrics state.
func (m Metrics) String() string {
	return fmt.Sprintf(
		"{UsedBytes: %v AvailableBytes: %v Capacity: %v}",
		m.UsedBytes, m.AvailableBytes, m.Capacity,
	)
}

// roundUpToMultiple rounds size up to the nearest multiple of elemSize.
// Callers guarantee elemSize > 0 and size >= 0.
func roundUpToMultiple(size int, elemSize int) int {
	remainder := size % elemSize
	if remainder == 0 {
		return size
	}
	return size + elemSize - remainder
}

func clearBytes(buf []byte) {
	if len(buf) == 0 {
		return
	}
	// this pattern will be recognized by compiler and optimized
	for i := range buf {
		buf[i] = 0
	}
}
