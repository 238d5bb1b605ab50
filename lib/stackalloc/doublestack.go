package stackalloc

import (
	"cmp"
	"fmt"
	"slices"
)

// DoubleStackAllocator is a bump allocator that grows one fixed-capacity
// byte region from both ends at once.
//
// The up frontier grows from 0, the down frontier shrinks from the capacity,
// and the unallocated gap between them is shared: an allocation on either
// side is bounded by the other side's current frontier. Each direction keeps
// its own marker history and rolls back independently with FreeUp/FreeDown,
// which makes the layout convenient for pairing two lifetimes over one
// region, e.g. per-frame scratch growing up and per-level data growing down.
//
// DoubleStackAllocator is not thread safe.
type DoubleStackAllocator struct {
	buffer []byte
	up     Marker
	down   Marker

	upMarkers   []Marker
	downMarkers []Marker
}

// NewDoubleStackAllocator creates an allocator with capacity bytes
// of zeroed backing storage and both frontiers at their initial extremes.
func NewDoubleStackAllocator(capacity uint) *DoubleStackAllocator {
	return &DoubleStackAllocator{
		buffer: make([]byte, capacity),
		down:   Marker(capacity),
	}
}

// AllocUpBytes carves size bytes growing from the bottom of the arena.
// The carved region is [UpMarker, UpMarker+size).
//
// Semantics match StackAllocator.AllocBytes, except that the request is
// bounded by the down frontier instead of the capacity.
func (a *DoubleStackAllocator) AllocUpBytes(size int) ([]byte, error) {
	if size < 0 {
		return nil, AllocationSizeError
	}
	if size == 0 {
		return a.buffer[a.up:a.up:a.up], nil
	}
	// compare against the gap, the sum can overflow
	if size > int(a.down-a.up) {
		return nil, AllocationLimitError
	}
	newUp := a.up + Marker(size)
	a.upMarkers = append(a.upMarkers, a.up)
	view := a.buffer[a.up:newUp:newUp]
	a.up = newUp
	return view, nil
}

// AllocDownBytes carves size bytes growing from the top of the arena.
// The carved region is [DownMarker-size, DownMarker).
func (a *DoubleStackAllocator) AllocDownBytes(size int) ([]byte, error) {
	if size < 0 {
		return nil, AllocationSizeError
	}
	if size == 0 {
		return a.buffer[a.down:a.down:a.down], nil
	}
	newDown := a.down - Marker(size)
	if newDown < a.up {
		return nil, AllocationLimitError
	}
	a.downMarkers = append(a.downMarkers, a.down)
	view := a.buffer[newDown:a.down:a.down]
	a.down = newDown
	return view, nil
}

// AllocUpElems carves count elements of elemSize bytes each from the up side.
func (a *DoubleStackAllocator) AllocUpElems(elemSize int, count int) ([]byte, error) {
	size, sizeErr := elementsByteSize(elemSize, count)
	if sizeErr != nil {
		return nil, sizeErr
	}
	return a.AllocUpBytes(size)
}

// AllocDownElems carves count elements of elemSize bytes each from the down side.
func (a *DoubleStackAllocator) AllocDownElems(elemSize int, count int) ([]byte, error) {
	size, sizeErr := elementsByteSize(elemSize, count)
	if sizeErr != nil {
		return nil, sizeErr
	}
	return a.AllocDownBytes(size)
}

// AllocUpElemBytes carves at least size bytes from the up side,
// rounded up to whole elements of elemSize bytes.
func (a *DoubleStackAllocator) AllocUpElemBytes(elemSize int, size int) ([]byte, error) {
	roundedSize, sizeErr := roundedByteSize(elemSize, size)
	if sizeErr != nil {
		return nil, sizeErr
	}
	return a.AllocUpBytes(roundedSize)
}

// AllocDownElemBytes carves at least size bytes from the down side,
// rounded up to whole elements of elemSize bytes.
func (a *DoubleStackAllocator) AllocDownElemBytes(elemSize int, size int) ([]byte, error) {
	roundedSize, sizeErr := roundedByteSize(elemSize, size)
	if sizeErr != nil {
		return nil, sizeErr
	}
	return a.AllocDownBytes(roundedSize)
}

// TryAllocUpBytes is a non-raising form of AllocUpBytes.
func (a *DoubleStackAllocator) TryAllocUpBytes(size int) ([]byte, bool) {
	view, allocErr := a.AllocUpBytes(size)
	return view, allocErr == nil
}

// TryAllocDownBytes is a non-raising form of AllocDownBytes.
func (a *DoubleStackAllocator) TryAllocDownBytes(size int) ([]byte, bool) {
	view, allocErr := a.AllocDownBytes(size)
	return view, allocErr == nil
}

// TryAllocUpElems is a non-raising form of AllocUpElems.
func (a *DoubleStackAllocator) TryAllocUpElems(elemSize int, count int) ([]byte, bool) {
	view, allocErr := a.AllocUpElems(elemSize, count)
	return view, allocErr == nil
}

// TryAllocDownElems is a non-raising form of AllocDownElems.
func (a *DoubleStackAllocator) TryAllocDownElems(elemSize int, count int) ([]byte, bool) {
	view, allocErr := a.AllocDownElems(elemSize, count)
	return view, allocErr == nil
}

// TryAllocUpElemBytes is a non-raising form of AllocUpElemBytes.
func (a *DoubleStackAllocator) TryAllocUpElemBytes(elemSize int, size int) ([]byte, bool) {
	view, allocErr := a.AllocUpElemBytes(elemSize, size)
	return view, allocErr == nil
}

// TryAllocDownElemBytes is a non-raising form of AllocDownElemBytes.
func (a *DoubleStackAllocator) TryAllocDownElemBytes(elemSize int, size int) ([]byte, bool) {
	view, allocErr := a.AllocDownElemBytes(elemSize, size)
	return view, allocErr == nil
}

// FreeUp rolls the up frontier back to a previously observed up marker and
// discards every up allocation made at or after it. The down side is not
// affected, though the shared gap between the frontiers grows back.
func (a *DoubleStackAllocator) FreeUp(m Marker) error {
	if m < 0 || m > a.up {
		return InvalidMarkerError
	}
	idx, found := slices.BinarySearch(a.upMarkers, m)
	if !found {
		return InvalidMarkerError
	}
	a.upMarkers = a.upMarkers[:idx]
	a.up = m
	return nil
}

// FreeDown rolls the down frontier back to a previously observed down marker
// and discards every down allocation made at or after it. Down markers
// descend from the capacity, so a valid target lies in [DownMarker, Capacity];
// a marker that coincides with the up frontier is still valid.
func (a *DoubleStackAllocator) FreeDown(m Marker) error {
	if m < a.down || m > Marker(len(a.buffer)) {
		return InvalidMarkerError
	}
	// the down history is strictly decreasing, search with reversed order
	idx, found := slices.BinarySearchFunc(a.downMarkers, m, func(entry, target Marker) int {
		return cmp.Compare(target, entry)
	})
	if !found {
		return InvalidMarkerError
	}
	a.downMarkers = a.downMarkers[:idx]
	a.down = m
	return nil
}

// TryFreeUp is a non-raising form of FreeUp.
func (a *DoubleStackAllocator) TryFreeUp(m Marker) bool {
	return a.FreeUp(m) == nil
}

// TryFreeDown is a non-raising form of FreeDown.
func (a *DoubleStackAllocator) TryFreeDown(m Marker) bool {
	return a.FreeDown(m) == nil
}

// ClearUp resets only the up side: frontier to 0, up history emptied.
func (a *DoubleStackAllocator) ClearUp() {
	clearBytes(a.buffer[:a.up])
	a.up = 0
	a.upMarkers = a.upMarkers[:0]
}

// ClearDown resets only the down side: frontier to the capacity,
// down history emptied.
func (a *DoubleStackAllocator) ClearDown() {
	clearBytes(a.buffer[a.down:])
	a.down = Marker(len(a.buffer))
	a.downMarkers = a.downMarkers[:0]
}

// Clear resets both sides at once.
func (a *DoubleStackAllocator) Clear() {
	a.ClearUp()
	a.ClearDown()
}

// UpMarker returns the current up frontier as a rollback token.
func (a *DoubleStackAllocator) UpMarker() Marker {
	return a.up
}

// DownMarker returns the current down frontier as a rollback token.
func (a *DoubleStackAllocator) DownMarker() Marker {
	return a.down
}

// Capacity returns the size of the backing storage.
func (a *DoubleStackAllocator) Capacity() int {
	return len(a.buffer)
}

// FreeBytes returns the size of the gap between the two frontiers.
func (a *DoubleStackAllocator) FreeBytes() int {
	return int(a.down - a.up)
}

// UsedBytes returns the count of bytes carved out by both sides together.
func (a *DoubleStackAllocator) UsedBytes() int {
	return int(a.up) + (len(a.buffer) - int(a.down))
}

// Metrics provides a snapshot of current allocation statistics.
func (a *DoubleStackAllocator) Metrics() Metrics {
	return Metrics{
		UsedBytes:      a.UsedBytes(),
		AvailableBytes: a.FreeBytes(),
		Capacity:       a.Capacity(),
	}
}

// String provides a string snapshot of the current allocator state.
func (a *DoubleStackAllocator) String() string {
	return fmt.Sprintf(
		"doublestackalloc{up: %v down: %v capacity: %v}",
		int(a.up), int(a.down), len(a.buffer),
	)
}
