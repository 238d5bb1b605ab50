package stackalloc

import (
	"unsafe"
)

// ViewLengthError typically returned if a byte view can't be reinterpreted
// because its length is not an exact multiple of the element size.
const ViewLengthError = Error("view length is not a multiple of element size")

// SliceView reinterprets a byte view as a bounds-checked slice of fixed
// layout elements.
//
// It validates that the view length is an exact multiple of the element size
// before exposing the storage, so the result always covers whole elements;
// there is no unchecked type punning on the caller side. The resulting slice
// aliases the same arena bytes as the view and shares its validity contract.
//
// The arena applies no alignment padding between allocations. Element
// accesses stay naturally aligned as long as allocations of a given type go
// through the element-sized methods and the element size is a multiple of its
// alignment, which holds for Go struct layouts.
func SliceView[T any](view []byte) ([]T, error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		if len(view) == 0 {
			return []T{}, nil
		}
		return nil, ViewLengthError
	}
	if len(view)%elemSize != 0 {
		return nil, ViewLengthError
	}
	if len(view) == 0 {
		return []T{}, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(view))), len(view)/elemSize), nil
}

// AllocSlice carves count elements of T from the allocator and returns them
// as a typed view. Zero-sized element types consume no capacity and yield an
// empty view.
func AllocSlice[T any](a *StackAllocator, count int) ([]T, error) {
	var zero T
	view, allocErr := a.AllocElems(int(unsafe.Sizeof(zero)), count)
	if allocErr != nil {
		return nil, allocErr
	}
	return SliceView[T](view)
}

// AllocSliceBytes carves at least size bytes from the allocator, rounded up
// to whole elements of T, and returns them as a typed view.
func AllocSliceBytes[T any](a *StackAllocator, size int) ([]T, error) {
	var zero T
	view, allocErr := a.AllocElemBytes(int(unsafe.Sizeof(zero)), size)
	if allocErr != nil {
		return nil, allocErr
	}
	return SliceView[T](view)
}

// AllocUpSlice carves count elements of T from the up side of the allocator.
func AllocUpSlice[T any](a *DoubleStackAllocator, count int) ([]T, error) {
	var zero T
	view, allocErr := a.AllocUpElems(int(unsafe.Sizeof(zero)), count)
	if allocErr != nil {
		return nil, allocErr
	}
	return SliceView[T](view)
}

// AllocDownSlice carves count elements of T from the down side of the allocator.
func AllocDownSlice[T any](a *DoubleStackAllocator, count int) ([]T, error) {
	var zero T
	view, allocErr := a.AllocDownElems(int(unsafe.Sizeof(zero)), count)
	if allocErr != nil {
		return nil, allocErr
	}
	return SliceView[T](view)
}

// AllocUpSliceBytes carves at least size bytes from the up side,
// rounded up to whole elements of T.
func AllocUpSliceBytes[T any](a *DoubleStackAllocator, size int) ([]T, error) {
	var zero T
	view, allocErr := a.AllocUpElemBytes(int(unsafe.Sizeof(zero)), size)
	if allocErr != nil {
		return nil, allocErr
	}
	return SliceView[T](view)
}

// AllocDownSliceBytes carves at least size bytes from the down side,
// rounded up to whole elements of T.
func AllocDownSliceBytes[T any](a *DoubleStackAllocator, size int) ([]T, error) {
	var zero T
	view, allocErr := a.AllocDownElemBytes(int(unsafe.Sizeof(zero)), size)
	if allocErr != nil {
		return nil, allocErr
	}
	return SliceView[T](view)
}
