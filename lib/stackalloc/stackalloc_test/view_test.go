package stackalloc_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scratchmem/stackalloc/lib/stackalloc"
)

func TestSliceViewAliasesArenaBytes(t *testing.T) {
	t.Parallel()
	a := stackalloc.NewStackAllocator(64)

	raw, allocErr := a.AllocBytes(16)
	require.NoError(t, allocErr)

	typed, viewErr := stackalloc.SliceView[uint32](raw)
	require.NoError(t, viewErr)
	require.Len(t, typed, 4)

	typed[0] = 0x01010101
	assert.Equal(t, []byte{1, 1, 1, 1}, raw[:4])

	raw[4] = 2
	raw[5] = 2
	raw[6] = 2
	raw[7] = 2
	assert.Equal(t, uint32(0x02020202), typed[1])
}

func TestSliceViewRejectsPartialElements(t *testing.T) {
	t.Parallel()
	a := stackalloc.NewStackAllocator(64)

	raw, allocErr := a.AllocBytes(10)
	require.NoError(t, allocErr)

	_, viewErr := stackalloc.SliceView[uint32](raw)
	assert.ErrorIs(t, viewErr, stackalloc.ViewLengthError)
}

func TestSliceViewOfEmptyRange(t *testing.T) {
	t.Parallel()
	typed, viewErr := stackalloc.SliceView[vertex](nil)
	require.NoError(t, viewErr)
	assert.Empty(t, typed)
}

func TestAllocSliceCoversWholeElements(t *testing.T) {
	t.Parallel()
	a := stackalloc.NewStackAllocator(256)
	vertexSize := int(unsafe.Sizeof(vertex{}))

	vertices, allocErr := stackalloc.AllocSlice[vertex](a, 3)
	require.NoError(t, allocErr)
	require.Len(t, vertices, 3)
	assert.Equal(t, 3*vertexSize, a.UsedBytes())

	vertices[2] = vertex{X: 1, Y: 2, Z: 3, Index: 7}
	assert.Equal(t, uint32(7), vertices[2].Index)
}

func TestAllocSliceBytesRoundsUp(t *testing.T) {
	t.Parallel()
	a := stackalloc.NewStackAllocator(256)
	vertexSize := int(unsafe.Sizeof(vertex{}))

	// one byte still buys a whole element
	vertices, allocErr := stackalloc.AllocSliceBytes[vertex](a, 1)
	require.NoError(t, allocErr)
	assert.Len(t, vertices, 1)
	assert.Equal(t, vertexSize, a.UsedBytes())
}

func TestAllocSlicePropagatesAllocatorFailures(t *testing.T) {
	t.Parallel()
	a := stackalloc.NewStackAllocator(16)

	_, limitErr := stackalloc.AllocSlice[uint64](a, 3)
	assert.ErrorIs(t, limitErr, stackalloc.AllocationLimitError)
	assert.Zero(t, a.UsedBytes())

	_, sizeErr := stackalloc.AllocSlice[uint64](a, -1)
	assert.ErrorIs(t, sizeErr, stackalloc.AllocationSizeError)
}

func TestAllocSliceOfZeroSizedElements(t *testing.T) {
	t.Parallel()
	a := stackalloc.NewStackAllocator(16)

	view, allocErr := stackalloc.AllocSlice[struct{}](a, 5)
	require.NoError(t, allocErr)
	assert.Empty(t, view)
	assert.Zero(t, a.UsedBytes())
}

func TestDoubleStackTypedViews(t *testing.T) {
	t.Parallel()
	a := stackalloc.NewDoubleStackAllocator(256)

	frame, upErr := stackalloc.AllocUpSlice[uint64](a, 4)
	require.NoError(t, upErr)
	require.Len(t, frame, 4)

	level, downErr := stackalloc.AllocDownSlice[vertex](a, 2)
	require.NoError(t, downErr)
	require.Len(t, level, 2)

	assert.Equal(t, stackalloc.Marker(32), a.UpMarker())
	assert.Equal(t, stackalloc.Marker(256-2*int(unsafe.Sizeof(vertex{}))), a.DownMarker())

	rounded, downBytesErr := stackalloc.AllocDownSliceBytes[uint64](a, 9)
	require.NoError(t, downBytesErr)
	assert.Len(t, rounded, 2)

	_, limitErr := stackalloc.AllocUpSlice[uint64](a, 1000)
	assert.ErrorIs(t, limitErr, stackalloc.AllocationLimitError)
}
