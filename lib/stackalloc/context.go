package stackalloc

import "context"

// ByteAllocator is the byte-level allocation surface shared by scratch
// arenas that can be carried through a context.
type ByteAllocator interface {
	AllocBytes(size int) ([]byte, error)
	AllocElems(elemSize int, count int) ([]byte, error)
	AllocElemBytes(elemSize int, size int) ([]byte, error)
	Clear()
	Capacity() int
	FreeBytes() int
	UsedBytes() int
	Metrics() Metrics
}

type allocatorCtxKey struct{}

// WithAllocator allows you to bind ctx with target allocator
// and then receive it from ctx using GetAllocator and GetAllocatorOrDefault
// methods, e.g. to route one per-request scratch arena through handlers.
func WithAllocator(ctx context.Context, allocator ByteAllocator) context.Context {
	return context.WithValue(ctx, allocatorCtxKey{}, allocator)
}

// GetAllocator allows you to receive allocator associated with this ctx.
// Returns allocator and true if there was some association.
func GetAllocator(ctx context.Context) (ByteAllocator, bool) {
	value := ctx.Value(allocatorCtxKey{})
	if value == nil {
		return nil, false
	}
	allocator, ok := value.(ByteAllocator)
	if !ok {
		return nil, false
	}
	return allocator, true
}

// GetAllocatorOrDefault allows you to receive allocator associated with this
// ctx. Returns associated allocator or defaultAllocator if there was no
// association.
func GetAllocatorOrDefault(ctx context.Context, defaultAllocator ByteAllocator) ByteAllocator {
	ctxAllocator, ok := GetAllocator(ctx)
	if !ok {
		return defaultAllocator
	}
	return ctxAllocator
}
