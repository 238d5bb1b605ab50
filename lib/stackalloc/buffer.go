package stackalloc

// Buffer is an analog to bytes.Buffer that delegates all allocations to a
// StackAllocator, so encoders and string builders can target arena scratch
// memory directly.
//
// All methods properly return errors instead of panic when the arena runs
// out of capacity. This behavior is different from bytes.Buffer.
//
// While the buffer is the topmost allocation of its arena, growth extends it
// in place; otherwise the content is moved to a fresh doubled region and the
// old one stays carved out until the covering marker is freed. The buffer
// contents alias the arena and follow the usual view validity contract.
type Buffer struct {
	alloc *StackAllocator
	start Marker
	buf   []byte
}

const defaultBufferArenaSize = 64 * 1024

// NewBuffer creates a buffer on top of the target allocator.
// A nil target gets a private arena of a default size on first write.
func NewBuffer(target *StackAllocator) *Buffer {
	return &Buffer{alloc: target}
}

func (b *Buffer) init(initSize int) error {
	if b.alloc == nil {
		b.alloc = NewStackAllocator(defaultBufferArenaSize)
	}
	if cap(b.buf) == 0 {
		start := b.alloc.Marker()
		newBuffer, allocErr := b.alloc.AllocBytes(initSize)
		if allocErr != nil {
			return allocErr
		}
		b.start = start
		b.buf = newBuffer[:0]
	}
	return nil
}

// Write appends the contents of p to the buffer, growing it inside the
// target arena as needed. The return value n is len(p); err is non-nil when
// the arena can't afford the growth.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if initErr := b.init(len(p)); initErr != nil {
		return 0, initErr
	}
	if growErr := b.grow(len(p)); growErr != nil {
		return 0, growErr
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteString appends the contents of s to the buffer, growing it inside the
// target arena as needed.
func (b *Buffer) WriteString(s string) (n int, err error) {
	if initErr := b.init(len(s)); initErr != nil {
		return 0, initErr
	}
	if growErr := b.grow(len(s)); growErr != nil {
		return 0, growErr
	}
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteByte appends the byte c to the buffer, growing it inside the
// target arena as needed.
func (b *Buffer) WriteByte(c byte) error {
	if initErr := b.init(1); initErr != nil {
		return initErr
	}
	if growErr := b.grow(1); growErr != nil {
		return growErr
	}
	b.buf = append(b.buf, c)
	return nil
}

// Bytes returns a view of the whole buffer content. The result aliases the
// arena, so it is valid only until the next buffer modification or a
// rollback that covers the buffer region.
func (b *Buffer) Bytes() []byte {
	if len(b.buf) == 0 {
		return nil
	}
	return b.buf
}

// String returns a copy of the buffer content as a string on the general
// heap, so it stays accessible after the arena is rolled back or recycled.
func (b *Buffer) String() string {
	return string(b.buf)
}

// Len returns the number of bytes written into the buffer.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the region currently backing the buffer.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

func (b *Buffer) grow(requiredSize int) error {
	availableSize := cap(b.buf) - len(b.buf)
	if availableSize >= requiredSize {
		return nil
	}

	// the buffer is the topmost allocation of the arena
	// when the frontier sits exactly at its end, then
	// we can enhance the current region without moving anything
	bufferIsOnTopOfArena := b.alloc.Marker() == b.start+Marker(cap(b.buf))
	if bufferIsOnTopOfArena {
		_, enhancingErr := b.alloc.AllocBytes(requiredSize - availableSize)
		if enhancingErr == nil {
			b.buf = b.alloc.buffer[b.start : int(b.start)+len(b.buf) : int(b.alloc.Marker())]
			return nil
		}
	}

	newSize := max(2*(cap(b.buf)+requiredSize), 2*cap(b.buf))
	start := b.alloc.Marker()
	newTarget, allocErr := b.alloc.AllocBytes(newSize)
	if allocErr != nil {
		return allocErr
	}
	newTarget = newTarget[:len(b.buf)]
	copy(newTarget, b.buf)
	b.start = start
	b.buf = newTarget
	return nil
}
