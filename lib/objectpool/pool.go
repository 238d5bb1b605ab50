// Package objectpool provides a generic cached stack of reusable objects
// with create/acquire/release/destroy lifecycle callbacks and duplicate
// release detection.
//
// The pool is a plain object cache and shares no state with the arena
// allocators in lib/stackalloc. It is not thread safe; use one pool per
// goroutine or protect it with external synchronization.
package objectpool

import "fmt"

// Error type used by the library to declare error constants.
type Error string

// Error method that implements error interface.
func (e Error) Error() string {
	return string(e)
}

// NilObjectError typically returned if a zero-value object
// is passed to Release.
const NilObjectError = Error("released object is nil")

// DoubleReleaseError typically returned if an object
// is released while it is already parked in the pool.
const DoubleReleaseError = Error("object is already released to the pool")

// Disposable is the capability checked by the default destroy behavior
// when no OnDestroy callback is configured.
type Disposable interface {
	Dispose()
}

// Options configures the optional lifecycle callbacks of a Pool.
type Options[T any] struct {
	// OnGet runs on every object handed out by Get,
	// both freshly created and reused ones.
	OnGet func(T)
	// OnRelease runs on every object accepted by Release,
	// before it is parked or destroyed.
	OnRelease func(T)
	// OnDestroy runs when the pool lets go of an object for good.
	// When nil, objects implementing Disposable get their Dispose called.
	OnDestroy func(T)
	// MaxIdle caps the number of parked objects; a release beyond the cap
	// destroys the object instead. Zero means no cap.
	MaxIdle int
}

// Pool is a cached stack of objects of type T.
//
// Get pops a parked object or creates a fresh one; Release parks an object
// for reuse. T has to be comparable so the pool can reject zero values and
// detect duplicate releases; it is intended for reference-like types, e.g.
// pointers to session or buffer objects.
type Pool[T comparable] struct {
	create    func() T
	onGet     func(T)
	onRelease func(T)
	onDestroy func(T)
	maxIdle   int

	idle    []T
	idleSet map[T]struct{}

	countAll int
}

// New creates a pool that uses create to produce fresh objects
// when it has nothing parked.
func New[T comparable](create func() T, opts Options[T]) *Pool[T] {
	if create == nil {
		panic("objectpool: create function is nil")
	}
	return &Pool[T]{
		create:    create,
		onGet:     opts.OnGet,
		onRelease: opts.OnRelease,
		onDestroy: opts.OnDestroy,
		maxIdle:   opts.MaxIdle,
		idleSet:   map[T]struct{}{},
	}
}

// Get returns a parked object or creates a fresh one.
func (p *Pool[T]) Get() T {
	var obj T
	if len(p.idle) > 0 {
		obj = p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		delete(p.idleSet, obj)
	} else {
		obj = p.create()
		p.countAll++
	}
	if p.onGet != nil {
		p.onGet(obj)
	}
	return obj
}

// Release parks an object for reuse.
//
// A zero-value object fails with NilObjectError and an object that is
// already parked fails with DoubleReleaseError; in both cases the pool state
// is unchanged. When MaxIdle is reached the object is destroyed instead of
// parked.
func (p *Pool[T]) Release(obj T) error {
	var zero T
	if obj == zero {
		return NilObjectError
	}
	if _, alreadyParked := p.idleSet[obj]; alreadyParked {
		return DoubleReleaseError
	}
	if p.onRelease != nil {
		p.onRelease(obj)
	}
	if p.maxIdle > 0 && len(p.idle) >= p.maxIdle {
		p.destroy(obj)
		p.countAll--
		return nil
	}
	p.idle = append(p.idle, obj)
	p.idleSet[obj] = struct{}{}
	return nil
}

// TryRelease is a non-raising form of Release.
func (p *Pool[T]) TryRelease(obj T) bool {
	return p.Release(obj) == nil
}

// Clear destroys every parked object. Objects currently handed out stay
// counted as active until they come back through Release.
func (p *Pool[T]) Clear() {
	for _, obj := range p.idle {
		p.destroy(obj)
	}
	p.countAll -= len(p.idle)
	p.idle = p.idle[:0]
	clear(p.idleSet)
}

// Dispose is a terminal Clear, kept separate to mirror the usual
// lifecycle pairing of Get/Release with Clear/Dispose.
func (p *Pool[T]) Dispose() {
	p.Clear()
}

// CountAll returns the number of objects created by the pool
// and not yet destroyed.
func (p *Pool[T]) CountAll() int {
	return p.countAll
}

// CountInactive returns the number of parked objects.
func (p *Pool[T]) CountInactive() int {
	return len(p.idle)
}

// CountActive returns the number of objects currently handed out.
func (p *Pool[T]) CountActive() int {
	return p.countAll - len(p.idle)
}

// String provides a string snapshot of the pool counters.
func (p *Pool[T]) String() string {
	return fmt.Sprintf(
		"objectpool{all: %v active: %v inactive: %v}",
		p.CountAll(), p.CountActive(), p.CountInactive(),
	)
}

func (p *Pool[T]) destroy(obj T) {
	if p.onDestroy != nil {
		p.onDestroy(obj)
		return
	}
	if disposable, ok := any(obj).(Disposable); ok {
		disposable.Dispose()
	}
}
