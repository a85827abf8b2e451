// Package arena provides a chunked, append-only store whose lifetime bounds
// the validity of every element allocated in it.
//
// The store is split in two handles:
//   - Lifetime: the single owner; Release tears the whole store down
//   - Ref: a cheap, copyable reference used to allocate and read elements
//
// Elements are never freed individually. Addresses returned by Get stay
// valid until the owning Lifetime is released, after which every access
// through any Ref panics with ErrReleased.
//
// Usage:
//
//	lt, ref := arena.Build[Node]()
//	defer lt.Release()
//	id := ref.Alloc(Node{})
//	n := ref.Get(id)
package arena

import (
	"errors"
	"math"
)

// chunkSize is the number of elements per backing chunk.
const chunkSize = 1024

var (
	// ErrReleased is the panic value used when a released arena is accessed.
	ErrReleased = errors.New("arena: lifetime has ended")

	// ErrFull is the panic value used when an arena has handed out every ID.
	ErrFull = errors.New("arena: out of ids")
)

// maxSize is the number of distinct IDs.
var maxSize uint64 = math.MaxUint32 + 1

// ID identifies an element by its allocation order (0, 1, 2, ...).
type ID uint32

// store is the shared state behind Lifetime and Ref.
type store[V any] struct {
	chunks   [][]V
	size     int
	released bool
}

// Lifetime owns the arena. The arena stays usable until Release is called.
type Lifetime[V any] struct {
	s *store[V]
}

// Ref is a reference to an arena. Copies refer to the same arena and
// compare equal.
type Ref[V any] struct {
	s *store[V]
}

// Build creates a new arena and returns its owner and a reference to it.
func Build[V any]() (*Lifetime[V], Ref[V]) {
	s := &store[V]{}
	return &Lifetime[V]{s: s}, Ref[V]{s: s}
}

// Scope builds an arena, passes its reference to fn and releases it when fn returns.
func Scope[V any](fn func(Ref[V])) {
	lt, ref := Build[V]()
	defer lt.Release()
	fn(ref)
}

// Release tears the arena down. Calling Release more than once is a no-op.
func (l *Lifetime[V]) Release() {
	l.s.chunks = nil
	l.s.size = 0
	l.s.released = true
}

// Alive reports whether the arena has not been released yet.
func (l *Lifetime[V]) Alive() bool {
	return !l.s.released
}

// Ref returns a reference to the owned arena.
func (l *Lifetime[V]) Ref() Ref[V] {
	return Ref[V]{s: l.s}
}

// Alive reports whether the referenced arena is still usable.
func (r Ref[V]) Alive() bool {
	return r.s != nil && !r.s.released
}

// Alloc appends v to the arena and returns its ID.
func (r Ref[V]) Alloc(v V) ID {
	s := r.live()
	if uint64(s.size) >= maxSize {
		panic(ErrFull)
	}
	if s.size%chunkSize == 0 {
		s.chunks = append(s.chunks, make([]V, 0, chunkSize))
	}
	last := len(s.chunks) - 1
	s.chunks[last] = append(s.chunks[last], v)
	id := ID(s.size)
	s.size++
	return id
}

// Get returns a pointer to the element with the given ID.
// The pointer stays valid for the arena's lifetime.
func (r Ref[V]) Get(id ID) *V {
	s := r.live()
	i := int(id)
	if i >= s.size {
		panic("arena: id out of range")
	}
	return &s.chunks[i/chunkSize][i%chunkSize]
}

// Len returns the number of allocated elements.
func (r Ref[V]) Len() int {
	return r.live().size
}

func (r Ref[V]) live() *store[V] {
	if !r.Alive() {
		panic(ErrReleased)
	}
	return r.s
}
