// SPDX-License-Identifier: EPL-2.0

package arena

import (
	"fmt"
	"math"
)

// Handle references one occupancy of one slot.
type Handle struct {
	Index      uint32
	Generation uint64
}

func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.Index, h.Generation)
}

type slot[T any] struct {
	generation uint64
	occupied   bool
	value      T
}

// Arena is a fixed-size table of slots addressed by generational handles.
type Arena[T any] struct {
	slots []slot[T]
	// free is a stack of empty slot indexes; the next Add pops from the end.
	free []uint32
}

// New preallocates size empty slots, all at generation 0.
func New[T any](size int) (*Arena[T], error) {
	if size <= 0 || uint64(size) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	a := &Arena[T]{
		slots: make([]slot[T], size),
		free:  make([]uint32, size),
	}

	// Lowest index on top so a fresh arena fills 0, 1, 2...
	for i := range size {
		a.free[i] = uint32(size - 1 - i)
	}

	return a, nil
}

// Add stores v in a free slot. It reports false when the arena is full;
// capacity never grows.
func (a *Arena[T]) Add(v T) (Handle, bool) {
	if len(a.free) == 0 {
		return Handle{}, false
	}

	last := len(a.free) - 1
	idx := a.free[last]
	a.free = a.free[:last]

	s := &a.slots[idx]
	s.occupied = true
	s.value = v

	return Handle{Index: idx, Generation: s.generation}, true
}

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if int(h.Index) >= len(a.slots) {
		return nil
	}

	s := &a.slots[h.Index]
	if !s.occupied || s.generation != h.Generation {
		return nil
	}

	return s
}

// Get returns the value h refers to. The value must not be retained past the
// current operation: a later Remove may invalidate it.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	s := a.lookup(h)
	if s == nil {
		var zero T
		return zero, false
	}

	return s.value, true
}

// Valid reports whether h still refers to a live value.
func (a *Arena[T]) Valid(h Handle) bool {
	return a.lookup(h) != nil
}

// Remove empties the slot h refers to and bumps its generation, which invalidates
// h and every copy of it. A stale h is a no-op reported as false.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T

	s := a.lookup(h)
	if s == nil {
		return zero, false
	}

	v := s.value
	s.value = zero
	s.occupied = false
	s.generation++
	a.free = append(a.free, h.Index)

	return v, true
}

// FindFirst scans occupied slots in ascending index order and returns the first
// one matching pred.
func (a *Arena[T]) FindFirst(pred func(Handle, T) bool) (Handle, T, bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.occupied {
			continue
		}

		h := Handle{Index: uint32(i), Generation: s.generation}
		if pred(h, s.value) {
			return h, s.value, true
		}
	}

	var zero T
	return Handle{}, zero, false
}

// Handles returns the handles of all occupied slots in ascending index order.
// The snapshot stays safe to iterate while the arena is modified.
func (a *Arena[T]) Handles() []Handle {
	out := make([]Handle, 0, a.NumUsedSlots())
	for i := range a.slots {
		if a.slots[i].occupied {
			out = append(out, Handle{Index: uint32(i), Generation: a.slots[i].generation})
		}
	}

	return out
}

// NumFreeSlots returns how many more values Add accepts.
func (a *Arena[T]) NumFreeSlots() int { return len(a.free) }

// NumUsedSlots returns the number of live values.
func (a *Arena[T]) NumUsedSlots() int { return len(a.slots) - len(a.free) }

// Cap returns the fixed number of slots.
func (a *Arena[T]) Cap() int { return len(a.slots) }
