package order

import (
	"fmt"
	"slices"
)

// Sequence is an immutable ordered collection. Every mutator returns a new
// Sequence and leaves the receiver untouched, so a value can be shared
// between a store snapshot and its subscribers.
type Sequence[T comparable] struct {
	items []T
}

// NewSequence creates a Sequence holding a copy of items.
func NewSequence[T comparable](items ...T) Sequence[T] {
	return Sequence[T]{items: slices.Clone(items)}
}

// Len returns the number of items.
func (s Sequence[T]) Len() int {
	return len(s.items)
}

// At returns the item at index i.
func (s Sequence[T]) At(i int) T {
	return s.items[i]
}

// Items returns a copy of the items in order.
func (s Sequence[T]) Items() []T {
	return slices.Clone(s.items)
}

// IndexOf returns the position of v, or -1.
func (s Sequence[T]) IndexOf(v T) int {
	return slices.Index(s.items, v)
}

// Equal reports whether both sequences hold the same items in the same order.
func (s Sequence[T]) Equal(other Sequence[T]) bool {
	return slices.Equal(s.items, other.items)
}

// MoveTo moves the item at index to newIndex.
func (s Sequence[T]) MoveTo(index, newIndex int) (Sequence[T], error) {
	if err := checkIndex("old", index, len(s.items)); err != nil {
		return s, err
	}
	if err := checkIndex("new", newIndex, len(s.items)); err != nil {
		return s, err
	}
	if index == newIndex {
		return s, nil
	}
	return Sequence[T]{items: Move(s.items, index, newIndex)}, nil
}

// Raise moves v one position toward index 0. It reports false when v is
// absent or already first.
func (s Sequence[T]) Raise(v T) (Sequence[T], bool) {
	return s.step(v, -1)
}

// Lower moves v one position toward the end. It reports false when v is
// absent or already last.
func (s Sequence[T]) Lower(v T) (Sequence[T], bool) {
	return s.step(v, 1)
}

func (s Sequence[T]) step(v T, delta int) (Sequence[T], bool) {
	idx := s.IndexOf(v)
	if idx < 0 {
		return s, false
	}
	next, err := s.MoveTo(idx, idx+delta)
	if err != nil {
		return s, false
	}
	return next, true
}

// Insert returns a sequence with v placed at index. Index may equal Len.
func (s Sequence[T]) Insert(index int, v T) (Sequence[T], error) {
	if index < 0 || index > len(s.items) {
		return s, fmt.Errorf("%w: insert index %d out of range [0,%d]", ErrInvalidIndex, index, len(s.items))
	}
	return Sequence[T]{items: slices.Insert(slices.Clone(s.items), index, v)}, nil
}

// Append returns a sequence with v added at the end.
func (s Sequence[T]) Append(v T) Sequence[T] {
	return Sequence[T]{items: append(slices.Clone(s.items), v)}
}

// Remove returns a sequence without v. It reports false when v is absent.
func (s Sequence[T]) Remove(v T) (Sequence[T], bool) {
	idx := s.IndexOf(v)
	if idx < 0 {
		return s, false
	}
	return Sequence[T]{items: slices.Delete(slices.Clone(s.items), idx, idx+1)}, true
}
