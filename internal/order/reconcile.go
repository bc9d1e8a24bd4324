package order

import (
	"fmt"
	"slices"
)

// LegacyList is an ordered list that can only move an item by one position.
// Raise moves an item toward index 0 and Lower moves it toward the end; both
// report false and leave the list untouched when the item cannot move.
type LegacyList[T any] interface {
	Len() int
	At(i int) T
	Raise(item T) bool
	Lower(item T) bool
}

// Result describes the outcome of a reconciliation.
type Result[ID any] struct {
	// LayerOrder is the order to hand to the store. It is the input slice
	// itself when nothing moved.
	LayerOrder []ID

	// OldIndex is the position the item was picked up from.
	OldIndex int

	// RequestedIndex is the position the caller asked for.
	RequestedIndex int

	// ActualIndex is the position the item reached in the legacy list.
	ActualIndex int
}

// Moved reports whether the item changed position.
func (r *Result[ID]) Moved() bool {
	return r.ActualIndex != r.OldIndex
}

// Diverged reports whether the legacy list stopped short of the requested
// position. Interior moves always reach their target on a healthy list, so
// a divergence means the two orderings were already out of step.
func (r *Result[ID]) Diverged() bool {
	return r.ActualIndex != r.RequestedIndex
}

// Reconcile moves the item at oldIndex of list toward newIndex one step at a
// time and returns layerOrder with the same effective move applied.
//
// Validation happens before any mutation: out of range indices fail with
// ErrInvalidIndex and a length mismatch between list and layerOrder fails with
// ErrDesync. layerOrder itself is never modified.
func Reconcile[T any, ID any](list LegacyList[T], oldIndex, newIndex int, layerOrder []ID) (*Result[ID], error) {
	n := list.Len()
	if err := checkIndex("old", oldIndex, n); err != nil {
		return nil, err
	}
	if err := checkIndex("new", newIndex, n); err != nil {
		return nil, err
	}
	if len(layerOrder) != n {
		return nil, fmt.Errorf("%w: layer order has %d entries, list has %d", ErrDesync, len(layerOrder), n)
	}

	item := list.At(oldIndex)
	current := oldIndex
	for current < newIndex && list.Lower(item) {
		current++
	}
	for current > newIndex && list.Raise(item) {
		current--
	}

	result := &Result[ID]{
		LayerOrder:     layerOrder,
		OldIndex:       oldIndex,
		RequestedIndex: newIndex,
		ActualIndex:    current,
	}
	if result.Moved() {
		result.LayerOrder = Move(layerOrder, oldIndex, current)
	}
	return result, nil
}

// Move returns a copy of s with the element at from reinserted at to. The
// relative order of every other element is preserved. Both indices must be
// valid for s.
func Move[ID any](s []ID, from, to int) []ID {
	out := make([]ID, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	return slices.Insert(out, to, s[from])
}

func checkIndex(name string, idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%w: %s index %d out of range [0,%d)", ErrInvalidIndex, name, idx, n)
	}
	return nil
}
