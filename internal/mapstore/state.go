// Package mapstore holds the map state behind a Redux-style store.
//
// State changes only through actions applied by a pure reducer, and the store
// applies each dispatch atomically. Layers are kept in insertion order while
// LayerOrder lists indices into Layers in rendering order, top first.
package mapstore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/danieljhkim/mapbench/internal/layers"
)

var (
	// ErrInvalidOrder indicates a layer order that is not a permutation of
	// the layer indices.
	ErrInvalidOrder = errors.New("invalid layer order")

	// ErrLayerNotFound indicates an action referenced an unknown layer.
	ErrLayerNotFound = errors.New("layer not found")

	// ErrDuplicateLayer indicates a layer ID is already present.
	ErrDuplicateLayer = errors.New("duplicate layer")
)

// MapState is an immutable snapshot of the map.
type MapState struct {
	Layers     []layers.Layer
	LayerOrder []int
}

// Clone returns a deep copy.
func (s MapState) Clone() MapState {
	return MapState{
		Layers:     slices.Clone(s.Layers),
		LayerOrder: slices.Clone(s.LayerOrder),
	}
}

// IndexOf returns the index into Layers of the layer with the given ID, or -1.
func (s MapState) IndexOf(id string) int {
	return slices.IndexFunc(s.Layers, func(l layers.Layer) bool { return l.ID == id })
}

// Ordered returns the layers in rendering order, top first.
func (s MapState) Ordered() []layers.Layer {
	out := make([]layers.Layer, 0, len(s.LayerOrder))
	for _, idx := range s.LayerOrder {
		out = append(out, s.Layers[idx])
	}
	return out
}

// Validate checks that LayerOrder is a permutation of the layer indices and
// that layer IDs are unique.
func (s MapState) Validate() error {
	if err := checkPermutation(s.LayerOrder, len(s.Layers)); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.Layers))
	for _, l := range s.Layers {
		if seen[l.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateLayer, l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: %d entries for %d layers", ErrInvalidOrder, len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: index %d out of range", ErrInvalidOrder, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d repeated", ErrInvalidOrder, idx)
		}
		seen[idx] = true
	}
	return nil
}
