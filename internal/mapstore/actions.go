package mapstore

import "github.com/danieljhkim/mapbench/internal/layers"

// Action describes a state change.
type Action interface {
	Type() string
}

// AddLayer appends a layer and places it at Position in the layer order.
type AddLayer struct {
	Layer    layers.Layer
	Position int
}

// RemoveLayer drops a layer and its entry in the layer order.
type RemoveLayer struct {
	ID string
}

// ReorderLayers replaces the layer order.
type ReorderLayers struct {
	Order []int
}

// SetVisibility shows or hides a layer.
type SetVisibility struct {
	ID      string
	Visible bool
}

// SetOpacity changes a layer's opacity.
type SetOpacity struct {
	ID      string
	Opacity float64
}

// Replace swaps in a whole state, as when a session is loaded.
type Replace struct {
	State MapState
}

func (AddLayer) Type() string      { return "ADD_LAYER" }
func (RemoveLayer) Type() string   { return "REMOVE_LAYER" }
func (ReorderLayers) Type() string { return "REORDER_LAYERS" }
func (SetVisibility) Type() string { return "SET_VISIBILITY" }
func (SetOpacity) Type() string    { return "SET_OPACITY" }
func (Replace) Type() string       { return "REPLACE" }
