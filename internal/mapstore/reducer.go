package mapstore

import (
	"fmt"
	"slices"

	"github.com/danieljhkim/mapbench/internal/layers"
	"github.com/danieljhkim/mapbench/internal/order"
)

// Reduce applies action to state and returns the next state. The input state
// is never modified; on error the returned state is the input.
func Reduce(state MapState, action Action) (MapState, error) {
	switch a := action.(type) {
	case AddLayer:
		return addLayer(state, a)
	case RemoveLayer:
		return removeLayer(state, a)
	case ReorderLayers:
		if err := checkPermutation(a.Order, len(state.Layers)); err != nil {
			return state, err
		}
		return MapState{Layers: state.Layers, LayerOrder: slices.Clone(a.Order)}, nil
	case SetVisibility:
		return updateLayer(state, a.ID, func(l *layers.Layer) error {
			l.Visible = a.Visible
			return nil
		})
	case SetOpacity:
		return updateLayer(state, a.ID, func(l *layers.Layer) error {
			if a.Opacity < 0 || a.Opacity > 1 {
				return fmt.Errorf("%w: opacity %.2f outside [0,1]", layers.ErrInvalidLayer, a.Opacity)
			}
			l.Opacity = a.Opacity
			return nil
		})
	case Replace:
		if err := a.State.Validate(); err != nil {
			return state, err
		}
		return a.State.Clone(), nil
	default:
		return state, fmt.Errorf("unknown action type: %s", action.Type())
	}
}

func addLayer(state MapState, a AddLayer) (MapState, error) {
	if state.IndexOf(a.Layer.ID) >= 0 {
		return state, fmt.Errorf("%w: %s", ErrDuplicateLayer, a.Layer.ID)
	}
	seq, err := order.NewSequence(state.LayerOrder...).Insert(a.Position, len(state.Layers))
	if err != nil {
		return state, fmt.Errorf("failed to place layer: %w", err)
	}
	return MapState{
		Layers:     append(slices.Clone(state.Layers), a.Layer),
		LayerOrder: seq.Items(),
	}, nil
}

func removeLayer(state MapState, a RemoveLayer) (MapState, error) {
	idx := state.IndexOf(a.ID)
	if idx < 0 {
		return state, fmt.Errorf("%w: %s", ErrLayerNotFound, a.ID)
	}
	seq, _ := order.NewSequence(state.LayerOrder...).Remove(idx)

	// Indices past the removed layer shift down by one.
	newOrder := seq.Items()
	for i, v := range newOrder {
		if v > idx {
			newOrder[i] = v - 1
		}
	}
	return MapState{
		Layers:     slices.Delete(slices.Clone(state.Layers), idx, idx+1),
		LayerOrder: newOrder,
	}, nil
}

func updateLayer(state MapState, id string, fn func(*layers.Layer) error) (MapState, error) {
	idx := state.IndexOf(id)
	if idx < 0 {
		return state, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	next := slices.Clone(state.Layers)
	if err := fn(&next[idx]); err != nil {
		return state, err
	}
	return MapState{Layers: next, LayerOrder: state.LayerOrder}, nil
}
