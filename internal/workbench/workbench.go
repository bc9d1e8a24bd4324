// Package workbench binds the now-viewing list to the map store.
//
// The two hold the same stacking order in different shapes. Every move goes
// through order.Reconcile first, and the store only receives the order that
// the now-viewing list actually accepted.
package workbench

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/layers"
	"github.com/danieljhkim/mapbench/internal/mapstore"
	"github.com/danieljhkim/mapbench/internal/order"
)

// ErrUnknownLayer indicates a layer ID that is not on the workbench.
var ErrUnknownLayer = errors.New("layer not on workbench")

// MoveResult is the outcome of a reorder.
type MoveResult = order.Result[int]

// Workbench coordinates the now-viewing list and the map store.
type Workbench struct {
	nowViewing *NowViewing
	store      *mapstore.Store
	logger     *zap.Logger
}

// New creates a Workbench over an existing list and store.
func New(nowViewing *NowViewing, store *mapstore.Store, logger *zap.Logger) *Workbench {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workbench{
		nowViewing: nowViewing,
		store:      store,
		logger:     logger,
	}
}

// Snapshot is the persisted form of a workbench.
type Snapshot struct {
	Layers     []layers.Layer
	NowViewing []string
	LayerOrder []int
}

// FromSnapshot rebuilds a Workbench. The now-viewing IDs must all refer to
// entries of Layers.
func FromSnapshot(snap Snapshot, logger *zap.Logger) (*Workbench, error) {
	byID := make(map[string]*layers.Layer, len(snap.Layers))
	for i := range snap.Layers {
		l := snap.Layers[i]
		byID[l.ID] = &l
	}

	items := make([]*layers.Layer, 0, len(snap.NowViewing))
	for _, id := range snap.NowViewing {
		l, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: now viewing references %s", ErrUnknownLayer, id)
		}
		items = append(items, l)
	}

	store, err := mapstore.NewStore(mapstore.MapState{
		Layers:     snap.Layers,
		LayerOrder: snap.LayerOrder,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create map store: %w", err)
	}

	return New(NewNowViewing(items...), store, logger), nil
}

// Snapshot captures the current state.
func (w *Workbench) Snapshot() Snapshot {
	state := w.store.State()
	ids := make([]string, 0, w.nowViewing.Len())
	for _, l := range w.nowViewing.Items() {
		ids = append(ids, l.ID)
	}
	return Snapshot{
		Layers:     state.Layers,
		NowViewing: ids,
		LayerOrder: state.LayerOrder,
	}
}

// Store returns the map store.
func (w *Workbench) Store() *mapstore.Store {
	return w.store
}

// Len returns the number of layers on the workbench.
func (w *Workbench) Len() int {
	return w.nowViewing.Len()
}

// Layers returns the layers in rendering order, top first.
func (w *Workbench) Layers() []layers.Layer {
	return w.store.State().Ordered()
}

// IndexOf returns the position of the layer with the given ID, or -1.
func (w *Workbench) IndexOf(id string) int {
	_, idx := w.nowViewing.Find(id)
	return idx
}

// Check verifies that the store renders layers in now-viewing order.
func (w *Workbench) Check() error {
	ordered := w.store.State().Ordered()
	if len(ordered) != w.nowViewing.Len() {
		return fmt.Errorf("%w: store has %d layers, now viewing has %d", order.ErrDesync, len(ordered), w.nowViewing.Len())
	}
	for i, l := range ordered {
		if nv := w.nowViewing.At(i); nv.ID != l.ID {
			return fmt.Errorf("%w: position %d is %s in store but %s in now viewing", order.ErrDesync, i, l.ShortID(), nv.ShortID())
		}
	}
	return nil
}

// Move carries the layer at oldIndex toward newIndex and propagates the
// order that was reached to the store.
func (w *Workbench) Move(oldIndex, newIndex int) (*MoveResult, error) {
	res, err := order.Reconcile[*layers.Layer](w.nowViewing, oldIndex, newIndex, w.store.State().LayerOrder)
	if err != nil {
		if errors.Is(err, order.ErrDesync) {
			w.logger.Error("layer orderings out of sync", zap.Error(err))
		}
		return nil, err
	}

	if res.Diverged() {
		w.logger.Warn("layer move stopped short of requested position",
			zap.Int("from", res.OldIndex),
			zap.Int("requested", res.RequestedIndex),
			zap.Int("reached", res.ActualIndex))
	}
	if !res.Moved() {
		return res, nil
	}

	// The order came from the store and Reconcile only permutes it, so the
	// store accepts it.
	if err := w.store.Dispatch(mapstore.ReorderLayers{Order: res.LayerOrder}); err != nil {
		return nil, fmt.Errorf("failed to update layer order: %w", err)
	}

	w.logger.Debug("layer moved",
		zap.Int("from", res.OldIndex),
		zap.Int("to", res.ActualIndex))
	return res, nil
}

// Raise moves a layer one step toward the top. Raising the top layer is a
// no-op.
func (w *Workbench) Raise(id string) (*MoveResult, error) {
	idx := w.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	return w.Move(idx, max(idx-1, 0))
}

// Lower moves a layer one step toward the bottom. Lowering the bottom layer
// is a no-op.
func (w *Workbench) Lower(id string) (*MoveResult, error) {
	idx := w.IndexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	return w.Move(idx, min(idx+1, w.nowViewing.Len()-1))
}

// Add puts a new layer on the workbench and returns its position.
func (w *Workbench) Add(l layers.Layer) (int, error) {
	if err := l.Validate(); err != nil {
		return -1, err
	}
	ptr := &l
	pos := w.nowViewing.Add(ptr)
	if err := w.store.Dispatch(mapstore.AddLayer{Layer: l, Position: pos}); err != nil {
		w.nowViewing.Remove(ptr)
		return -1, fmt.Errorf("failed to add layer to map: %w", err)
	}
	return pos, nil
}

// Remove takes a layer off the workbench.
func (w *Workbench) Remove(id string) (layers.Layer, error) {
	l, idx := w.nowViewing.Find(id)
	if idx < 0 {
		return layers.Layer{}, fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	removed := *l
	if err := w.store.Dispatch(mapstore.RemoveLayer{ID: id}); err != nil {
		return layers.Layer{}, fmt.Errorf("failed to remove layer from map: %w", err)
	}
	w.nowViewing.Remove(l)
	return removed, nil
}

// SetVisibility shows or hides a layer.
func (w *Workbench) SetVisibility(id string, visible bool) error {
	return w.store.Dispatch(mapstore.SetVisibility{ID: id, Visible: visible})
}

// SetOpacity changes a layer's opacity.
func (w *Workbench) SetOpacity(id string, opacity float64) error {
	return w.store.Dispatch(mapstore.SetOpacity{ID: id, Opacity: opacity})
}
