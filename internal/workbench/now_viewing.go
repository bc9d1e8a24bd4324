package workbench

import (
	"github.com/danieljhkim/mapbench/internal/layers"
	"github.com/danieljhkim/mapbench/internal/order"
)

// NowViewing is the list of layers on the workbench, top of the map first.
// Layers marked KeepOnTop form a block at the head of the list that
// unpinned layers cannot enter, so Raise and Lower can fail before reaching
// the ends of the list.
type NowViewing struct {
	items order.Sequence[*layers.Layer]
}

// NewNowViewing creates a list holding items in the given order.
func NewNowViewing(items ...*layers.Layer) *NowViewing {
	return &NowViewing{items: order.NewSequence(items...)}
}

// Len returns the number of layers.
func (nv *NowViewing) Len() int {
	return nv.items.Len()
}

// At returns the layer at position i.
func (nv *NowViewing) At(i int) *layers.Layer {
	return nv.items.At(i)
}

// Items returns the layers in order.
func (nv *NowViewing) Items() []*layers.Layer {
	return nv.items.Items()
}

// IndexOf returns the position of l, or -1.
func (nv *NowViewing) IndexOf(l *layers.Layer) int {
	return nv.items.IndexOf(l)
}

// Find returns the layer with the given ID and its position.
func (nv *NowViewing) Find(id string) (*layers.Layer, int) {
	for i, l := range nv.items.Items() {
		if l.ID == id {
			return l, i
		}
	}
	return nil, -1
}

// Add inserts l and returns its position. Pinned layers go to the very top;
// other layers go directly below the pinned block.
func (nv *NowViewing) Add(l *layers.Layer) int {
	pos := 0
	if !l.KeepOnTop {
		pos = nv.pinnedCount()
	}
	// pos is always within [0, Len].
	nv.items, _ = nv.items.Insert(pos, l)
	return pos
}

// Remove drops l from the list.
func (nv *NowViewing) Remove(l *layers.Layer) bool {
	var ok bool
	nv.items, ok = nv.items.Remove(l)
	return ok
}

// Raise moves l one position toward the top.
func (nv *NowViewing) Raise(l *layers.Layer) bool {
	idx := nv.items.IndexOf(l)
	if idx <= 0 {
		return false
	}
	if above := nv.items.At(idx - 1); above.KeepOnTop && !l.KeepOnTop {
		return false
	}
	var ok bool
	nv.items, ok = nv.items.Raise(l)
	return ok
}

// Lower moves l one position toward the bottom.
func (nv *NowViewing) Lower(l *layers.Layer) bool {
	idx := nv.items.IndexOf(l)
	if idx < 0 || idx >= nv.items.Len()-1 {
		return false
	}
	if below := nv.items.At(idx + 1); l.KeepOnTop && !below.KeepOnTop {
		return false
	}
	var ok bool
	nv.items, ok = nv.items.Lower(l)
	return ok
}

func (nv *NowViewing) pinnedCount() int {
	n := 0
	for _, l := range nv.items.Items() {
		if !l.KeepOnTop {
			break
		}
		n++
	}
	return n
}
