package workbench

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danieljhkim/mapbench/internal/layers"
)

func names(nv *NowViewing) []string {
	out := make([]string, 0, nv.Len())
	for _, l := range nv.Items() {
		out = append(out, l.Name)
	}
	return out
}

func TestNowViewing_RaiseLower(t *testing.T) {
	a, b, c := &layers.Layer{Name: "A"}, &layers.Layer{Name: "B"}, &layers.Layer{Name: "C"}
	nv := NewNowViewing(a, b, c)

	assert.False(t, nv.Raise(a), "top layer cannot be raised")
	assert.False(t, nv.Lower(c), "bottom layer cannot be lowered")

	assert.True(t, nv.Raise(c))
	assert.Equal(t, []string{"A", "C", "B"}, names(nv))

	assert.True(t, nv.Lower(a))
	assert.Equal(t, []string{"C", "A", "B"}, names(nv))

	assert.False(t, nv.Raise(&layers.Layer{Name: "stranger"}))
}

func TestNowViewing_PinnedLayers(t *testing.T) {
	labels := &layers.Layer{Name: "Labels", KeepOnTop: true}
	grid := &layers.Layer{Name: "Grid", KeepOnTop: true}
	rivers := &layers.Layer{Name: "Rivers"}
	roads := &layers.Layer{Name: "Roads"}
	nv := NewNowViewing(labels, grid, rivers, roads)

	assert.False(t, nv.Raise(rivers), "unpinned layer cannot pass a pinned one")
	assert.False(t, nv.Lower(grid), "pinned layer cannot drop below the pinned block")

	assert.True(t, nv.Raise(grid), "pinned layers reorder among themselves")
	assert.Equal(t, []string{"Grid", "Labels", "Rivers", "Roads"}, names(nv))

	assert.True(t, nv.Raise(roads))
	assert.False(t, nv.Raise(roads))
	assert.Equal(t, []string{"Grid", "Labels", "Roads", "Rivers"}, names(nv))
}

func TestNowViewing_Add(t *testing.T) {
	nv := NewNowViewing()

	assert.Equal(t, 0, nv.Add(&layers.Layer{Name: "Base"}))
	assert.Equal(t, 0, nv.Add(&layers.Layer{Name: "Labels", KeepOnTop: true}))
	assert.Equal(t, 1, nv.Add(&layers.Layer{Name: "Rivers"}))
	assert.Equal(t, 0, nv.Add(&layers.Layer{Name: "Grid", KeepOnTop: true}))

	assert.Equal(t, []string{"Grid", "Labels", "Rivers", "Base"}, names(nv))
}

func TestNowViewing_FindRemove(t *testing.T) {
	a, b := &layers.Layer{ID: "a", Name: "A"}, &layers.Layer{ID: "b", Name: "B"}
	nv := NewNowViewing(a, b)

	got, idx := nv.Find("b")
	assert.Same(t, b, got)
	assert.Equal(t, 1, idx)

	_, idx = nv.Find("zz")
	assert.Equal(t, -1, idx)

	assert.True(t, nv.Remove(a))
	assert.False(t, nv.Remove(a))
	assert.Equal(t, []string{"B"}, names(nv))
	assert.Equal(t, 0, nv.IndexOf(b))
}
