package engine

import (
	"time"

	"github.com/danieljhkim/mapbench/internal/layers"
)

// LayerInfo describes one layer at its current position.
type LayerInfo struct {
	// Index is the position in the stacking order (0 = top)
	Index int `json:"index"`

	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url,omitempty"`
	Opacity   float64   `json:"opacity"`
	Visible   bool      `json:"visible"`
	KeepOnTop bool      `json:"keepOnTop"`
	AddedAt   time.Time `json:"addedAt"`
}

func newLayerInfo(index int, l layers.Layer) LayerInfo {
	return LayerInfo{
		Index:     index,
		ID:        l.ID,
		ShortID:   l.ShortID(),
		Name:      l.Name,
		Kind:      string(l.Kind),
		URL:       l.URL,
		Opacity:   l.Opacity,
		Visible:   l.Visible,
		KeepOnTop: l.KeepOnTop,
		AddedAt:   l.AddedAt,
	}
}

// SessionInitResult represents the result of creating a session.
type SessionInitResult struct {
	Name     string `json:"name"`
	Revision string `json:"revision"`

	// Replaced is true when Force overwrote an existing session
	Replaced bool `json:"replaced"`
}

// SessionSummary is one entry of a session listing.
type SessionSummary struct {
	Name       string    `json:"name"`
	LayerCount int       `json:"layerCount"`
	Revision   string    `json:"revision"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SessionListResult represents the result of listing sessions.
type SessionListResult struct {
	Sessions []SessionSummary `json:"sessions"`
}

// SessionDeleteResult represents the result of deleting a session.
type SessionDeleteResult struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

// SessionShowResult describes a session and its layers.
type SessionShowResult struct {
	Name      string      `json:"name"`
	Revision  string      `json:"revision"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Layers    []LayerInfo `json:"layers"`
}

// LayerListResult represents the layers of a session, top first.
type LayerListResult struct {
	Session  string      `json:"session"`
	Revision string      `json:"revision"`
	Layers   []LayerInfo `json:"layers"`
}

// LayerResult is returned by operations that change a single layer.
type LayerResult struct {
	Layer    LayerInfo `json:"layer"`
	Revision string    `json:"revision"`
}

// LayerMoveResult represents the outcome of a reorder.
type LayerMoveResult struct {
	// Layer is the moved layer at the position it reached
	Layer LayerInfo `json:"layer"`

	OldIndex       int `json:"oldIndex"`
	RequestedIndex int `json:"requestedIndex"`
	ActualIndex    int `json:"actualIndex"`

	// Moved is false when the layer stayed where it was
	Moved bool `json:"moved"`

	// Diverged is true when the layer stopped short of RequestedIndex
	Diverged bool `json:"diverged"`

	Revision string `json:"revision"`

	// Layers is the full order after the move
	Layers []LayerInfo `json:"layers"`
}
