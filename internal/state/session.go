package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danieljhkim/mapbench/internal/hash"
	"github.com/danieljhkim/mapbench/internal/layers"
)

// ErrStale indicates the session was saved by someone else since it was loaded.
var ErrStale = errors.New("session changed since it was loaded")

// Session is the persisted state of one workbench.
type Session struct {
	// Name identifies the session and names its file
	Name string `json:"name"`

	// Layers holds every layer in the session, in insertion order
	Layers []layers.Layer `json:"layers"`

	// NowViewing lists layer IDs as shown in the workbench, top first
	NowViewing []string `json:"nowViewing"`

	// LayerOrder indexes Layers in rendering order, top first
	LayerOrder []int `json:"layerOrder"`

	// Revision fingerprints the content above; set by the store on save
	Revision string `json:"revision"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates an empty session.
func NewSession(name string, now time.Time) *Session {
	return &Session{
		Name:       name,
		Layers:     []layers.Layer{},
		NowViewing: []string{},
		LayerOrder: []int{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// revisionContent is the part of a session the revision covers.
type revisionContent struct {
	Name       string         `json:"name"`
	Layers     []layers.Layer `json:"layers"`
	NowViewing []string       `json:"nowViewing"`
	LayerOrder []int          `json:"layerOrder"`
}

// ComputeRevision fingerprints the session content. Timestamps and the
// current revision are excluded.
func ComputeRevision(h hash.Hasher, s *Session) (string, error) {
	data, err := json.Marshal(revisionContent{
		Name:       s.Name,
		Layers:     s.Layers,
		NowViewing: s.NowViewing,
		LayerOrder: s.LayerOrder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session content: %w", err)
	}
	return h.Sum(data), nil
}

// checkRevision compares the stored revision with the one the caller loaded.
// An empty expectRevision skips the check.
func checkRevision(name, stored, expectRevision string) error {
	if expectRevision == "" || stored == expectRevision {
		return nil
	}
	return fmt.Errorf("%w: %s is at revision %s, expected %s", ErrStale, name, stored, expectRevision)
}
