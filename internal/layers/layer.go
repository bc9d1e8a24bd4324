// Package layers defines the map layers a workbench session holds.
package layers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidLayer indicates a layer failed validation.
var ErrInvalidLayer = errors.New("invalid layer")

// Kind is the data source type of a layer.
type Kind string

const (
	KindGeoJSON Kind = "geojson"
	KindWMS     Kind = "wms"
	KindCSV     Kind = "csv"
	Kind3DTiles Kind = "3dtiles"
	KindBasemap Kind = "basemap"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindGeoJSON, KindWMS, KindCSV, Kind3DTiles, KindBasemap}

// ParseKind converts a user-supplied string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidLayer, s)
}

// Layer is one visual layer on the map.
type Layer struct {
	// ID is a UUID assigned when the layer is created
	ID string `json:"id"`

	// Name is the display name shown in the workbench
	Name string `json:"name"`

	// Kind is the data source type
	Kind Kind `json:"kind"`

	// URL locates the layer data
	URL string `json:"url,omitempty"`

	// Opacity ranges from 0 (transparent) to 1 (opaque)
	Opacity float64 `json:"opacity"`

	// Visible controls whether the layer is drawn
	Visible bool `json:"visible"`

	// KeepOnTop pins the layer above all unpinned layers
	KeepOnTop bool `json:"keepOnTop,omitempty"`

	// AddedAt is when the layer was added to the session
	AddedAt time.Time `json:"addedAt"`
}

// New creates a visible, fully opaque layer with a fresh ID.
func New(name string, kind Kind, url string, addedAt time.Time) *Layer {
	return &Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    kind,
		URL:     url,
		Opacity: 1,
		Visible: true,
		AddedAt: addedAt,
	}
}

// Validate checks the layer for missing or out of range fields.
func (l *Layer) Validate() error {
	if _, err := uuid.Parse(l.ID); err != nil {
		return fmt.Errorf("%w: id %q is not a UUID", ErrInvalidLayer, l.ID)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidLayer)
	}
	if _, err := ParseKind(string(l.Kind)); err != nil {
		return err
	}
	if l.Opacity < 0 || l.Opacity > 1 {
		return fmt.Errorf("%w: opacity %.2f outside [0,1]", ErrInvalidLayer, l.Opacity)
	}
	return nil
}

// ShortID returns the first block of the UUID, enough to address a layer
// from the command line.
func (l *Layer) ShortID() string {
	if i := strings.IndexByte(l.ID, '-'); i > 0 {
		return l.ID[:i]
	}
	return l.ID
}

// MatchID reports whether ref is the full ID or a unique-looking prefix of it.
func (l *Layer) MatchID(ref string) bool {
	return ref != "" && strings.HasPrefix(l.ID, strings.ToLower(ref))
}
