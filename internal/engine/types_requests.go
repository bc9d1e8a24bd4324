package engine

// SessionInitRequest represents a request to create a session.
type SessionInitRequest struct {
	// Name is the session name
	Name string

	// Force replaces an existing session with an empty one
	Force bool
}

// SessionDeleteRequest represents a request to delete a session.
type SessionDeleteRequest struct {
	Name string
}

// SessionShowRequest represents a request to describe a session.
type SessionShowRequest struct {
	Name string
}

// LayerAddRequest represents a request to add a layer to a session.
type LayerAddRequest struct {
	// Session is the target session name
	Session string

	// Name is the layer display name
	Name string

	// Kind is the data source type (geojson, wms, csv, 3dtiles, basemap)
	Kind string

	// URL locates the layer data
	URL string

	// KeepOnTop pins the layer above all unpinned layers
	KeepOnTop bool
}

// LayerRefRequest addresses one layer of a session by ID or ID prefix.
type LayerRefRequest struct {
	// Session is the target session name
	Session string

	// Ref is the layer ID or a prefix of it
	Ref string
}

// LayerListRequest represents a request to list a session's layers.
type LayerListRequest struct {
	Session string
}

// LayerMoveRequest represents a drag of one layer to a new position.
type LayerMoveRequest struct {
	// Session is the target session name
	Session string

	// OldIndex is the position the layer is dragged from (0 = top)
	OldIndex int

	// NewIndex is the position the layer is dropped at
	NewIndex int

	// ExpectRevision, when set, must match the stored session revision.
	// The TUI passes the revision it rendered.
	ExpectRevision string
}

// LayerVisibilityRequest represents a request to show or hide a layer.
type LayerVisibilityRequest struct {
	Session string
	Ref     string
	Visible bool
}

// LayerOpacityRequest represents a request to change a layer's opacity.
type LayerOpacityRequest struct {
	Session string
	Ref     string

	// Opacity ranges from 0 (transparent) to 1 (opaque)
	Opacity float64
}
