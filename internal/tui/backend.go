package tui

import (
	"context"

	"github.com/danieljhkim/mapbench/internal/engine"
)

// Backend is the part of the engine the workbench view drives.
type Backend interface {
	Load(ctx context.Context) (*engine.SessionShowResult, error)
	Move(ctx context.Context, oldIndex, newIndex int, expectRevision string) (*engine.LayerMoveResult, error)
	SetVisibility(ctx context.Context, layerID string, visible bool) (*engine.LayerResult, error)
}

// EngineBackend binds an Engine to one session.
type EngineBackend struct {
	Engine  *engine.Engine
	Session string
}

// Load returns the session and its layers.
func (b *EngineBackend) Load(ctx context.Context) (*engine.SessionShowResult, error) {
	return b.Engine.SessionShow(ctx, &engine.SessionShowRequest{Name: b.Session})
}

// Move drops the layer at oldIndex at newIndex.
func (b *EngineBackend) Move(ctx context.Context, oldIndex, newIndex int, expectRevision string) (*engine.LayerMoveResult, error) {
	return b.Engine.LayerMove(ctx, &engine.LayerMoveRequest{
		Session:        b.Session,
		OldIndex:       oldIndex,
		NewIndex:       newIndex,
		ExpectRevision: expectRevision,
	})
}

// SetVisibility shows or hides a layer.
func (b *EngineBackend) SetVisibility(ctx context.Context, layerID string, visible bool) (*engine.LayerResult, error) {
	return b.Engine.LayerSetVisibility(ctx, &engine.LayerVisibilityRequest{
		Session: b.Session,
		Ref:     layerID,
		Visible: visible,
	})
}
