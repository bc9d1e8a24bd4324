// Package engine provides the core operations behind mapbench commands.
//
// The engine package is the orchestration layer between the CLI or TUI and
// the lower-level packages. Every mutating operation follows the same path:
// load the session, rebuild its workbench, apply the change, and save with
// the revision that was loaded so a concurrent edit is reported as stale
// instead of being overwritten.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Sessions: init, list, show, delete
//   - Layers: add, remove, list, visibility, opacity
//   - Ordering: move by index, raise and lower by ID
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/clock"
	"github.com/danieljhkim/mapbench/internal/fsops"
	"github.com/danieljhkim/mapbench/internal/layers"
	"github.com/danieljhkim/mapbench/internal/state"
	"github.com/danieljhkim/mapbench/internal/workbench"
)

// Engine orchestrates all mapbench operations.
// It is the main API surface called by the CLI and the TUI.
type Engine struct {
	stateStore state.StateStore
	clock      clock.Clock
	logger     *zap.Logger
}

// New creates a new Engine with the given dependencies.
func New(stateStore state.StateStore, clk clock.Clock, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		stateStore: stateStore,
		clock:      clk,
		logger:     logger,
	}
}

func validateSessionName(name string) error {
	if err := fsops.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// loadSession loads a session, mapping a missing session to ErrNotFound.
func (e *Engine) loadSession(name string) (*state.Session, error) {
	if err := validateSessionName(name); err != nil {
		return nil, err
	}
	session, err := e.stateStore.LoadSession(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: session '%s'", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// hydrate rebuilds the workbench a session describes and checks that its two
// orderings agree.
func (e *Engine) hydrate(session *state.Session) (*workbench.Workbench, error) {
	wb, err := workbench.FromSnapshot(workbench.Snapshot{
		Layers:     session.Layers,
		NowViewing: session.NowViewing,
		LayerOrder: session.LayerOrder,
	}, e.logger.With(zap.String("session", session.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", session.Name, err)
	}
	if err := wb.Check(); err != nil {
		return nil, fmt.Errorf("session %s: %w", session.Name, err)
	}
	return wb, nil
}

// mutation changes a workbench and reports whether anything changed.
type mutation func(wb *workbench.Workbench) (changed bool, err error)

// mutate runs fn against the named session and saves the result. The save
// expects the revision that was loaded, or expectRevision when given.
func (e *Engine) mutate(ctx context.Context, name, expectRevision string, fn mutation) (*state.Session, *workbench.Workbench, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	session, err := e.loadSession(name)
	if err != nil {
		return nil, nil, err
	}
	if expectRevision != "" && expectRevision != session.Revision {
		return nil, nil, fmt.Errorf("%w: %s is at revision %s, expected %s", state.ErrStale, name, session.Revision, expectRevision)
	}

	wb, err := e.hydrate(session)
	if err != nil {
		return nil, nil, err
	}

	changed, err := fn(wb)
	if err != nil {
		return nil, nil, err
	}
	if !changed {
		return session, wb, nil
	}

	loadedRevision := session.Revision
	snap := wb.Snapshot()
	session.Layers = snap.Layers
	session.NowViewing = snap.NowViewing
	session.LayerOrder = snap.LayerOrder
	session.UpdatedAt = e.clock.Now()

	if err := e.stateStore.SaveSession(session, loadedRevision); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	e.logger.Debug("session saved",
		zap.String("session", name),
		zap.String("revision", session.Revision))
	return session, wb, nil
}

// resolveLayer finds the layer a user reference (full ID or ID prefix)
// points at.
func resolveLayer(wb *workbench.Workbench, ref string) (layers.Layer, error) {
	var matches []layers.Layer
	for _, l := range wb.Layers() {
		if l.MatchID(ref) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return layers.Layer{}, fmt.Errorf("%w: layer '%s'", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return layers.Layer{}, fmt.Errorf("%w: '%s' matches %d layers", ErrAmbiguous, ref, len(matches))
	}
}

// layerInfos lists the workbench layers top first.
func layerInfos(wb *workbench.Workbench) []LayerInfo {
	ordered := wb.Layers()
	infos := make([]LayerInfo, 0, len(ordered))
	for i, l := range ordered {
		infos = append(infos, newLayerInfo(i, l))
	}
	return infos
}
