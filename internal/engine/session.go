package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/state"
)

// SessionInit creates an empty session. An existing session is an error
// unless Force is set.
func (e *Engine) SessionInit(ctx context.Context, req *SessionInitRequest) (*SessionInitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateSessionName(req.Name); err != nil {
		return nil, err
	}

	_, err := e.stateStore.LoadSession(req.Name)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if exists && !req.Force {
		return nil, fmt.Errorf("%w: session '%s' (use --force to replace it)", ErrExists, req.Name)
	}

	session := state.NewSession(req.Name, e.clock.Now())
	if err := e.stateStore.SaveSession(session, ""); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	e.logger.Info("session created", zap.String("session", req.Name), zap.Bool("replaced", exists))
	return &SessionInitResult{
		Name:     session.Name,
		Revision: session.Revision,
		Replaced: exists,
	}, nil
}

// SessionList lists all stored sessions.
func (e *Engine) SessionList(ctx context.Context) (*SessionListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := e.stateStore.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	result := &SessionListResult{Sessions: make([]SessionSummary, 0, len(names))}
	for _, name := range names {
		session, err := e.stateStore.LoadSession(name)
		if err != nil {
			// Deleted between list and load.
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load session %s: %w", name, err)
		}
		result.Sessions = append(result.Sessions, SessionSummary{
			Name:       session.Name,
			LayerCount: len(session.Layers),
			Revision:   session.Revision,
			UpdatedAt:  session.UpdatedAt,
		})
	}
	return result, nil
}

// SessionDelete deletes a session.
func (e *Engine) SessionDelete(ctx context.Context, req *SessionDeleteRequest) (*SessionDeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := e.loadSession(req.Name); err != nil {
		return nil, err
	}

	if err := e.stateStore.DeleteSession(req.Name); err != nil {
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}

	e.logger.Info("session deleted", zap.String("session", req.Name))
	return &SessionDeleteResult{Name: req.Name, Deleted: true}, nil
}

// SessionShow describes a session and its layers, top first.
func (e *Engine) SessionShow(ctx context.Context, req *SessionShowRequest) (*SessionShowResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := e.loadSession(req.Name)
	if err != nil {
		return nil, err
	}
	wb, err := e.hydrate(session)
	if err != nil {
		return nil, err
	}

	return &SessionShowResult{
		Name:      session.Name,
		Revision:  session.Revision,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Layers:    layerInfos(wb),
	}, nil
}
