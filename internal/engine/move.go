package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/workbench"
)

// LayerMove drags the layer at OldIndex toward NewIndex. The layer may stop
// short when a pinned layer blocks the way; the result reports where it
// ended up. Invalid indices fail with order.ErrInvalidIndex and leave the
// session untouched.
func (e *Engine) LayerMove(ctx context.Context, req *LayerMoveRequest) (*LayerMoveResult, error) {
	return e.move(ctx, req.Session, req.ExpectRevision, func(wb *workbench.Workbench) (*workbench.MoveResult, error) {
		return wb.Move(req.OldIndex, req.NewIndex)
	})
}

// LayerRaise moves a layer one position toward the top.
func (e *Engine) LayerRaise(ctx context.Context, req *LayerRefRequest) (*LayerMoveResult, error) {
	return e.move(ctx, req.Session, "", func(wb *workbench.Workbench) (*workbench.MoveResult, error) {
		target, err := resolveLayer(wb, req.Ref)
		if err != nil {
			return nil, err
		}
		return wb.Raise(target.ID)
	})
}

// LayerLower moves a layer one position toward the bottom.
func (e *Engine) LayerLower(ctx context.Context, req *LayerRefRequest) (*LayerMoveResult, error) {
	return e.move(ctx, req.Session, "", func(wb *workbench.Workbench) (*workbench.MoveResult, error) {
		target, err := resolveLayer(wb, req.Ref)
		if err != nil {
			return nil, err
		}
		return wb.Lower(target.ID)
	})
}

func (e *Engine) move(ctx context.Context, name, expectRevision string, fn func(*workbench.Workbench) (*workbench.MoveResult, error)) (*LayerMoveResult, error) {
	var res *workbench.MoveResult
	session, wb, err := e.mutate(ctx, name, expectRevision, func(wb *workbench.Workbench) (bool, error) {
		var err error
		res, err = fn(wb)
		if err != nil {
			return false, err
		}
		return res.Moved(), nil
	})
	if err != nil {
		return nil, err
	}

	infos := layerInfos(wb)
	e.logger.Info("layer move",
		zap.String("session", name),
		zap.String("layer", infos[res.ActualIndex].ShortID),
		zap.Int("from", res.OldIndex),
		zap.Int("requested", res.RequestedIndex),
		zap.Int("reached", res.ActualIndex))

	return &LayerMoveResult{
		Layer:          infos[res.ActualIndex],
		OldIndex:       res.OldIndex,
		RequestedIndex: res.RequestedIndex,
		ActualIndex:    res.ActualIndex,
		Moved:          res.Moved(),
		Diverged:       res.Diverged(),
		Revision:       session.Revision,
		Layers:         infos,
	}, nil
}
