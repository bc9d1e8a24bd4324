package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/mapbench/internal/layers"
	"github.com/danieljhkim/mapbench/internal/workbench"
)

// LayerAdd creates a layer and puts it on the session's workbench. Pinned
// layers land at the top, others directly below the pinned block.
func (e *Engine) LayerAdd(ctx context.Context, req *LayerAddRequest) (*LayerResult, error) {
	kind, err := layers.ParseKind(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	l := layers.New(req.Name, kind, req.URL, e.clock.Now())
	l.KeepOnTop = req.KeepOnTop
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var pos int
	session, wb, err := e.mutate(ctx, req.Session, "", func(wb *workbench.Workbench) (bool, error) {
		var err error
		pos, err = wb.Add(*l)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	return &LayerResult{
		Layer:    layerInfos(wb)[pos],
		Revision: session.Revision,
	}, nil
}

// LayerRemove takes a layer off the session.
func (e *Engine) LayerRemove(ctx context.Context, req *LayerRefRequest) (*LayerResult, error) {
	var removed layers.Layer
	var index int
	session, _, err := e.mutate(ctx, req.Session, "", func(wb *workbench.Workbench) (bool, error) {
		target, err := resolveLayer(wb, req.Ref)
		if err != nil {
			return false, err
		}
		index = wb.IndexOf(target.ID)
		removed, err = wb.Remove(target.ID)
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	return &LayerResult{
		Layer:    newLayerInfo(index, removed),
		Revision: session.Revision,
	}, nil
}

// LayerList lists the session's layers, top first.
func (e *Engine) LayerList(ctx context.Context, req *LayerListRequest) (*LayerListResult, error) {
	show, err := e.SessionShow(ctx, &SessionShowRequest{Name: req.Session})
	if err != nil {
		return nil, err
	}
	return &LayerListResult{
		Session:  show.Name,
		Revision: show.Revision,
		Layers:   show.Layers,
	}, nil
}

// LayerSetVisibility shows or hides a layer. Setting the current value does
// not touch the session.
func (e *Engine) LayerSetVisibility(ctx context.Context, req *LayerVisibilityRequest) (*LayerResult, error) {
	return e.updateLayer(ctx, req.Session, req.Ref, func(wb *workbench.Workbench, l layers.Layer) (bool, error) {
		if l.Visible == req.Visible {
			return false, nil
		}
		return true, wb.SetVisibility(l.ID, req.Visible)
	})
}

// LayerSetOpacity changes a layer's opacity.
func (e *Engine) LayerSetOpacity(ctx context.Context, req *LayerOpacityRequest) (*LayerResult, error) {
	if req.Opacity < 0 || req.Opacity > 1 {
		return nil, fmt.Errorf("%w: opacity %.2f outside [0,1]", ErrValidation, req.Opacity)
	}
	return e.updateLayer(ctx, req.Session, req.Ref, func(wb *workbench.Workbench, l layers.Layer) (bool, error) {
		if l.Opacity == req.Opacity {
			return false, nil
		}
		return true, wb.SetOpacity(l.ID, req.Opacity)
	})
}

// updateLayer resolves ref and applies fn to the layer it names.
func (e *Engine) updateLayer(ctx context.Context, sessionName, ref string, fn func(*workbench.Workbench, layers.Layer) (bool, error)) (*LayerResult, error) {
	var id string
	session, wb, err := e.mutate(ctx, sessionName, "", func(wb *workbench.Workbench) (bool, error) {
		target, err := resolveLayer(wb, ref)
		if err != nil {
			return false, err
		}
		id = target.ID
		return fn(wb, target)
	})
	if err != nil {
		return nil, err
	}

	return &LayerResult{
		Layer:    layerInfos(wb)[wb.IndexOf(id)],
		Revision: session.Revision,
	}, nil
}
