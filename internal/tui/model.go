// Package tui is the interactive workbench: a list of the session's layers
// that can be reordered by picking a layer up, carrying it, and dropping it.
//
// The list is only a preview while a layer is carried. Nothing is saved until
// the drop, which sends the (from, to) pair to the engine and renders the
// order the engine reports back. Only one drop is in flight at a time.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/config"
	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/order"
	"github.com/danieljhkim/mapbench/internal/state"
)

// loadedMsg carries a loaded session. external is set when the load was
// triggered by a file change rather than by the user.
type loadedMsg struct {
	show     *engine.SessionShowResult
	err      error
	external bool
}

type movedMsg struct {
	res *engine.LayerMoveResult
	err error
}

type toggledMsg struct {
	res *engine.LayerResult
	err error
}

// sessionChangedMsg is delivered when the watcher reports a session file
// change. closed is set when the watcher channel is closed.
type sessionChangedMsg struct {
	name   string
	closed bool
}

// Model is the bubbletea model of the workbench.
type Model struct {
	ctx     context.Context
	backend Backend
	session string
	changes <-chan string
	logger  *zap.Logger

	keys   keyMap
	styles styles
	help   help.Model

	layers   []engine.LayerInfo
	revision string
	cursor   int

	// grabbed is set while a layer is carried; grabFrom is where it was
	// picked up.
	grabbed  bool
	grabFrom int

	// busy is set while a drop or toggle is being saved.
	busy bool

	// reloadPending defers a file change that arrived mid-drag.
	reloadPending bool

	status  string
	warning bool
	width   int
}

// Option configures a Model.
type Option func(*Model)

// WithChanges feeds session names from a watcher into the model.
func WithChanges(ch <-chan string) Option {
	return func(m *Model) { m.changes = ch }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// New creates the workbench model for one session.
func New(ctx context.Context, backend Backend, session string, settings *config.UISettings, opts ...Option) *Model {
	if settings == nil {
		settings = config.DefaultUISettings()
	}
	m := &Model{
		ctx:     ctx,
		backend: backend,
		session: session,
		logger:  zap.NewNop(),
		keys:    newKeyMap(settings.Keys),
		styles:  newStyles(settings.Palette),
		help:    help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the session and starts listening for file changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		show, err := m.backend.Load(m.ctx)
		return loadedMsg{show: show, err: err}
	}
}

// reload loads the session after a file change.
func (m *Model) reload() tea.Cmd {
	return func() tea.Msg {
		show, err := m.backend.Load(m.ctx)
		return loadedMsg{show: show, err: err, external: true}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		name, ok := <-ch
		return sessionChangedMsg{name: name, closed: !ok}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.setWarning(fmt.Sprintf("load failed: %v", msg.err))
			return m, nil
		}
		// Our own saves come back through the watcher with the revision
		// already shown. Keep the status so a move warning is not replaced.
		if msg.external && msg.show.Revision == m.revision {
			return m, nil
		}
		m.apply(msg.show.Layers, msg.show.Revision)
		if msg.external {
			m.setStatus("session changed on disk, reloaded")
		}
		return m, nil

	case movedMsg:
		return m, m.handleMoved(msg)

	case toggledMsg:
		m.busy = false
		if msg.err != nil {
			return m, m.handleSaveError("toggle", msg.err)
		}
		m.revision = msg.res.Revision
		if i := msg.res.Layer.Index; i >= 0 && i < len(m.layers) {
			m.layers[i] = msg.res.Layer
		}
		m.setStatus(fmt.Sprintf("%s %s", msg.res.Layer.Name, visibilityWord(msg.res.Layer.Visible)))
		return m, nil

	case sessionChangedMsg:
		if msg.closed {
			m.changes = nil
			return m, nil
		}
		next := m.waitForChange()
		if msg.name != m.session {
			return m, next
		}
		if m.grabbed || m.busy {
			m.reloadPending = true
			return m, next
		}
		return m, tea.Batch(m.reload(), next)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.layers)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Grab):
		if m.busy || len(m.layers) == 0 {
			return nil
		}
		if !m.grabbed {
			m.grabbed = true
			m.grabFrom = m.cursor
			m.setStatus(fmt.Sprintf("carrying %s", m.layers[m.cursor].Name))
			return nil
		}
		return m.drop()

	case key.Matches(msg, m.keys.Cancel):
		if m.grabbed {
			m.grabbed = false
			m.cursor = m.grabFrom
			m.setStatus("move cancelled")
			return m.flushPendingReload()
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.busy || m.grabbed || len(m.layers) == 0 {
			return nil
		}
		l := m.layers[m.cursor]
		m.busy = true
		return func() tea.Msg {
			res, err := m.backend.SetVisibility(m.ctx, l.ID, !l.Visible)
			return toggledMsg{res: res, err: err}
		}

	case key.Matches(msg, m.keys.Reload):
		if m.busy || m.grabbed {
			return nil
		}
		m.setStatus("reloaded")
		return m.load()
	}
	return nil
}

// drop ends the carry and saves the move. Dropping where the layer was
// picked up does not touch the session.
func (m *Model) drop() tea.Cmd {
	from, to := m.grabFrom, m.cursor
	m.grabbed = false
	if from == to {
		m.setStatus("")
		return m.flushPendingReload()
	}

	m.busy = true
	rev := m.revision
	m.logger.Debug("drop", zap.Int("from", from), zap.Int("to", to))
	return func() tea.Msg {
		res, err := m.backend.Move(m.ctx, from, to, rev)
		return movedMsg{res: res, err: err}
	}
}

func (m *Model) handleMoved(msg movedMsg) tea.Cmd {
	m.busy = false
	if msg.err != nil {
		m.cursor = m.grabFrom
		return m.handleSaveError("move", msg.err)
	}

	res := msg.res
	m.apply(res.Layers, res.Revision)
	m.cursor = res.ActualIndex
	if res.Diverged {
		m.setWarning(fmt.Sprintf("%s stopped at %d, a pinned layer is in the way", res.Layer.Name, res.ActualIndex))
	} else {
		m.setStatus(fmt.Sprintf("moved %s to %d", res.Layer.Name, res.ActualIndex))
	}
	return m.flushPendingReload()
}

// handleSaveError reports a failed save. A stale session is reloaded so the
// next action works on what is on disk.
func (m *Model) handleSaveError(action string, err error) tea.Cmd {
	m.logger.Warn("save failed", zap.String("action", action), zap.Error(err))
	if errors.Is(err, state.ErrStale) {
		m.reloadPending = false
		m.setWarning("session changed elsewhere, reloaded; try again")
		return m.load()
	}
	if errors.Is(err, order.ErrDesync) {
		m.setWarning("layer order is out of sync; reload to recover")
		return nil
	}
	m.setWarning(fmt.Sprintf("%s failed: %v", action, err))
	return m.flushPendingReload()
}

func (m *Model) flushPendingReload() tea.Cmd {
	if !m.reloadPending {
		return nil
	}
	m.reloadPending = false
	return m.reload()
}

func (m *Model) apply(layers []engine.LayerInfo, revision string) {
	m.layers = layers
	m.revision = revision
	if m.cursor >= len(m.layers) {
		m.cursor = max(len(m.layers)-1, 0)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.warning = false
}

func (m *Model) setWarning(s string) {
	m.status = s
	m.warning = true
}

// visible returns the list as drawn: while carrying, the carried layer is
// shown at the cursor.
func (m *Model) visible() []engine.LayerInfo {
	if !m.grabbed || m.grabFrom == m.cursor {
		return m.layers
	}
	return order.Move(m.layers, m.grabFrom, m.cursor)
}

func visibilityWord(visible bool) string {
	if visible {
		return "shown"
	}
	return "hidden"
}
