package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/order"
	"github.com/danieljhkim/mapbench/internal/state"
)

type moveCall struct {
	from, to int
	rev      string
}

type fakeBackend struct {
	layers   []engine.LayerInfo
	revision int
	moves    []moveCall
	moveErr  error
	loads    int
	// stopAt, when >= 0, makes moves stop short at that index.
	stopAt int
}

func newFakeBackend(names ...string) *fakeBackend {
	b := &fakeBackend{revision: 1, stopAt: -1}
	for i, n := range names {
		b.layers = append(b.layers, engine.LayerInfo{
			Index:   i,
			ID:      fmt.Sprintf("id-%s", n),
			ShortID: n,
			Name:    n,
			Kind:    "geojson",
			Opacity: 1,
			Visible: true,
		})
	}
	return b
}

func (b *fakeBackend) rev() string { return fmt.Sprintf("rev-%d", b.revision) }

func (b *fakeBackend) reindex() {
	for i := range b.layers {
		b.layers[i].Index = i
	}
}

func (b *fakeBackend) Load(ctx context.Context) (*engine.SessionShowResult, error) {
	b.loads++
	return &engine.SessionShowResult{
		Name:     "test",
		Revision: b.rev(),
		Layers:   append([]engine.LayerInfo(nil), b.layers...),
	}, nil
}

func (b *fakeBackend) Move(ctx context.Context, from, to int, rev string) (*engine.LayerMoveResult, error) {
	b.moves = append(b.moves, moveCall{from, to, rev})
	if b.moveErr != nil {
		return nil, b.moveErr
	}
	actual := to
	if b.stopAt >= 0 {
		actual = b.stopAt
	}
	b.layers = order.Move(b.layers, from, actual)
	b.reindex()
	b.revision++
	return &engine.LayerMoveResult{
		Layer:          b.layers[actual],
		OldIndex:       from,
		RequestedIndex: to,
		ActualIndex:    actual,
		Moved:          actual != from,
		Diverged:       actual != to,
		Revision:       b.rev(),
		Layers:         append([]engine.LayerInfo(nil), b.layers...),
	}, nil
}

func (b *fakeBackend) SetVisibility(ctx context.Context, id string, visible bool) (*engine.LayerResult, error) {
	for i := range b.layers {
		if b.layers[i].ID == id {
			b.layers[i].Visible = visible
			b.revision++
			return &engine.LayerResult{Layer: b.layers[i], Revision: b.rev()}, nil
		}
	}
	return nil, engine.ErrNotFound
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	keyUp    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyV     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")}
	keyR     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
	keyQ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

// send delivers msg and runs any resulting command to completion, feeding
// its message back in.
func send(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	runCmd(t, m, cmd)
}

func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		next := cmd()
		if batch, ok := next.(tea.BatchMsg); ok {
			for _, c := range batch {
				runCmd(t, m, c)
			}
			return
		}
		if next == nil {
			return
		}
		_, cmd = m.Update(next)
	}
}

func loadedModel(t *testing.T, b *fakeBackend) *Model {
	t.Helper()
	m := New(context.Background(), b, "test", nil)
	send(t, m, m.load()())
	require.Len(t, m.layers, len(b.layers))
	return m
}

func names(infos []engine.LayerInfo) []string {
	out := make([]string, 0, len(infos))
	for _, l := range infos {
		out = append(out, l.Name)
	}
	return out
}

func TestModel_CursorMovement(t *testing.T) {
	m := loadedModel(t, newFakeBackend("A", "B", "C"))

	send(t, m, keyUp)
	assert.Equal(t, 0, m.cursor)
	send(t, m, keyDown)
	send(t, m, keyDown)
	send(t, m, keyDown)
	assert.Equal(t, 2, m.cursor)
}

func TestModel_DragAndDrop(t *testing.T) {
	b := newFakeBackend("A", "B", "C", "D", "E")
	m := loadedModel(t, b)

	send(t, m, keySpace)
	assert.True(t, m.grabbed)
	for range 4 {
		send(t, m, keyDown)
	}
	// Preview while carrying, nothing saved yet.
	assert.Equal(t, []string{"B", "C", "D", "E", "A"}, names(m.visible()))
	assert.Empty(t, b.moves)

	send(t, m, keySpace)
	require.Len(t, b.moves, 1)
	assert.Equal(t, moveCall{from: 0, to: 4, rev: "rev-1"}, b.moves[0])
	assert.False(t, m.grabbed)
	assert.False(t, m.busy)
	assert.Equal(t, []string{"B", "C", "D", "E", "A"}, names(m.layers))
	assert.Equal(t, "rev-2", m.revision)
	assert.Equal(t, 4, m.cursor)
	assert.False(t, m.warning)
}

func TestModel_DropInPlaceDoesNotSave(t *testing.T) {
	b := newFakeBackend("A", "B")
	m := loadedModel(t, b)

	send(t, m, keySpace)
	send(t, m, keySpace)
	assert.Empty(t, b.moves)
	assert.False(t, m.grabbed)
}

func TestModel_CancelRestoresCursor(t *testing.T) {
	b := newFakeBackend("A", "B", "C")
	m := loadedModel(t, b)

	send(t, m, keyDown)
	send(t, m, keySpace)
	send(t, m, keyDown)
	send(t, m, keyEsc)

	assert.False(t, m.grabbed)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, []string{"A", "B", "C"}, names(m.visible()))
	assert.Empty(t, b.moves)
}

func TestModel_DivergedDropWarns(t *testing.T) {
	b := newFakeBackend("Pin", "B", "C")
	b.stopAt = 1
	m := loadedModel(t, b)

	send(t, m, keyDown)
	send(t, m, keyDown)
	send(t, m, keySpace)
	send(t, m, keyUp)
	send(t, m, keyUp)
	send(t, m, keySpace)

	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, []string{"Pin", "C", "B"}, names(m.layers))
	assert.True(t, m.warning)
	assert.Contains(t, m.status, "pinned")
}

func TestModel_DivergedWarningSurvivesOwnWrite(t *testing.T) {
	b := newFakeBackend("Pin", "B", "C", "D")
	b.stopAt = 1
	m := loadedModel(t, b)

	for range 3 {
		send(t, m, keyDown)
	}
	send(t, m, keySpace)
	for range 3 {
		send(t, m, keyUp)
	}
	send(t, m, keySpace)
	require.True(t, m.warning)
	warning := m.status
	loads := b.loads

	// The save shows up as a file change with the revision already applied.
	send(t, m, sessionChangedMsg{name: "test"})

	assert.Equal(t, loads+1, b.loads)
	assert.True(t, m.warning)
	assert.Equal(t, warning, m.status)
	assert.Equal(t, []string{"Pin", "D", "B", "C"}, names(m.layers))
}

func TestModel_ExternalChangeReplacesStatus(t *testing.T) {
	b := newFakeBackend("A", "B")
	m := loadedModel(t, b)

	b.layers = b.layers[:1]
	b.revision++
	send(t, m, sessionChangedMsg{name: "test"})

	assert.False(t, m.warning)
	assert.Equal(t, "session changed on disk, reloaded", m.status)
	assert.Equal(t, []string{"A"}, names(m.layers))
	assert.Equal(t, "rev-2", m.revision)
}

func TestModel_StaleDropReloads(t *testing.T) {
	b := newFakeBackend("A", "B")
	b.moveErr = fmt.Errorf("failed to save session: %w", state.ErrStale)
	m := loadedModel(t, b)
	loads := b.loads

	send(t, m, keySpace)
	send(t, m, keyDown)
	send(t, m, keySpace)

	assert.Equal(t, loads+1, b.loads)
	assert.True(t, m.warning)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, []string{"A", "B"}, names(m.layers))
}

func TestModel_OtherDropErrors(t *testing.T) {
	b := newFakeBackend("A", "B")
	b.moveErr = errors.New("disk full")
	m := loadedModel(t, b)

	send(t, m, keySpace)
	send(t, m, keyDown)
	send(t, m, keySpace)

	assert.True(t, m.warning)
	assert.Contains(t, m.status, "disk full")
	assert.False(t, m.busy)
}

func TestModel_BusyBlocksNewDrag(t *testing.T) {
	b := newFakeBackend("A", "B")
	m := loadedModel(t, b)

	_, _ = m.Update(keySpace)
	_, _ = m.Update(keyDown)
	_, cmd := m.Update(keySpace)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	// A second pick-up while the drop is saving is ignored.
	_, again := m.Update(keySpace)
	assert.Nil(t, again)
	assert.False(t, m.grabbed)

	_, _ = m.Update(cmd())
	assert.False(t, m.busy)
}

func TestModel_ToggleVisibility(t *testing.T) {
	b := newFakeBackend("A", "B")
	m := loadedModel(t, b)

	send(t, m, keyDown)
	send(t, m, keyV)
	assert.False(t, m.layers[1].Visible)
	assert.Equal(t, "rev-2", m.revision)
	assert.Contains(t, m.View(), "hidden")
}

func TestModel_SessionChangedReloads(t *testing.T) {
	b := newFakeBackend("A", "B")
	ch := make(chan string, 1)
	m := New(context.Background(), b, "test", nil, WithChanges(ch))
	send(t, m, m.load()())
	loads := b.loads

	// Another session is ignored.
	_, cmd := m.Update(sessionChangedMsg{name: "other"})
	require.NotNil(t, cmd)
	assert.Equal(t, loads, b.loads)

	// Changes mid-drag wait for the drop.
	send(t, m, keySpace)
	_, _ = m.Update(sessionChangedMsg{name: "test"})
	assert.True(t, m.reloadPending)
	send(t, m, keyEsc)
	assert.Equal(t, loads+1, b.loads)
	assert.False(t, m.reloadPending)

	// Closed channel stops listening.
	_, cmd = m.Update(sessionChangedMsg{closed: true})
	assert.Nil(t, cmd)
	assert.Nil(t, m.waitForChange())
}

func TestModel_ReloadAndQuit(t *testing.T) {
	b := newFakeBackend("A")
	m := loadedModel(t, b)
	loads := b.loads

	send(t, m, keyR)
	assert.Equal(t, loads+1, b.loads)

	_, cmd := m.Update(keyQ)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	b := newFakeBackend("Rivers", "Roads")
	b.layers[1].KeepOnTop = true
	b.layers[1].Opacity = 0.5
	m := loadedModel(t, b)

	out := m.View()
	assert.Contains(t, out, "mapbench · test")
	assert.Contains(t, out, "Rivers")
	assert.Contains(t, out, "pinned, 50%")
	assert.Contains(t, out, "space")

	empty := loadedModel(t, newFakeBackend())
	assert.Contains(t, empty.View(), "no layers")
}
