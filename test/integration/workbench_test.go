package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/clock"
	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/hash"
	"github.com/danieljhkim/mapbench/internal/order"
	"github.com/danieljhkim/mapbench/internal/state"
)

// seed creates a session holding the named layers, first name on top.
func seed(t *testing.T, eng *engine.Engine, session string, names ...string) {
	t.Helper()
	ctx := context.Background()
	_, err := eng.SessionInit(ctx, &engine.SessionInitRequest{Name: session})
	require.NoError(t, err)
	for i := len(names) - 1; i >= 0; i-- {
		_, err := eng.LayerAdd(ctx, &engine.LayerAddRequest{Session: session, Name: names[i], Kind: "geojson"})
		require.NoError(t, err)
	}
}

func list(t *testing.T, eng *engine.Engine, session string) []string {
	t.Helper()
	res, err := eng.LayerList(context.Background(), &engine.LayerListRequest{Session: session})
	require.NoError(t, err)
	return layerNames(res.Layers)
}

// Every drag lands where a plain array move would put it, and dragging back
// restores the original order.
func TestDragRoundTrip(t *testing.T) {
	ctx := context.Background()
	start := []string{"A", "B", "C", "D", "E"}

	for i := range start {
		for j := range start {
			t.Run(fmt.Sprintf("%d->%d", i, j), func(t *testing.T) {
				fs := newTestFS()
				eng := newTestEngine(t, fs)
				seed(t, eng, "s", start...)

				res, err := eng.LayerMove(ctx, &engine.LayerMoveRequest{Session: "s", OldIndex: i, NewIndex: j})
				require.NoError(t, err)
				assert.Equal(t, j, res.ActualIndex)
				if diff := cmp.Diff(order.Move(start, i, j), list(t, eng, "s")); diff != "" {
					t.Errorf("order mismatch (-want +got):\n%s", diff)
				}

				_, err = eng.LayerMove(ctx, &engine.LayerMoveRequest{Session: "s", OldIndex: j, NewIndex: i})
				require.NoError(t, err)
				if diff := cmp.Diff(start, list(t, eng, "s")); diff != "" {
					t.Errorf("round trip mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

// Two engines over the same files stand in for two mapbench processes.
func TestConcurrentEditorsDetectStaleRevision(t *testing.T) {
	ctx := context.Background()
	fs := newTestFS()
	cliEngine := newTestEngine(t, fs)
	uiEngine := newTestEngine(t, fs)
	seed(t, cliEngine, "shared", "A", "B", "C")

	// The workbench renders the session.
	view, err := uiEngine.SessionShow(ctx, &engine.SessionShowRequest{Name: "shared"})
	require.NoError(t, err)

	// Meanwhile the CLI reorders it.
	_, err = cliEngine.LayerMove(ctx, &engine.LayerMoveRequest{Session: "shared", OldIndex: 2, NewIndex: 0})
	require.NoError(t, err)
	require.Equal(t, []string{"C", "A", "B"}, list(t, cliEngine, "shared"))

	// A drop based on the old view is refused instead of clobbering.
	_, err = uiEngine.LayerMove(ctx, &engine.LayerMoveRequest{
		Session: "shared", OldIndex: 0, NewIndex: 2, ExpectRevision: view.Revision,
	})
	assert.ErrorIs(t, err, state.ErrStale)
	assert.Equal(t, []string{"C", "A", "B"}, list(t, uiEngine, "shared"))

	// After reloading, the same drag goes through.
	view, err = uiEngine.SessionShow(ctx, &engine.SessionShowRequest{Name: "shared"})
	require.NoError(t, err)
	_, err = uiEngine.LayerMove(ctx, &engine.LayerMoveRequest{
		Session: "shared", OldIndex: 0, NewIndex: 2, ExpectRevision: view.Revision,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, list(t, cliEngine, "shared"))
}

func TestPinnedLayersSurviveReload(t *testing.T) {
	ctx := context.Background()
	fs := newTestFS()
	eng := newTestEngine(t, fs)
	seed(t, eng, "s", "A", "B")

	_, err := eng.LayerAdd(ctx, &engine.LayerAddRequest{Session: "s", Name: "Grid", Kind: "basemap", KeepOnTop: true})
	require.NoError(t, err)

	// A fresh engine reads the pin back from disk.
	reopened := newTestEngine(t, fs)
	res, err := reopened.LayerMove(ctx, &engine.LayerMoveRequest{Session: "s", OldIndex: 2, NewIndex: 0})
	require.NoError(t, err)
	assert.True(t, res.Diverged)
	assert.Equal(t, []string{"Grid", "B", "A"}, list(t, reopened, "s"))

	// The pinned layer itself cannot be lowered past the unpinned ones.
	res, err = reopened.LayerMove(ctx, &engine.LayerMoveRequest{Session: "s", OldIndex: 0, NewIndex: 2})
	require.NoError(t, err)
	assert.False(t, res.Moved)
}

func TestFailedMoveWritesNothing(t *testing.T) {
	ctx := context.Background()
	fs := newTestFS()
	eng := newTestEngine(t, fs)
	seed(t, eng, "s", "A", "B")
	writes := fs.writes

	_, err := eng.LayerMove(ctx, &engine.LayerMoveRequest{Session: "s", OldIndex: 0, NewIndex: 5})
	assert.ErrorIs(t, err, order.ErrInvalidIndex)
	_, err = eng.LayerMove(ctx, &engine.LayerMoveRequest{Session: "s", OldIndex: 1, NewIndex: 1})
	require.NoError(t, err)

	assert.Equal(t, writes, fs.writes)
}

func TestSQLiteBackendMatchesFileBackend(t *testing.T) {
	ctx := context.Background()
	store, err := state.OpenSQLiteStateStore(filepath.Join(t.TempDir(), "mapbench.db"), hash.NewSHA256Hasher())
	require.NoError(t, err)
	defer store.Close()

	sqlEngine := engine.New(store, clock.NewStepper(testStart, time.Second), zap.NewNop())
	fileEngine := newTestEngine(t, newTestFS())

	for _, eng := range []*engine.Engine{fileEngine, sqlEngine} {
		seed(t, eng, "s", "A", "B", "C", "D")
		_, err := eng.LayerMove(ctx, &engine.LayerMoveRequest{Session: "s", OldIndex: 3, NewIndex: 1})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"A", "D", "B", "C"}, list(t, fileEngine, "s"))
	assert.Equal(t, list(t, fileEngine, "s"), list(t, sqlEngine, "s"))
}
