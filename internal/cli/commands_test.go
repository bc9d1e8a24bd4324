package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/layers"
	"github.com/danieljhkim/mapbench/internal/order"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// resetFlags clears flag variables left over from earlier Execute calls.
func resetFlags(t *testing.T) {
	t.Helper()
	jsonOutput = false
	sessionFlag = ""
	verbose = false
	initForce = false
	addKind = string(layers.KindGeoJSON)
	addURL = ""
	addKeepOnTop = false
}

// setupTestEnv points mapbench at a temporary data root.
func setupTestEnv(t *testing.T, backend string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "mapbench")
	t.Setenv("MAPBENCH_ROOT", root)
	t.Setenv("MAPBENCH_SESSION", "")
	t.Setenv("MAPBENCH_BACKEND", backend)
	t.Setenv("MAPBENCH_LOG_LEVEL", "error")
	return root
}

// run executes mapbench with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	rootCmd.SetArgs(args)
	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	return out, err
}

func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, append(args, "--json")...)
	if err != nil {
		t.Fatalf("mapbench %v: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("mapbench %v: invalid JSON %q: %v", args, out, err)
	}
}

func layerNames(infos []engine.LayerInfo) []string {
	names := make([]string, 0, len(infos))
	for _, l := range infos {
		names = append(names, l.Name)
	}
	return names
}

func equalNames(t *testing.T, got []engine.LayerInfo, want ...string) {
	t.Helper()
	names := layerNames(got)
	if len(names) != len(want) {
		t.Fatalf("layers = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("layers = %v, want %v", names, want)
		}
	}
}

func TestInitCommand(t *testing.T) {
	root := setupTestEnv(t, "file")

	var res engine.SessionInitResult
	runJSON(t, &res, "init", "coast")
	if res.Name != "coast" || res.Replaced {
		t.Errorf("unexpected init result: %+v", res)
	}

	if _, err := os.Stat(filepath.Join(root, "sessions", "coast.json")); err != nil {
		t.Errorf("session file not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}

	_, err := run(t, "init", "coast")
	if !errors.Is(err, engine.ErrExists) {
		t.Errorf("second init error = %v, want ErrExists", err)
	}

	runJSON(t, &res, "init", "coast", "--force")
	if !res.Replaced {
		t.Error("expected --force to replace the session")
	}
}

func TestLayerWorkflow(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			setupTestEnv(t, backend)

			if _, err := run(t, "init"); err != nil {
				t.Fatalf("init: %v", err)
			}
			for _, name := range []string{"C", "B", "A"} {
				if _, err := run(t, "add", name, "--kind", "wms", "--url", "https://example.com/"+name); err != nil {
					t.Fatalf("add %s: %v", name, err)
				}
			}

			var list engine.LayerListResult
			runJSON(t, &list, "ls")
			equalNames(t, list.Layers, "A", "B", "C")

			var moved engine.LayerMoveResult
			runJSON(t, &moved, "move", "0", "2")
			if !moved.Moved || moved.Diverged || moved.ActualIndex != 2 {
				t.Errorf("unexpected move result: %+v", moved)
			}
			equalNames(t, moved.Layers, "B", "C", "A")

			var added engine.LayerResult
			runJSON(t, &added, "add", "Labels", "--kind", "basemap", "--keep-on-top")
			if added.Layer.Index != 0 || !added.Layer.KeepOnTop {
				t.Errorf("pinned layer not on top: %+v", added.Layer)
			}

			// The pinned layer blocks the move.
			runJSON(t, &moved, "move", "3", "0")
			if !moved.Diverged || moved.ActualIndex != 1 {
				t.Errorf("expected move to stop at 1: %+v", moved)
			}
			equalNames(t, moved.Layers, "Labels", "A", "B", "C")

			a := moved.Layers[1].ShortID
			runJSON(t, &moved, "lower", a)
			equalNames(t, moved.Layers, "Labels", "B", "A", "C")
			runJSON(t, &moved, "raise", a)
			equalNames(t, moved.Layers, "Labels", "A", "B", "C")

			var updated engine.LayerResult
			runJSON(t, &updated, "hide", a)
			if updated.Layer.Visible {
				t.Error("expected layer hidden")
			}
			runJSON(t, &updated, "show", a)
			if !updated.Layer.Visible {
				t.Error("expected layer visible")
			}
			runJSON(t, &updated, "opacity", a, "40%")
			if updated.Layer.Opacity != 0.4 {
				t.Errorf("opacity = %v, want 0.4", updated.Layer.Opacity)
			}

			runJSON(t, &updated, "rm", a)
			runJSON(t, &list, "ls")
			equalNames(t, list.Layers, "Labels", "B", "C")
		})
	}
}

func TestMoveCommand_Errors(t *testing.T) {
	setupTestEnv(t, "file")
	if _, err := run(t, "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "add", "Only"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"index out of range", []string{"move", "0", "1"}, order.ErrInvalidIndex},
		{"negative index", []string{"move", "--", "-1", "0"}, order.ErrInvalidIndex},
		{"negative index without separator", []string{"move", "-1", "0"}, order.ErrInvalidIndex},
		{"negative target without separator", []string{"move", "0", "-2"}, order.ErrInvalidIndex},
		{"not a number", []string{"move", "top", "0"}, engine.ErrValidation},
		{"unknown layer", []string{"raise", "ffffffff"}, engine.ErrNotFound},
		{"unknown session", []string{"ls", "--session", "nope"}, engine.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("mapbench %v error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}
}

func TestNegativeIndexError(t *testing.T) {
	tests := []struct {
		msg     string
		invalid bool
	}{
		{"unknown shorthand flag: '1' in -1", true},
		{"unknown shorthand flag: '1' in -12", true},
		{"unknown shorthand flag: 'x' in -x", false},
		{"unknown shorthand flag: '1' in -v1", false},
		{"unknown flag: --top", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			in := errors.New(tt.msg)
			err := negativeIndexError(moveCmd, in)
			if got := errors.Is(err, order.ErrInvalidIndex); got != tt.invalid {
				t.Errorf("negativeIndexError(%q) = %v, invalid index = %v, want %v", tt.msg, err, got, tt.invalid)
			}
			if !tt.invalid && err != in {
				t.Errorf("negativeIndexError(%q) = %v, want the flag error unchanged", tt.msg, err)
			}
		})
	}
}

func TestSessionCommands(t *testing.T) {
	setupTestEnv(t, "file")
	for _, name := range []string{"beta", "alpha"} {
		if _, err := run(t, "init", name); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := run(t, "add", "Rivers", "-s", "beta"); err != nil {
		t.Fatal(err)
	}

	var list engine.SessionListResult
	runJSON(t, &list, "session", "ls")
	if len(list.Sessions) != 2 || list.Sessions[0].Name != "alpha" || list.Sessions[1].LayerCount != 1 {
		t.Errorf("unexpected session list: %+v", list)
	}

	var show engine.SessionShowResult
	runJSON(t, &show, "session", "show", "beta")
	equalNames(t, show.Layers, "Rivers")

	var del engine.SessionDeleteResult
	runJSON(t, &del, "session", "rm", "alpha")
	if !del.Deleted {
		t.Error("expected alpha deleted")
	}

	runJSON(t, &list, "session", "ls")
	if len(list.Sessions) != 1 {
		t.Errorf("expected one session left, got %+v", list.Sessions)
	}
}

func TestHumanOutput(t *testing.T) {
	setupTestEnv(t, "file")
	if _, err := run(t, "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "add", "Rivers"); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "ls")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Rivers") || !strings.Contains(out, "geojson") {
		t.Errorf("ls output missing layer: %q", out)
	}

	out, err = run(t, "move", "0", "0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "already at 0") {
		t.Errorf("unexpected move output: %q", out)
	}
}
