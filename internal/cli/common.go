package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/clock"
	"github.com/danieljhkim/mapbench/internal/config"
	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/fsops"
	"github.com/danieljhkim/mapbench/internal/hash"
	"github.com/danieljhkim/mapbench/internal/state"
)

// newEngine creates a new engine with real implementations of all
// dependencies. The returned close func releases the state backend.
func newEngine(log *zap.Logger) (*engine.Engine, func(), error) {
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	stateStore, closeStore, err := openStateStore(cfg, paths)
	if err != nil {
		return nil, nil, err
	}

	return engine.New(stateStore, clock.System(), log), closeStore, nil
}

// openStateStore opens the backend selected by state.backend.
func openStateStore(c *config.Config, p *config.Paths) (state.StateStore, func(), error) {
	hasher := hash.NewSHA256Hasher()

	switch c.State.Backend {
	case config.BackendSQLite:
		store, err := state.OpenSQLiteStateStore(p.Database, hasher)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return state.NewFileStateStore(fsops.NewRealFS(), hasher, p.Sessions), func() {}, nil
	}
}

// formatJSON formats a value as JSON.
func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
