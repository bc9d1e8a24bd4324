package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/config"
	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/logging"
	"github.com/danieljhkim/mapbench/internal/tui"
	"github.com/danieljhkim/mapbench/internal/watch"
)

// uiCmd opens the interactive workbench.
var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive workbench",
	Long: `Open the interactive workbench for the current session.

Move the cursor with up/down, press space to pick a layer up, carry it with
up/down, and press space again to drop it. Esc puts the layer back, v shows
or hides the layer under the cursor, r reloads, and q quits. Keys and colors
can be changed in keys.toml under the data root.

Logs go to logs/mapbench.log under the data root while the workbench is open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := paths.EnsureDirectories(); err != nil {
			return err
		}

		fileLogger, err := logging.NewFile(paths.Logs, cfg.Log.Level, verbose)
		if err != nil {
			return err
		}
		defer func() { _ = fileLogger.Sync() }()

		settings, err := config.LoadUISettings(paths.Keys)
		if err != nil {
			return err
		}

		eng, closeEng, err := newEngine(fileLogger)
		if err != nil {
			return err
		}
		defer closeEng()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		name := sessionName()
		if _, err := eng.SessionShow(ctx, &engine.SessionShowRequest{Name: name}); err != nil {
			return err
		}

		opts := []tui.Option{tui.WithLogger(fileLogger)}
		if cfg.UI.Watch {
			w, err := newSessionWatcher(cfg, paths, name, fileLogger)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()
			opts = append(opts, tui.WithChanges(w.Events()))
		}

		fileLogger.Info("workbench opened", zap.String("session", name))
		model := tui.New(ctx, &tui.EngineBackend{Engine: eng, Session: name}, name, settings, opts...)
		if err := tui.Run(ctx, model); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	},
}

// newSessionWatcher watches whatever the configured backend writes: the
// session JSON files, or the SQLite database for session.
func newSessionWatcher(c *config.Config, p *config.Paths, session string, log *zap.Logger) (*watch.Watcher, error) {
	if c.State.Backend == config.BackendSQLite {
		log.Debug("watching database", zap.String("path", p.Database))
		return watch.New(filepath.Dir(p.Database), c.GetDebounce(), log,
			watch.ForFile(filepath.Base(p.Database), session))
	}
	return watch.New(p.Sessions, c.GetDebounce(), log)
}
