// Package watch reports session files that change on disk.
//
// The TUI uses it to reload a session that another mapbench process (or an
// editor) rewrote while the workbench was open. Bursts of events for the same
// file, such as the create and rename of an atomic write, are collapsed into
// a single notification once the file has been quiet for the debounce period.
//
// By default every <name>.json in the directory is a session. ForFile
// instead maps one file, such as the SQLite database, to one session.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const sessionExt = ".json"

// Watcher delivers the names of sessions whose files changed.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	logger   *zap.Logger

	// match maps a base file name to the session it belongs to.
	match func(base string) (string, bool)

	pending map[string]time.Time
	events  chan string
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stopped bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// ForFile reports session for every change to file in the watched
// directory. Files named file-<suffix>, such as SQLite journals, count too.
func ForFile(file, session string) Option {
	return func(w *Watcher) {
		w.match = func(base string) (string, bool) {
			if base == file || strings.HasPrefix(base, file+"-") {
				return session, true
			}
			return "", false
		}
	}
}

// New creates a Watcher for the sessions directory.
func New(dir string, debounce time.Duration, logger *zap.Logger, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	w := &Watcher{
		watcher:  fw,
		dir:      dir,
		debounce: debounce,
		logger:   logger,
		match:    sessionFile,
		pending:  make(map[string]time.Time),
		events:   make(chan string, 16),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// sessionFile matches <name>.json. Temp files from atomic writes start with
// a dot and are ignored.
func sessionFile(base string) (string, bool) {
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, sessionExt) {
		return "", false
	}
	return strings.TrimSuffix(base, sessionExt), true
}

// Events returns the channel of changed session names. It is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Start begins watching. It is non-blocking and a second call is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	w.running = true
	w.logger.Debug("watching sessions", zap.String("dir", w.dir))
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	running := w.running
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	} else {
		close(w.events)
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.events)

	tick := max(w.debounce/4, 10*time.Millisecond)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			if !w.flush(ctx, now) {
				return
			}
		}
	}
}

// handle records a relevant event.
func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	name, ok := w.match(filepath.Base(event.Name))
	if !ok {
		return
	}
	w.pending[name] = time.Now()
	w.logger.Debug("session file event", zap.String("session", name), zap.String("op", event.Op.String()))
}

// flush emits sessions that have been quiet for the debounce period. It
// returns false if the watcher was stopped while sending.
func (w *Watcher) flush(ctx context.Context, now time.Time) bool {
	for name, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, name)
		select {
		case w.events <- name:
		case <-ctx.Done():
			return false
		case <-w.stopCh:
			return false
		}
	}
	return true
}
