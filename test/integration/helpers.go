package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/danieljhkim/mapbench/internal/clock"
	"github.com/danieljhkim/mapbench/internal/engine"
	"github.com/danieljhkim/mapbench/internal/fsops"
	"github.com/danieljhkim/mapbench/internal/hash"
	"github.com/danieljhkim/mapbench/internal/state"
)

const sessionsDir = "/mapbench/sessions"

// testFS is a filesystem implementation that keeps files in memory for testing
type testFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	dirs   map[string]bool
	locks  map[string]bool
	writes int
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		locks: make(map[string]bool),
	}
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(fs.files, path)
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.dirs[filepath.Dir(path)] {
		return os.ErrNotExist
	}
	fs.files[path] = append([]byte(nil), data...)
	fs.writes++
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, ok := fs.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (fs *testFS) Exists(path string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, isFile := fs.files[path]
	return isFile || fs.dirs[path], nil
}

func (fs *testFS) ListNames(dir, ext string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	names := []string{}
	for path := range fs.files {
		if filepath.Dir(path) != dir {
			continue
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(base, ext))
	}
	sort.Strings(names)
	return names, nil
}

func (fs *testFS) ValidateName(name string) error {
	return fsops.ValidateName(name)
}

func (fs *testFS) Lock(path string) (func(), error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.locks[path] {
		return nil, fmt.Errorf("%w: %s", fsops.ErrLocked, path)
	}
	fs.locks[path] = true
	return func() {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		delete(fs.locks, path)
	}, nil
}

var _ fsops.FS = (*testFS)(nil)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestEngine returns an engine whose sessions live in fs.
func newTestEngine(t *testing.T, fs *testFS) *engine.Engine {
	t.Helper()
	store := state.NewFileStateStore(fs, hash.NewSHA256Hasher(), sessionsDir)
	return engine.New(store, clock.NewStepper(testStart, time.Second), zap.NewNop())
}

func layerNames(infos []engine.LayerInfo) []string {
	names := make([]string, 0, len(infos))
	for _, l := range infos {
		names = append(names, l.Name)
	}
	return names
}
