// Package fsops provides the filesystem operations mapbench relies on.
//
// Session files are only ever replaced through AtomicWrite, so a reader (the
// TUI watcher, another CLI invocation) sees either the old or the new session
// and never a torn write. Names that end up in file paths go through
// ValidateName first.
package fsops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxNameLen bounds session names so they stay usable as file names.
const maxNameLen = 64

// ErrLocked indicates a lock file that another holder did not release in time.
var ErrLocked = errors.New("lock held by another process")

var (
	lockTimeout  = 5 * time.Second
	lockRetry    = 10 * time.Millisecond
	staleLockAge = 30 * time.Second
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// ListNames returns the base names, without ext, of the regular files in
	// dir that end in ext, sorted. A missing dir yields an empty list.
	ListNames(dir, ext string) ([]string, error)

	// ValidateName checks that name is safe to use as a file name.
	ValidateName(name string) error

	// Lock takes the lock file at path and returns the func that releases
	// it. It fails with ErrLocked if the lock stays held.
	Lock(path string) (unlock func(), err error)
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// AtomicWrite writes data to a temp file next to path and renames it into
// place.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mapbench-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	committed = true
	return nil
}

// Lock creates path exclusively, retrying until lockTimeout. A lock file older
// than staleLockAge was left by a process that died holding it and is taken
// over.
func (fs *RealFS) Lock(path string) (func(), error) {
	deadline := time.Now().Add(lockTimeout)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		if info, statErr := os.Stat(path); statErr == nil && time.Since(info.ModTime()) > staleLockAge {
			_ = os.Remove(path)
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		time.Sleep(lockRetry)
	}
}

// ListNames returns the sorted base names of files in dir ending in ext.
func (fs *RealFS) ListNames(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ext); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ValidateName accepts letters, digits, '-', '_' and '.', not starting with
// a dot, at most maxNameLen bytes.
func (fs *RealFS) ValidateName(name string) error {
	return ValidateName(name)
}

// ValidateName is the check behind RealFS.ValidateName, shared with fakes.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid name: empty")
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("invalid name: longer than %d characters", maxNameLen)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid name %q: must not start with a dot", name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return fmt.Errorf("invalid name %q: character %q not allowed", name, r)
		}
	}
	return nil
}
