package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/mapbench/internal/fsops"
	"github.com/danieljhkim/mapbench/internal/hash"
)

// StateStore provides an interface for persisting sessions.
type StateStore interface {
	// LoadSession loads the named session.
	// Returns os.ErrNotExist if the session doesn't exist.
	LoadSession(name string) (*Session, error)

	// SaveSession stores the session and sets its Revision. A non-empty
	// expectRevision must match the stored revision or ErrStale is returned.
	SaveSession(session *Session, expectRevision string) error

	// DeleteSession deletes the named session. Deleting a missing session
	// is not an error.
	DeleteSession(name string) error

	// ListSessions returns the names of all stored sessions, sorted.
	ListSessions() ([]string, error)
}

// FileStateStore implements StateStore using JSON files on disk.
type FileStateStore struct {
	fs          fsops.FS
	hasher      hash.Hasher
	sessionsDir string
}

// NewFileStateStore creates a new FileStateStore.
func NewFileStateStore(fs fsops.FS, hasher hash.Hasher, sessionsDir string) *FileStateStore {
	return &FileStateStore{
		fs:          fs,
		hasher:      hasher,
		sessionsDir: sessionsDir,
	}
}

// SessionPath returns the file that holds the named session.
func (s *FileStateStore) SessionPath(name string) string {
	return filepath.Join(s.sessionsDir, name+".json")
}

// lockPath is the lock file guarding writes to the named session. The
// leading dot keeps it out of ListSessions and the watcher.
func (s *FileStateStore) lockPath(name string) string {
	return filepath.Join(s.sessionsDir, "."+name+".lock")
}

// LoadSession loads the named session.
func (s *FileStateStore) LoadSession(name string) (*Session, error) {
	if err := s.fs.ValidateName(name); err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(s.SessionPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", name, err)
	}

	return &session, nil
}

// SaveSession saves the session atomically. The revision check and the write
// run under the session's lock file, so two processes saving against the
// same revision cannot both succeed.
func (s *FileStateStore) SaveSession(session *Session, expectRevision string) error {
	if err := s.fs.ValidateName(session.Name); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.sessionsDir, 0755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}
	unlock, err := s.fs.Lock(s.lockPath(session.Name))
	if err != nil {
		return fmt.Errorf("failed to lock session %s: %w", session.Name, err)
	}
	defer unlock()

	if expectRevision != "" {
		current, err := s.LoadSession(session.Name)
		switch {
		case err == nil:
			if err := checkRevision(session.Name, current.Revision, expectRevision); err != nil {
				return err
			}
		case os.IsNotExist(err):
			return fmt.Errorf("%w: %s was deleted", ErrStale, session.Name)
		default:
			return err
		}
	}

	rev, err := ComputeRevision(s.hasher, session)
	if err != nil {
		return err
	}
	session.Revision = rev

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.fs.AtomicWrite(s.SessionPath(session.Name), data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// DeleteSession deletes the session file.
func (s *FileStateStore) DeleteSession(name string) error {
	if err := s.fs.ValidateName(name); err != nil {
		return err
	}
	if err := s.fs.Remove(s.SessionPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListSessions returns the names of the session files.
func (s *FileStateStore) ListSessions() ([]string, error) {
	names, err := s.fs.ListNames(s.sessionsDir, ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return names, nil
}
