package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danieljhkim/mapbench/internal/fsops"
	"github.com/danieljhkim/mapbench/internal/hash"
)

const sessionsSchema = `
	CREATE TABLE IF NOT EXISTS sessions (
		name TEXT PRIMARY KEY,
		revision TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
`

// SQLiteStateStore implements StateStore on a SQLite database. Each session
// is one row holding its JSON encoding.
type SQLiteStateStore struct {
	db     *sql.DB
	hasher hash.Hasher
}

// OpenSQLiteStateStore opens (creating if needed) the database at path.
func OpenSQLiteStateStore(path string, hasher hash.Hasher) (*SQLiteStateStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sessionsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &SQLiteStateStore{db: db, hasher: hasher}, nil
}

// Close closes the database.
func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}

// LoadSession loads the named session.
func (s *SQLiteStateStore) LoadSession(name string) (*Session, error) {
	if err := fsops.ValidateName(name); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRow(`SELECT data FROM sessions WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, os.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", name, err)
	}
	return &session, nil
}

// SaveSession upserts the session inside a transaction so the revision check
// and the write cannot interleave with another writer.
func (s *SQLiteStateStore) SaveSession(session *Session, expectRevision string) error {
	if err := fsops.ValidateName(session.Name); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if expectRevision != "" {
		var stored string
		err := tx.QueryRow(`SELECT revision FROM sessions WHERE name = ?`, session.Name).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s was deleted", ErrStale, session.Name)
		}
		if err != nil {
			return fmt.Errorf("failed to read session revision: %w", err)
		}
		if err := checkRevision(session.Name, stored, expectRevision); err != nil {
			return err
		}
	}

	rev, err := ComputeRevision(s.hasher, session)
	if err != nil {
		return err
	}
	session.Revision = rev

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO sessions (name, revision, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			revision = excluded.revision,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, session.Name, rev, string(data), session.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// DeleteSession deletes the named session.
func (s *SQLiteStateStore) DeleteSession(name string) error {
	if err := fsops.ValidateName(name); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListSessions returns all session names, sorted.
func (s *SQLiteStateStore) ListSessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM sessions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan session name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return names, nil
}
