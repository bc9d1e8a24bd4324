// Package state persists workbench sessions.
//
// A session is the saved form of one workbench: its layers, the now-viewing
// order and the map's layer order. Sessions are stored either as JSON files
// under the sessions directory or as rows in a SQLite database.
//
// Key concepts:
//   - Session: one named workbench and its revision
//   - Revision: content fingerprint recomputed on every save
//   - StateStore: interface for loading and saving sessions
//   - ErrStale: returned when a save races with another writer
package state
