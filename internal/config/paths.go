// Package config manages mapbench configuration and filesystem paths.
//
// All data lives under a single root, ~/.mapbench by default, which can be
// moved with the MAPBENCH_ROOT environment variable. The root holds the
// session files, the optional SQLite database, config.yaml, keys.toml and
// the TUI log.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv names the environment variable that overrides the data root.
const RootEnv = "MAPBENCH_ROOT"

// Paths contains all the filesystem paths used by mapbench.
type Paths struct {
	// Root is the base directory for all mapbench data (default: ~/.mapbench)
	Root string

	// Sessions is the directory containing session JSON files
	Sessions string

	// Database is the SQLite file used by the sqlite state backend
	Database string

	// Config is the path to config.yaml
	Config string

	// Keys is the path to the TUI keymap and palette (keys.toml)
	Keys string

	// Logs is the directory for log files written while the TUI owns the terminal
	Logs string
}

// DefaultPaths returns the default paths for mapbench, honoring MAPBENCH_ROOT.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".mapbench")
	}
	return PathsAt(root), nil
}

// PathsAt lays out the paths under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:     root,
		Sessions: filepath.Join(root, "sessions"),
		Database: filepath.Join(root, "mapbench.db"),
		Config:   filepath.Join(root, "config.yaml"),
		Keys:     filepath.Join(root, "keys.toml"),
		Logs:     filepath.Join(root, "logs"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Sessions, p.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
