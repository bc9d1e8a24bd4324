package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// KeyMap binds TUI actions to keys. Each action accepts several keys.
type KeyMap struct {
	Up     []string `toml:"up"`
	Down   []string `toml:"down"`
	Grab   []string `toml:"grab"`
	Cancel []string `toml:"cancel"`
	Toggle []string `toml:"toggle"`
	Reload []string `toml:"reload"`
	Quit   []string `toml:"quit"`
}

// Palette holds lipgloss color strings (ANSI numbers or #rrggbb).
type Palette struct {
	Title    string `toml:"title"`
	Cursor   string `toml:"cursor"`
	Grabbed  string `toml:"grabbed"`
	Pinned   string `toml:"pinned"`
	Hidden   string `toml:"hidden"`
	Status   string `toml:"status"`
	Warning  string `toml:"warning"`
	Selected string `toml:"selected"`
}

// UISettings is the content of keys.toml.
type UISettings struct {
	Keys    KeyMap  `toml:"keys"`
	Palette Palette `toml:"palette"`
}

// DefaultUISettings returns the built-in keymap and palette.
func DefaultUISettings() *UISettings {
	return &UISettings{
		Keys: KeyMap{
			Up:     []string{"up", "k"},
			Down:   []string{"down", "j"},
			Grab:   []string{" ", "enter"},
			Cancel: []string{"esc"},
			Toggle: []string{"v"},
			Reload: []string{"r"},
			Quit:   []string{"q", "ctrl+c"},
		},
		Palette: Palette{
			Title:    "4",
			Cursor:   "6",
			Grabbed:  "3",
			Pinned:   "5",
			Hidden:   "8",
			Status:   "8",
			Warning:  "1",
			Selected: "2",
		},
	}
}

// LoadUISettings decodes keys.toml over the defaults. Keys that are not set
// in the file keep their defaults; a missing file yields the defaults.
func LoadUISettings(path string) (*UISettings, error) {
	settings := DefaultUISettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read keys: %w", err)
	}

	md, err := toml.Decode(string(data), settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keys: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return settings, nil
}
